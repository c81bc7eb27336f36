package main

import (
	"context"
	"sync/atomic"

	"github.com/joeydtaylor/steeze-dispatch/pkg/auth"
	"github.com/joeydtaylor/steeze-dispatch/pkg/codec"
	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
	"github.com/joeydtaylor/steeze-dispatch/pkg/params"
	"go.uber.org/zap"
)

// Service is the state every handler shares.
type Service struct {
	Resource string
	Auth     *auth.Validator // nil when no key source is configured
	Log      *zap.Logger

	posts atomic.Int64
}

func NewService(v *auth.Validator, log *zap.Logger) *Service {
	return &Service{Resource: "resource", Auth: v, Log: log}
}

func Routes() *core.Registry[*Service] {
	return core.NewBuilder[*Service]().
		Get("echo", echo).
		Get("some_test", someTestGet).
		Post("some_test", someTestPost).
		Post("whoami", whoami).
		Registry()
}

// echo answers with its input, or "empty" when there is none.
func echo(_ context.Context, _ *Service, in core.Text) core.Outcome {
	return core.Immediate(core.StatusOK, core.Some(in.Or("empty")))
}

func someTestGet(_ context.Context, _ *Service, in core.Text) core.Outcome {
	if !in.Valid {
		return codec.Reply(codec.JSONStrict, core.StatusOK, map[string]string{"params": "empty"})
	}
	return codec.Reply(codec.JSONStrict, core.StatusOK, map[string]params.Values{"params": params.FromInput(in)})
}

type someTestReply struct {
	Data     map[string]core.Text `json:"data"`
	Resource string               `json:"resource"`
	Seq      int64                `json:"seq"`
}

// someTestPost validates the body up front and answers from a background task.
func someTestPost(ctx context.Context, svc *Service, in core.Text) core.Outcome {
	data, err := codec.Decode[map[string]core.Text](codec.JSONLenient, in)
	if err != nil {
		return core.Immediate(core.StatusBadRequest, core.None)
	}
	return core.Spawn(ctx, func(context.Context) (core.Status, core.Text) {
		body, err := codec.Encode(codec.JSONStrict, someTestReply{
			Data:     data,
			Resource: svc.Resource,
			Seq:      svc.posts.Add(1),
		})
		if err != nil {
			return core.StatusInternalServerError, core.None
		}
		return core.StatusOK, body
	})
}

// whoami takes the raw token as its body. Tokens are base64 and may contain
// '/', which the path router would split on, so they never travel in a GET.
func whoami(_ context.Context, svc *Service, in core.Text) core.Outcome {
	if svc.Auth == nil {
		return core.Immediate(core.StatusForbidden, core.None)
	}
	id, status, err := svc.Auth.Authorize(in, auth.RoleService|auth.RoleAdministrator)
	if err != nil {
		svc.Log.Debug("whoami rejected", zap.Stringer("status", status), zap.Error(err))
		return core.Immediate(status, core.None)
	}
	return codec.Reply(codec.JSONStrict, core.StatusOK, id)
}
