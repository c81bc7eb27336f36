// pkg/core/server.go
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime"
	"time"

	"github.com/google/uuid"
	manifest "github.com/joeydtaylor/steeze-dispatch/pkg/manifest"
	"github.com/joeydtaylor/steeze-dispatch/pkg/wire"
	"go.uber.org/zap"
)

const maxAcceptDelay = time.Second

type options struct {
	log       *zap.Logger
	parser    wire.Parser
	observers Observers
}

// Option customizes a Server.
type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithParser replaces the default HTTP/1 request-head parser.
func WithParser(p wire.Parser) Option {
	return func(o *options) {
		if p != nil {
			o.parser = p
		}
	}
}

func WithObserver(obs ...Observer) Option {
	return func(o *options) {
		for _, x := range obs {
			if x != nil {
				o.observers = append(o.observers, x)
			}
		}
	}
}

// Server accepts connections and dispatches one request per connection to the
// handler registered for its (verb, function name).
type Server[S any] struct {
	cfg      manifest.Server
	registry *Registry[S]
	service  S
	parser   wire.Parser
	log      *zap.Logger
	obs      Observers
}

// NewServer wires a dispatch server. svc is handed unchanged to every handler
// invocation, concurrently; any mutable state inside it must guard itself.
func NewServer[S any](cfg manifest.Server, reg *Registry[S], svc S, opts ...Option) *Server[S] {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = manifest.DefaultReadBufferSize
	}
	if o.parser == nil {
		o.parser = wire.HTTP1{MaxHeaders: cfg.MaxHeaders}
	}
	if reg == nil {
		reg = NewRegistry[S]()
	}
	return &Server[S]{
		cfg:      cfg,
		registry: reg,
		service:  svc,
		parser:   o.parser,
		log:      o.log,
		obs:      o.observers,
	}
}

func (s *Server[S]) Registry() *Registry[S] { return s.registry }

// Listen binds the configured address. There is no fallback address; callers
// treat an error here as fatal to startup.
func (s *Server[S]) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("%w on %s: %w", ErrBind, s.cfg.Address, err)
	}
	return ln, nil
}

// ListenAndServe binds then serves until ctx ends.
func (s *Server[S]) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve freezes the registry and accepts connections from ln, one goroutine per
// connection. Accept errors are logged and retried with backoff. Serve returns
// only when ctx ends (ctx.Err()) or ln is closed (ErrServerClosed). Connection
// tasks already running are left to finish on their own.
func (s *Server[S]) Serve(ctx context.Context, ln net.Listener) error {
	s.registry.Freeze()
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	s.log.Info("dispatch serving",
		zap.String("addr", ln.Addr().String()),
		zap.Int("functions", len(s.registry.Functions())),
	)

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else if delay *= 2; delay > maxAcceptDelay {
				delay = maxAcceptDelay
			}
			s.obs.AcceptFailed(err)
			s.log.Error("accept failed", zap.Error(err), zap.Duration("retryIn", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		delay = 0
		s.obs.Accepted()
		go s.serveConn(ctx, conn)
	}
}

// serveConn is one connection task: read, route, invoke, respond, close.
func (s *Server[S]) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	ex := Exchange{
		ConnID:     uuid.NewString(),
		RemoteAddr: conn.RemoteAddr().String(),
		Started:    time.Now(),
	}

	res := s.handle(ctx, conn)
	ex.Request, ex.Status, ex.Matched, ex.Err = res.req, res.status, res.matched, res.err
	if ex.Err != nil {
		s.log.Debug("request failed",
			zap.String("connectionId", ex.ConnID),
			zap.Stringer("status", ex.Status),
			zap.Error(ex.Err),
		)
	}

	n, err := writeResponse(conn, res.status, res.body)
	ex.BytesWritten = n
	if err != nil {
		s.log.Error("response write failed",
			zap.String("connectionId", ex.ConnID),
			zap.String("remoteAddr", ex.RemoteAddr),
			zap.Error(err),
		)
		if ex.Err == nil {
			ex.Err = err
		}
	}

	ex.Latency = time.Since(ex.Started)
	s.obs.Observe(ex)
}

type result struct {
	req     Request
	status  Status
	body    Text
	matched bool
	err     error
}

// handle reads a single request from r and computes the response for it.
// Every path yields exactly one (Status, Text) for the caller to write.
func (s *Server[S]) handle(ctx context.Context, r io.Reader) result {
	buf := make([]byte, s.cfg.ReadBufferSize)
	n, err := r.Read(buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return result{status: StatusBadRequest, err: ErrEmptyRequest}
		}
		return result{status: StatusInternalServerError, err: fmt.Errorf("read: %w", err)}
	}

	req, err := route(s.parser, buf, n)
	if err != nil {
		return result{req: req, status: StatusBadRequest, err: err}
	}

	h, ok := s.registry.Resolve(req.Verb, req.Name)
	if !ok {
		return result{req: req, status: StatusNotFound}
	}
	if d := s.handlerTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	status, body, err := s.invoke(ctx, h, req.Input).resolve(ctx)
	return result{req: req, status: status, body: body, matched: true, err: err}
}

func (s *Server[S]) handlerTimeout() time.Duration {
	return time.Duration(s.cfg.HandlerTimeoutMS) * time.Millisecond
}

// invoke calls h, turning a panic in its own call frame into an
// InternalServerError outcome.
func (s *Server[S]) invoke(ctx context.Context, h Handler[S], in Text) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("handler panicked", zap.Any("panic", r))
			out = Immediate(StatusInternalServerError, None)
		}
	}()
	return h(ctx, s.service, in)
}

// ConfigureRuntime sets the number of OS threads executing goroutines
// simultaneously. workers <= 0 leaves the runtime default. It returns the
// previous setting.
func ConfigureRuntime(workers int) int {
	if workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return runtime.GOMAXPROCS(workers)
}
