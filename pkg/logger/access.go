package logger

import (
	"time"

	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
	manifest "github.com/joeydtaylor/steeze-dispatch/pkg/manifest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AccessLog writes one line per finished connection. It implements
// core.Observer.
type AccessLog struct {
	l *zap.Logger
}

// NewAccessLog logs to <dir>/dispatch-access.log and stdout.
func NewAccessLog(cfg manifest.Log) *AccessLog {
	enc := zap.NewProductionEncoderConfig()
	enc.MessageKey = zapcore.OmitKey
	return &AccessLog{l: newLog(cfg, "dispatch-access.log", enc)}
}

// NewAccessLogTo wraps an existing logger, mostly for tests and CLIs.
func NewAccessLogTo(l *zap.Logger) *AccessLog {
	if l == nil {
		l = zap.NewNop()
	}
	return &AccessLog{l: l}
}

func (a *AccessLog) Accepted()          {}
func (a *AccessLog) AcceptFailed(error) {}

func (a *AccessLog) Observe(ex core.Exchange) {
	fields := []zap.Field{
		zap.String("dateTime", ex.Started.UTC().Format(time.RFC1123)),
		zap.String("connectionId", ex.ConnID),
		zap.String("remoteAddr", ex.RemoteAddr),
		zap.String("verb", string(ex.Request.Verb)),
		zap.String("function", ex.Request.Name),
		zap.Stringer("status", ex.Status),
		zap.Int("statusCode", ex.Status.Code()),
		zap.Duration("lat", ex.Latency),
		zap.Int("responseSize", ex.BytesWritten),
	}
	if ex.Err != nil {
		fields = append(fields, zap.Error(ex.Err))
	}
	a.l.Info("", fields...)
}

// Sync flushes buffered entries.
func (a *AccessLog) Sync() error { return a.l.Sync() }
