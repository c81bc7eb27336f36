package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
	"go.uber.org/zap"
)

// FunctionLister is satisfied by every core.Registry instantiation.
type FunctionLister interface {
	Functions() []core.Function
}

// AdminDeps are what the admin surface serves.
type AdminDeps struct {
	Functions FunctionLister
	Metrics   http.Handler // nil omits /metrics
	Logger    *zap.Logger
}

// NewAdmin mounts /ping, /metrics and /functions on r and returns the handler.
func NewAdmin(r Router, d AdminDeps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r.Use(chimd.RequestID, chimd.Recoverer, requestLogger(log))
	r.Use(chimd.Heartbeat("/ping"))

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}
	r.Get("/functions", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fns := []core.Function{}
		if d.Functions != nil {
			fns = d.Functions.Functions()
		}
		w.Header().Set("Content-Type", core.ContentType)
		if err := json.NewEncoder(w).Encode(fns); err != nil {
			log.Warn("functions encode failed", zap.Error(err))
		}
	}))
	return r.Mux()
}

func requestLogger(l *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				l.Debug("admin request",
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.String("httpMethod", r.Method),
					zap.String("remoteAddr", r.RemoteAddr),
					zap.String("uri", r.URL.Path),
					zap.Int("httpStatus", ww.Status()),
					zap.Int("responseSize", ww.BytesWritten()),
					zap.Duration("lat", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
