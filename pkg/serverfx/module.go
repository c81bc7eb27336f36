package serverfx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/joeydtaylor/steeze-dispatch/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
	"github.com/joeydtaylor/steeze-dispatch/pkg/logger"
	manifest "github.com/joeydtaylor/steeze-dispatch/pkg/manifest"
	"github.com/joeydtaylor/steeze-dispatch/pkg/metrics"
	"github.com/joeydtaylor/steeze-dispatch/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module returns a complete Fx option set for a dispatch service whose
// handlers receive S. The app provides *core.Registry[S] and S alongside.
func Module[S any](opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		// Config into DI
		fx.Provide(func() Config { return cfg }),
		fx.Provide(provideManifest),
		// Logger, metrics, auth
		bundlefx.Module,
		// Admin router impl
		fx.Provide(httpx.NewChi),
		fx.Provide(provideServer[S]),
		fx.Provide(fx.Annotate(provideAdmin[S], fx.ResultTags(`name:"admin"`))),
		// Lifecycle
		fx.Invoke(registerHooks[S]),
	)
}

type serverParams[S any] struct {
	fx.In
	Manifest  manifest.Config
	Registry  *core.Registry[S]
	Service   S
	Logger    *zap.Logger
	AccessLog *logger.AccessLog
	Metrics   *metrics.Collector
}

func provideServer[S any](p serverParams[S]) *core.Server[S] {
	return core.NewServer(p.Manifest.Server, p.Registry, p.Service,
		core.WithLogger(p.Logger),
		core.WithObserver(p.AccessLog, p.Metrics),
	)
}

func provideAdmin[S any](man manifest.Config, reg *core.Registry[S], r httpx.Router, m http.Handler, zl *zap.Logger) *http.Server {
	if man.Admin.Address == "" {
		return nil
	}
	return &http.Server{
		Addr: man.Admin.Address,
		Handler: httpx.NewAdmin(r, httpx.AdminDeps{
			Functions: reg,
			Metrics:   m,
			Logger:    zl,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

type hookDeps[S any] struct {
	fx.In
	Config    Config
	Manifest  manifest.Config
	Server    *core.Server[S]
	Admin     *http.Server `name:"admin"`
	Logger    *zap.Logger
	AccessLog *logger.AccessLog
}

// registerHooks binds both listeners in OnStart so a bind failure aborts
// startup, then serves in the background. OnStop closes the listeners;
// requests already in flight are not waited for.
func registerHooks[S any](lc fx.Lifecycle, d hookDeps[S]) {
	var (
		ln      net.Listener
		adminLn net.Listener
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			prev := core.ConfigureRuntime(d.Manifest.Server.Workers)
			d.Logger.Info("runtime configured",
				zap.String("service", d.Config.Service),
				zap.Int("workers", d.Manifest.Server.Workers),
				zap.Int("previousProcs", prev),
			)

			var err error
			ln, err = d.Server.Listen()
			if err != nil {
				return err
			}
			go func() {
				err := d.Server.Serve(context.Background(), ln)
				if err != nil && !errors.Is(err, core.ErrServerClosed) {
					d.Logger.Error("dispatch server stopped", zap.Error(err))
				}
			}()

			if d.Admin == nil {
				return nil
			}
			adminLn, err = net.Listen("tcp", d.Admin.Addr)
			if err != nil {
				_ = ln.Close()
				return err
			}
			d.Logger.Info("admin server starting", zap.String("addr", adminLn.Addr().String()))
			go func() {
				if err := d.Admin.Serve(adminLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Error("admin server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", d.Config.Service))
			var errs []error
			if ln != nil {
				if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
					errs = append(errs, err)
				}
			}
			if d.Admin != nil {
				errs = append(errs, d.Admin.Shutdown(ctx))
			}
			_ = d.AccessLog.Sync()
			_ = d.Logger.Sync()
			return errors.Join(errs...)
		},
	})
}
