package logger

import (
	manifest "github.com/joeydtaylor/steeze-dispatch/pkg/manifest"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func ProvideLogger(cfg manifest.Config) *zap.Logger   { return NewLog(cfg.Log, "system.log") }
func ProvideAccessLog(cfg manifest.Config) *AccessLog { return NewAccessLog(cfg.Log) }

var Module = fx.Options(
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideAccessLog),
)
