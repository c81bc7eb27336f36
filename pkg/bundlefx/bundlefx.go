// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/joeydtaylor/steeze-dispatch/pkg/auth"
	"github.com/joeydtaylor/steeze-dispatch/pkg/logger"
	"github.com/joeydtaylor/steeze-dispatch/pkg/metrics"
	"go.uber.org/fx"
)

// Module provided to fx
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
