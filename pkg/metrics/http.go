package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// NewPromHttpHandler returns the /metrics handler for g.
func NewPromHttpHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ProvideRegistry gives each app its own registry with the process and Go
// runtime collectors attached.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return reg
}

func ProvideCollector(reg *prometheus.Registry) *Collector { return New(reg) }
func ProvideMetrics(reg *prometheus.Registry) http.Handler  { return NewPromHttpHandler(reg) }

var Module = fx.Options(
	fx.Provide(ProvideRegistry, ProvideCollector, ProvideMetrics),
)
