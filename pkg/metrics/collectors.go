package metrics

import (
	"strconv"

	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Unmatched labels requests that never reached a registered handler. Client
// supplied names stay out of the label set.
const Unmatched = "unmatched"

// Collector records dispatch traffic. It implements core.Observer.
type Collector struct {
	responseTime       prometheus.Histogram
	requestsToFunction *prometheus.CounterVec
	requests           *prometheus.CounterVec
	responseBytes      prometheus.Counter
	accepted           prometheus.Counter
	acceptErrors       prometheus.Counter
}

// New builds a Collector and registers it with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		responseTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_response_time_seconds",
			Help:    "dispatch response time.",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),
		requestsToFunction: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "dispatch_requests_to_function_total", Help: "requests by code, verb and function"},
			[]string{"code", "verb", "function"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "dispatch_requests_total", Help: "requests by code and verb"},
			[]string{"code", "verb"},
		),
		responseBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_response_bytes_total", Help: "bytes written to clients",
		}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_connections_accepted_total", Help: "connections accepted",
		}),
		acceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_accept_errors_total", Help: "failed accept calls",
		}),
	}
	reg.MustRegister(
		c.responseTime,
		c.requestsToFunction,
		c.requests,
		c.responseBytes,
		c.accepted,
		c.acceptErrors,
	)
	return c
}

func (c *Collector) Accepted()            { c.accepted.Inc() }
func (c *Collector) AcceptFailed(_ error) { c.acceptErrors.Inc() }

func (c *Collector) Observe(ex core.Exchange) {
	code := strconv.Itoa(ex.Status.Code())
	verb, fn := Unmatched, Unmatched
	if ex.Matched {
		verb, fn = string(ex.Request.Verb), ex.Request.Name
	}

	c.requestsToFunction.WithLabelValues(code, verb, fn).Inc()
	c.requests.WithLabelValues(code, verb).Inc()
	c.responseBytes.Add(float64(ex.BytesWritten))
	c.responseTime.Observe(ex.Latency.Seconds())
}
