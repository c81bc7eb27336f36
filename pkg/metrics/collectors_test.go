package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joeydtaylor/steeze-dispatch/pkg/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.Accepted()
	c.Accepted()
	c.AcceptFailed(errors.New("boom"))
	c.Observe(core.Exchange{
		Request:      core.Request{Verb: core.VerbGet, Name: "echo"},
		Matched:      true,
		Status:       core.StatusOK,
		BytesWritten: 90,
		Latency:      3 * time.Millisecond,
	})
	c.Observe(core.Exchange{
		Request:      core.Request{Verb: core.VerbGet, Name: "no_such_fn"},
		Status:       core.StatusNotFound,
		BytesWritten: 80,
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.accepted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.acceptErrors))
	assert.Equal(t, 170.0, testutil.ToFloat64(c.responseBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requestsToFunction.WithLabelValues("200", "GET", "echo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requestsToFunction.WithLabelValues("404", Unmatched, Unmatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("404", Unmatched)))
	assert.Equal(t, 2, testutil.CollectAndCount(c.requestsToFunction))
}

func TestNewPromHttpHandler(t *testing.T) {
	reg := ProvideRegistry()
	c := New(reg)
	c.Accepted()

	rec := httptest.NewRecorder()
	NewPromHttpHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "dispatch_connections_accepted_total 1"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
