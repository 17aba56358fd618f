package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCollectorsAreNoOps(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.ObserveForecast(10, time.Millisecond)
		c.ObserveSolve("price", 12, true)
		c.ObserveRequest("GET", "/health", 200, time.Millisecond)
	})
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New()
	require.NoError(t, c.Register(reg))
	assert.Error(t, c.Register(reg))
}

func TestObserve(t *testing.T) {
	c := New()

	c.ObserveForecast(181, 20*time.Millisecond)
	c.ObserveForecast(91, 5*time.Millisecond)
	assert.Equal(t, 272.0, testutil.ToFloat64(c.ForecastDays))
	assert.Equal(t, 1, testutil.CollectAndCount(c.ForecastDuration))

	c.ObserveSolve("price", 18, true)
	c.ObserveSolve("delivery", 100, false)
	c.ObserveSolve("delivery", 100, false)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.SolverNonConverged.WithLabelValues("delivery")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.SolverIterations))

	c.ObserveRequest("POST", "/api/v1/forecast", 201, time.Millisecond)
	c.ObserveRequest("POST", "/api/v1/forecast", 400, time.Millisecond)
	c.ObserveRequest("POST", "/api/v1/forecast", 422, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("POST", "/api/v1/forecast", "2xx")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("POST", "/api/v1/forecast", "4xx")))
}

func TestStatusLabel(t *testing.T) {
	cases := map[int]string{
		200: "2xx",
		204: "2xx",
		301: "3xx",
		404: "4xx",
		429: "4xx",
		500: "5xx",
		503: "5xx",
	}
	for status, want := range cases {
		assert.Equal(t, want, statusLabel(status), "status %d", status)
	}
}
