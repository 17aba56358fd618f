// Package metrics holds the Prometheus collectors of the forecast service.
// A nil *Collectors is valid and records nothing, so the engine can run
// without a registry (CLI, tests).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Collectors struct {
	ForecastDuration   prometheus.Histogram
	ForecastDays       prometheus.Counter
	SolverIterations   *prometheus.HistogramVec
	SolverNonConverged *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

func New() *Collectors {
	return &Collectors{
		ForecastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "profit_forecast_duration_seconds",
			Help:    "Duration of a full forecast run in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		ForecastDays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "profit_forecast_days_total",
			Help: "Total number of projected days",
		}),
		SolverIterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "profit_breakeven_iterations",
			Help:    "Iterations used by one break-even search",
			Buckets: []float64{1, 5, 10, 20, 30, 50, 75, 100},
		}, []string{"lever"}),
		SolverNonConverged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profit_breakeven_non_converged_total",
			Help: "Break-even searches that exhausted the iteration cap",
		}, []string{"lever"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profit_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "profit_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register adds every collector to reg.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{
		c.ForecastDuration,
		c.ForecastDays,
		c.SolverIterations,
		c.SolverNonConverged,
		c.HTTPRequests,
		c.HTTPDuration,
	} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collectors) ObserveForecast(days int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.ForecastDuration.Observe(elapsed.Seconds())
	c.ForecastDays.Add(float64(days))
}

func (c *Collectors) ObserveSolve(lever string, iterations int, converged bool) {
	if c == nil {
		return
	}
	c.SolverIterations.WithLabelValues(lever).Observe(float64(iterations))
	if !converged {
		c.SolverNonConverged.WithLabelValues(lever).Inc()
	}
}

func (c *Collectors) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
