package middleware

import (
	"net/http"
	"time"

	"profit-forecast/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per matched route
func Metrics(m *metrics.Collectors) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.ObserveRequest(c.Request.Method, route, status, time.Since(start))
	}
}
