package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/metrics"
)

// MetricsMiddleware counts requests and observes latency per route template
func MetricsMiddleware(registry *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		registry.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		registry.HTTPLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
