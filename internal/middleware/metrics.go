package middleware

import (
	"time"

	"teamhub/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RequestMetrics ghi latency theo route template (không theo path thật
// để tránh label cardinality theo ID)
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
