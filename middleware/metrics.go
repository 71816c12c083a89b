package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"photo-portfolio-platform/internal/telemetry"
)

// MetricsMiddleware records per-request counters and latency. The route
// template is used rather than the raw path so photo ids do not explode
// metric cardinality.
func MetricsMiddleware(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
