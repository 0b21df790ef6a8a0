package middleware

import (
	"strconv"
	"time"

	"agririsk-back/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency by route template, so
// /api/predictions/1 and /api/predictions/2 share a series.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
