package middleware

import (
	"time"

	"github.com/techinsight/blog/util/metrics"

	"github.com/gin-gonic/gin"
)

// RequestMetrics counts requests per route and status.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
