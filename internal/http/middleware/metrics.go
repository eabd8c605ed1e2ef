package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/projectreview-backend/internal/observability"
)

// Metrics records request count, latency and in-flight requests. Review
// streams are long-lived and are counted without a latency sample, and
// /metrics scrapes are not recorded. A nil m is a pass-through.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "/metrics" {
			c.Next()
			return
		}
		stream := strings.HasSuffix(route, "/stream")
		start := time.Now()
		if !stream {
			m.ApiInflightInc()
			defer m.ApiInflightDec()
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		if stream {
			m.CountAPI(c.Request.Method, route, status)
			return
		}
		// unmatched routes have an empty FullPath and report as unknown
		m.ObserveAPI(c.Request.Method, route, status, time.Since(start))
	}
}
