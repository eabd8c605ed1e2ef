package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/projectreview-backend/internal/platform/ctxutil"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

// quietRoutes are polled by infrastructure and only logged at debug level.
var quietRoutes = map[string]bool{
	"/healthcheck": true,
	"/readyz":      true,
	"/metrics":     true,
}

// RequestLogger logs one line per request once the handler returns. Review
// streams also get a line when they open, since they can stay up for the whole
// session.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		stream := strings.HasSuffix(route, "/stream")
		if stream {
			log.Debug("review stream opened", requestFields(c, route)...)
		}

		c.Next()

		status := c.Writer.Status()
		fields := append(requestFields(c, route),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, "error", last.Error())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		case quietRoutes[route]:
			log.Debug("HTTP request", fields...)
		case stream:
			log.Info("review stream closed", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func requestFields(c *gin.Context, route string) []interface{} {
	if route == "" {
		route = c.Request.URL.Path
	}
	fields := []interface{}{"method", c.Request.Method, "route", route}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
		if td.ReviewID != "" {
			fields = append(fields, "session_id", td.ReviewID)
		}
	}
	return fields
}
