package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/projectreview-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
	headerReviewID  = "X-Review-Id"
)

// AttachTraceContext stores request, trace and review ids on the request
// context. The trace id prefers the otel span so logs and traces line up.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		td := &ctxutil.TraceData{
			RequestID: strings.TrimSpace(c.GetHeader(headerRequestID)),
			ReviewID:  strings.TrimSpace(c.Param("id")),
		}
		if td.RequestID == "" {
			td.RequestID = uuid.NewString()
		}

		span := trace.SpanFromContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			td.TraceID = sc.TraceID().String()
		} else if h := strings.TrimSpace(c.GetHeader(headerTraceID)); h != "" {
			td.TraceID = h
		} else {
			td.TraceID = td.RequestID
		}
		if td.ReviewID != "" {
			span.SetAttributes(attribute.String("review.session_id", td.ReviewID))
			c.Writer.Header().Set(headerReviewID, td.ReviewID)
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, td))
		c.Writer.Header().Set(headerTraceID, td.TraceID)
		c.Writer.Header().Set(headerRequestID, td.RequestID)
		c.Next()
	}
}
