package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/projectreview-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen *ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	handler := func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	}
	r.GET("/api/reviews/:id", handler)
	r.GET("/healthcheck", handler)

	cases := []struct {
		name      string
		path      string
		requestID string
		reviewID  string
	}{
		{name: "review route", path: "/api/reviews/abc", requestID: "req-1", reviewID: "abc"},
		{name: "no review", path: "/healthcheck"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.requestID != "" {
				req.Header.Set(headerRequestID, tc.requestID)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if seen == nil {
				t.Fatalf("trace data missing from request context")
			}
			if seen.ReviewID != tc.reviewID {
				t.Fatalf("review id: want=%q got=%q", tc.reviewID, seen.ReviewID)
			}
			if tc.requestID != "" && seen.RequestID != tc.requestID {
				t.Fatalf("request id: want=%q got=%q", tc.requestID, seen.RequestID)
			}
			if seen.RequestID == "" || seen.TraceID == "" {
				t.Fatalf("ids not generated: %+v", seen)
			}
			if got := w.Header().Get(headerReviewID); got != tc.reviewID {
				t.Fatalf("review header: want=%q got=%q", tc.reviewID, got)
			}
			if got := w.Header().Get(headerRequestID); got != seen.RequestID {
				t.Fatalf("request header: want=%q got=%q", seen.RequestID, got)
			}
		})
	}
}
