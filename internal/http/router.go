package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/projectreview-backend/internal/http/handlers"
	httpMW "github.com/yungbote/projectreview-backend/internal/http/middleware"
	"github.com/yungbote/projectreview-backend/internal/observability"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	ReviewHandler   *httpH.ReviewHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Reviews
		if cfg.ReviewHandler != nil {
			api.POST("/reviews", cfg.ReviewHandler.Open)
			api.GET("/reviews", cfg.ReviewHandler.List)
			api.GET("/reviews/:id", cfg.ReviewHandler.Get)
			api.GET("/reviews/:id/report", cfg.ReviewHandler.Report)
			api.POST("/reviews/:id/presentation", cfg.ReviewHandler.UploadPresentation)
			api.POST("/reviews/:id/answers", cfg.ReviewHandler.Answer)
			api.POST("/reviews/:id/skip", cfg.ReviewHandler.Skip)
			api.POST("/reviews/:id/end", cfg.ReviewHandler.End)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/reviews/:id/stream", cfg.RealtimeHandler.ReviewStream)
		}
	}

	return r
}
