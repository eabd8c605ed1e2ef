package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/projectreview-backend/internal/http/handlers"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
	"github.com/yungbote/projectreview-backend/internal/realtime"
)

type Handlers struct {
	Review   *httpH.ReviewHandler
	Realtime *httpH.RealtimeHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, cfg Config, db *gorm.DB, clients Clients, serviceset Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")

	checks := map[string]httpH.Check{}
	if db != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if clients.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return clients.Redis.Ping(ctx).Err()
		}
	}

	return Handlers{
		Review:   httpH.NewReviewHandler(log, serviceset.Reviews, cfg.MaxUploadBytes),
		Realtime: httpH.NewRealtimeHandler(log, hub, serviceset.Reviews),
		Health:   httpH.NewHealthHandler(checks),
	}
}
