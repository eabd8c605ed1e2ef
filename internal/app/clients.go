package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/projectreview-backend/internal/clients/openai"
	"github.com/yungbote/projectreview-backend/internal/observability"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

type Clients struct {
	OpenAI openai.Client
	// Redis is nil when REDIS_ADDR is unset; sessions and stream fan-out
	// then stay in process.
	Redis *goredis.Client
}

func wireClients(log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	var observer openai.RequestObserver
	if metrics != nil {
		observer = metrics
	}
	oa, err := openai.NewClient(log, cfg.OpenAI, observer)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai: %w", err)
	}
	out.OpenAI = oa

	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DialTimeout: 5 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("redis ping: %w", err)
		}
		out.Redis = rdb
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
