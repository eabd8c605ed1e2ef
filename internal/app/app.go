package app

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/projectreview-backend/internal/data/db"
	apphttp "github.com/yungbote/projectreview-backend/internal/http"
	"github.com/yungbote/projectreview-backend/internal/observability"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
	"github.com/yungbote/projectreview-backend/internal/realtime"
)

const serviceName = "projectreview"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Cfg      Config
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services
	SSEHub   *realtime.SSEHub

	database     *db.Service
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig()

	a := &App{Log: log, Cfg: cfg}
	if err := a.wire(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire() error {
	log, cfg := a.Log, a.Cfg

	a.otelShutdown = observability.InitOTel(context.Background(), log, observability.OtelConfigFromEnv(serviceName, cfg.Env, cfg.Version))
	if cfg.MetricsEnabled {
		a.Metrics = observability.Init(log)
	}

	if cfg.DatabaseEnabled {
		svc, err := db.NewService(log, cfg.Database)
		if err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		a.database = svc
		if err := svc.AutoMigrateAll(); err != nil {
			return fmt.Errorf("database automigrate: %w", err)
		}
		a.DB = svc.DB()
	}

	clients, err := wireClients(log, cfg, a.Metrics)
	if err != nil {
		return err
	}
	a.Clients = clients

	a.Repos = wireRepos(a.DB, log)
	a.Services, err = wireServices(a.DB, log, cfg, a.Repos, a.Clients, a.Metrics)
	if err != nil {
		return err
	}

	a.SSEHub = realtime.NewSSEHub(log)
	handlerset := wireHandlers(log, cfg, a.DB, a.Clients, a.Services, a.SSEHub)

	log.Info("Wiring router...")
	a.Server = apphttp.NewServer(apphttp.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		Metrics:         a.Metrics,
		ReviewHandler:   handlerset.Review,
		RealtimeHandler: handlerset.Realtime,
		HealthHandler:   handlerset.Health,
	})
	a.Server.OnShutdown(a.SSEHub.Shutdown)
	return nil
}

// Run serves HTTP and forwards stream messages from the bus until ctx ends.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Metrics != nil {
		if a.DB != nil {
			a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		}
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Services.Bus.StartForwarder(gctx, a.SSEHub.Broadcast)
	})
	g.Go(func() error {
		a.Log.Info("Server listening", "port", a.Cfg.Port)
		return a.Server.Run(gctx, ":"+a.Cfg.Port, a.Cfg.ShutdownTimeout)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Services.Bus != nil {
		_ = a.Services.Bus.Close()
	}
	a.Clients.Close()
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
