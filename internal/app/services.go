package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/projectreview-backend/internal/clients/openai"
	"github.com/yungbote/projectreview-backend/internal/data/sessionstore"
	"github.com/yungbote/projectreview-backend/internal/ingestion/extractor"
	"github.com/yungbote/projectreview-backend/internal/modules/review/driver"
	"github.com/yungbote/projectreview-backend/internal/modules/review/phases"
	"github.com/yungbote/projectreview-backend/internal/observability"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
	"github.com/yungbote/projectreview-backend/internal/realtime/bus"
	"github.com/yungbote/projectreview-backend/internal/services"
)

type Services struct {
	Store    driver.Store
	Bus      bus.Bus
	Driver   *driver.Driver
	Reviews  services.ReviewService
	Archiver *services.ReviewArchiver
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	var store driver.Store
	if clients.Redis != nil {
		store = sessionstore.NewRedisWithClient(log, clients.Redis, sessionstore.RedisConfig{TTL: cfg.SessionTTL})
	} else {
		log.Warn("REDIS_ADDR unset; live sessions kept in memory")
		store = sessionstore.NewMemory()
	}

	var eventBus bus.Bus
	if clients.Redis != nil {
		eventBus = bus.NewRedisBusWithClient(log, clients.Redis, cfg.RedisChannel)
	} else {
		eventBus = bus.NewLocalBus()
	}

	renderer, err := services.NewReportRenderer(log, cfg.SummaryTemplate)
	if err != nil {
		return Services{}, err
	}

	messages := phases.DefaultMessages()
	if cfg.MessagesFile != "" {
		messages, err = phases.LoadMessages(cfg.MessagesFile)
		if err != nil {
			return Services{}, fmt.Errorf("load review messages: %w", err)
		}
	}

	phaseOpts := []phases.Option{
		phases.WithTimeouts(cfg.Timeouts),
		phases.WithMessages(messages),
	}
	if metrics != nil {
		phaseOpts = append(phaseOpts, phases.WithObserver(metrics))
	}
	ph := phases.New(log, phases.Collaborators{
		Parser:    extractor.New(log, cfg.Extractor),
		Detector:  openai.NewAIDetector(log, clients.OpenAI),
		Generator: openai.NewQuestionGenerator(log, clients.OpenAI, cfg.QuestionsPerLevel),
		Evaluator: openai.NewAnswerEvaluator(log, clients.OpenAI),
		Renderer:  renderer,
	}, phaseOpts...)

	notifier := services.NewReviewNotifier(&services.BusEmitter{Bus: eventBus, Log: log})
	driverOpts := []driver.Option{driver.WithNotifier(notifier)}
	if metrics != nil {
		driverOpts = append(driverOpts, driver.WithMetrics(metrics))
	}
	if clients.Redis != nil {
		driverOpts = append(driverOpts, driver.WithLocker(sessionstore.NewRedisLocker(log, clients.Redis, sessionstore.RedisLockConfig{TTL: cfg.SessionLockTTL})))
	}

	var archiver *services.ReviewArchiver
	if reposet.ReviewArchive != nil {
		archiver = services.NewReviewArchiver(db, log, reposet.ReviewArchive)
		driverOpts = append(driverOpts, driver.WithArchiver(archiver))
	}

	d := driver.New(log, ph, store, driverOpts...)

	return Services{
		Store:    store,
		Bus:      eventBus,
		Driver:   d,
		Reviews:  services.NewReviewService(db, log, d, reposet.ReviewArchive),
		Archiver: archiver,
	}, nil
}
