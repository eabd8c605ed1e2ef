package app

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/projectreview-backend/internal/clients/openai"
	"github.com/yungbote/projectreview-backend/internal/data/db"
	"github.com/yungbote/projectreview-backend/internal/ingestion/extractor"
	"github.com/yungbote/projectreview-backend/internal/modules/review/phases"
	"github.com/yungbote/projectreview-backend/internal/platform/envutil"
)

type Config struct {
	Port            string
	Env             string
	Version         string
	ShutdownTimeout time.Duration

	Database db.Config
	// DatabaseEnabled is false when no DSN could be built; archive and
	// listing are then disabled.
	DatabaseEnabled bool

	RedisAddr     string
	RedisPassword string
	RedisChannel  string
	SessionTTL    time.Duration
	// SessionLockTTL bounds how long a crashed replica blocks a session.
	SessionLockTTL time.Duration

	Timeouts           phases.Timeouts
	MessagesFile       string
	SummaryTemplate    string
	QuestionsPerLevel  int
	MaxUploadBytes     int64
	Extractor          extractor.Config
	CORSAllowedOrigins []string

	OpenAI         openai.Config
	MetricsEnabled bool
}

func LoadConfig() Config {
	def := phases.DefaultTimeouts()
	maxUpload := envutil.Int64("REVIEW_MAX_UPLOAD_BYTES", 50<<20)
	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		Env:             envutil.String("APP_ENV", "development"),
		Version:         envutil.String("APP_VERSION", "dev"),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		RedisPassword: envutil.String("REDIS_PASSWORD", ""),
		RedisChannel:  envutil.String("REDIS_CHANNEL", ""),
		SessionTTL:    envutil.Duration("REVIEW_SESSION_TTL", 6*time.Hour),

		Timeouts: phases.Timeouts{
			Parse:    envutil.Duration("REVIEW_PARSE_TIMEOUT", def.Parse),
			Detect:   envutil.Duration("REVIEW_DETECT_TIMEOUT", def.Detect),
			Generate: envutil.Duration("REVIEW_GENERATE_TIMEOUT", def.Generate),
			Evaluate: envutil.Duration("REVIEW_EVALUATE_TIMEOUT", def.Evaluate),
		},
		MessagesFile:      envutil.String("REVIEW_MESSAGES_FILE", ""),
		SummaryTemplate:   envutil.String("REVIEW_SUMMARY_TEMPLATE", ""),
		QuestionsPerLevel: envutil.Int("REVIEW_QUESTIONS_PER_LEVEL", 3),
		MaxUploadBytes:    maxUpload,
		Extractor: extractor.Config{
			MaxBytes:      maxUpload,
			MaxSlides:     envutil.Int("REVIEW_MAX_SLIDES", 200),
			MaxSlideChars: envutil.Int("REVIEW_MAX_SLIDE_CHARS", 4000),
		},
		CORSAllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),

		OpenAI:         openai.ConfigFromEnv(),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false),
	}
	cfg.SessionLockTTL = envutil.Duration("REVIEW_LOCK_TTL", lockTTL(cfg.Timeouts))
	cfg.Database, cfg.DatabaseEnabled = databaseConfig()
	return cfg
}

// lockTTL outlasts the slowest event: every collaborator deadline in a row
// plus a minute for the store and bus.
func lockTTL(t phases.Timeouts) time.Duration {
	return t.Parse + t.Detect + t.Generate + t.Evaluate + time.Minute
}

// databaseConfig prefers DATABASE_DSN and otherwise assembles a postgres URL
// from POSTGRES_* variables.
func databaseConfig() (db.Config, bool) {
	driver := strings.ToLower(envutil.String("DATABASE_DRIVER", "postgres"))
	cfg := db.Config{
		Driver:        driver,
		DSN:           envutil.String("DATABASE_DSN", ""),
		SlowThreshold: envutil.Duration("DATABASE_SLOW_THRESHOLD", 200*time.Millisecond),
	}
	if cfg.DSN != "" {
		return cfg, true
	}
	if driver == "sqlite" {
		cfg.DSN = "projectreview.db"
		return cfg, true
	}
	host := envutil.String("POSTGRES_HOST", "")
	if host == "" {
		return cfg, false
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(envutil.String("POSTGRES_USER", "postgres"), envutil.String("POSTGRES_PASSWORD", "")),
		Host:     fmt.Sprintf("%s:%d", host, envutil.Int("POSTGRES_PORT", 5432)),
		Path:     envutil.String("POSTGRES_DB", "projectreview"),
		RawQuery: "sslmode=" + envutil.String("POSTGRES_SSLMODE", "disable"),
	}
	cfg.DSN = u.String()
	return cfg, true
}
