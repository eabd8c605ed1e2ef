package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

const defaultKeyPrefix = "review:session:"

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	// TTL expires abandoned sessions. Zero keeps them until deleted.
	TTL time.Duration
}

// Redis stores each session as one JSON value, so several API replicas can
// serve the same session. Saves are versioned; RedisLocker orders events
// across replicas.
type Redis struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(log *logger.Logger, cfg RedisConfig) (*Redis, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisWithClient(log, rdb, cfg), nil
}

func NewRedisWithClient(log *logger.Logger, rdb *goredis.Client, cfg RedisConfig) *Redis {
	if log == nil {
		log = logger.Nop()
	}
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Redis{
		log:    log.With("service", "RedisSessionStore"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    cfg.TTL,
	}
}

func (r *Redis) key(id string) string { return r.prefix + id }

func (r *Redis) Create(ctx context.Context, s review.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ok, err := r.rdb.SetNX(ctx, r.key(s.ID), raw, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return review.ErrSessionExists
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (review.Session, error) {
	raw, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return review.Session{}, review.ErrSessionNotFound
	}
	if err != nil {
		return review.Session{}, fmt.Errorf("redis get: %w", err)
	}
	var s review.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		r.log.Warn("bad session payload", "session_id", id, "error", err)
		return review.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// Save writes s only if the stored version is s.Version-1. The check and the
// write run in one WATCH/MULTI transaction, so a racing writer aborts it.
func (r *Redis) Save(ctx context.Context, s review.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	key := r.key(s.ID)
	err = r.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return review.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get: %w", err)
		}
		var stored struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal(cur, &stored); err != nil {
			return fmt.Errorf("decode session: %w", err)
		}
		if s.Version != stored.Version+1 {
			return fmt.Errorf("%w: stored version %d, saving %d", review.ErrSessionConflict, stored.Version, s.Version)
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Set(ctx, key, raw, r.ttl)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, goredis.TxFailedErr) {
		return fmt.Errorf("%w: %v", review.ErrSessionConflict, err)
	}
	return err
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, r.key(id)).Err()
}

// Ping reports store health for the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if r == nil || r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}
