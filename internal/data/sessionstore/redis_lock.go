package sessionstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

const (
	defaultLockPrefix = "review:lock:"
	defaultLockTTL    = 5 * time.Minute
	lockPollMin       = 20 * time.Millisecond
	lockPollMax       = 500 * time.Millisecond
)

// unlockScript deletes the lock only while it still carries our token.
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLockConfig struct {
	KeyPrefix string
	// TTL bounds how long a crashed holder blocks the session. It must exceed
	// the longest event, i.e. parse plus detection plus generation.
	TTL time.Duration
}

// RedisLocker serializes events for one session across every replica that
// shares the Redis instance.
type RedisLocker struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisLocker(log *logger.Logger, rdb *goredis.Client, cfg RedisLockConfig) *RedisLocker {
	if log == nil {
		log = logger.Nop()
	}
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = defaultLockPrefix
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{
		log:    log.With("service", "RedisSessionLocker"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Lock polls SET NX until the session is free or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, id string) (func(), error) {
	key := l.prefix + id
	token := uuid.NewString()
	wait := lockPollMin
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock: %w", err)
		}
		if ok {
			return func() { l.unlock(key, token) }, nil
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
		if wait *= 2; wait > lockPollMax {
			wait = lockPollMax
		}
	}
}

func (l *RedisLocker) unlock(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := unlockScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
		l.log.Warn("redis unlock failed", "key", key, "error", err)
	}
}
