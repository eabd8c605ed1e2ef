package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/projectreview-backend/internal/platform/logger"
	"github.com/yungbote/projectreview-backend/internal/realtime"
)

const defaultRedisPrefix = "projectreview:stream"

// redisBus publishes each review's messages on its own pub/sub channel
// (<prefix>:review:<id>) and forwards with one pattern subscription.
type redisBus struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	owned  bool
}

// NewRedisBus dials REDIS_ADDR; REDIS_CHANNEL overrides the channel prefix.
func NewRedisBus(log *logger.Logger) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	b := NewRedisBusWithClient(log, rdb, os.Getenv("REDIS_CHANNEL")).(*redisBus)
	b.owned = true
	return b, nil
}

// NewRedisBusWithClient shares an existing client; Close leaves it open.
func NewRedisBusWithClient(log *logger.Logger, rdb *goredis.Client, prefix string) Bus {
	if log == nil {
		log = logger.Nop()
	}
	prefix = strings.TrimRight(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &redisBus{
		log:    log.With("service", "RedisStreamBus"),
		rdb:    rdb,
		prefix: prefix,
	}
}

func (b *redisBus) topic(channel string) string { return b.prefix + ":" + channel }

func (b *redisBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis stream bus not initialized")
	}
	if err := checkMessage(msg); err != nil {
		return err
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode stream message: %w", err)
	}
	return b.rdb.Publish(ctx, b.topic(msg.Channel), raw).Err()
}

func (b *redisBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis stream bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	pattern := b.topic(realtime.ReviewChannel("*"))
	sub := b.rdb.PSubscribe(ctx, pattern)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis psubscribe %s: %w", pattern, err)
	}
	b.log.Info("stream forwarder subscribed", "pattern", pattern)

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var msg realtime.SSEMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					b.log.Warn("bad stream payload", "topic", m.Channel, "error", err)
					continue
				}
				// the topic is authoritative for routing
				msg.Channel = strings.TrimPrefix(m.Channel, b.prefix+":")
				onMsg(msg)
			}
		}
	}()
	return nil
}

func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil || !b.owned {
		return nil
	}
	return b.rdb.Close()
}
