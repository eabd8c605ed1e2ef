package bus

import (
	"context"
	"errors"
	"sync"

	"github.com/yungbote/projectreview-backend/internal/realtime"
)

// localBus delivers in-process only; used when the service runs as a single replica.
type localBus struct {
	mu        sync.RWMutex
	listeners []func(realtime.SSEMessage)
	closed    bool
}

func NewLocalBus() Bus { return &localBus{} }

func (b *localBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkMessage(msg); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	for _, fn := range b.listeners {
		fn(msg)
	}
	return nil
}

// StartForwarder registers onMsg and returns; delivery happens on the
// publisher's goroutine. Listeners are dropped when ctx ends.
func (b *localBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	if onMsg == nil {
		return errors.New("onMsg callback required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.listeners = append(b.listeners, onMsg)
	idx := len(b.listeners) - 1
	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if idx < len(b.listeners) {
			b.listeners[idx] = func(realtime.SSEMessage) {}
		}
	}()
	return nil
}

func (b *localBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.listeners = nil
	return nil
}
