package bus

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/projectreview-backend/internal/realtime"
)

var (
	ErrClosed = errors.New("stream bus closed")
	// ErrNoChannel rejects messages that would reach no review stream.
	ErrNoChannel = errors.New("stream message has no review channel")
)

// Bus carries review stream messages between API replicas. Each replica
// forwards what it receives to its local hub, so a candidate connected to one
// replica hears updates produced on another.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}

func checkMessage(msg realtime.SSEMessage) error {
	if !strings.HasPrefix(msg.Channel, realtime.ReviewChannel("")) || msg.Channel == realtime.ReviewChannel("") {
		return ErrNoChannel
	}
	return nil
}
