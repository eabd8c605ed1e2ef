package realtime

import (
	"github.com/google/uuid"

	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

const outboundBuffer = 32

type SSEClient struct {
	ID        uuid.UUID
	SessionID string
	Channels  map[string]bool
	Outbound  chan SSEMessage
	done      chan struct{}
	Logger    *logger.Logger
}

// Done is closed when the hub drops the client.
func (c *SSEClient) Done() <-chan struct{} { return c.done }
