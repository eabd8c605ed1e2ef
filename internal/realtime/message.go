package realtime

import "strings"

type SSEEvent string

const (
	SSEEventReviewMessage SSEEvent = "ReviewMessage"
	SSEEventReviewClosed  SSEEvent = "ReviewClosed"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

const reviewChannelPrefix = "review:"

// ReviewChannel is the stream channel for one review session.
func ReviewChannel(sessionID string) string {
	return reviewChannelPrefix + strings.TrimSpace(sessionID)
}
