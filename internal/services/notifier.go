package services

import (
	"context"
	"strings"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/realtime"
)

// ReviewNotifier turns driver updates into stream messages on the session's channel.
type ReviewNotifier struct {
	emit SSEEmitter
}

func NewReviewNotifier(emit SSEEmitter) *ReviewNotifier {
	return &ReviewNotifier{emit: emit}
}

func (n *ReviewNotifier) Publish(ctx context.Context, u review.Update) {
	if n == nil || n.emit == nil || strings.TrimSpace(u.SessionID) == "" {
		return
	}
	event := realtime.SSEEventReviewMessage
	if u.Phase.Terminal() {
		event = realtime.SSEEventReviewClosed
	}
	// detached so a canceled request still delivers what was already committed
	n.emit.Emit(context.WithoutCancel(ctx), realtime.SSEMessage{
		Channel: realtime.ReviewChannel(u.SessionID),
		Event:   event,
		Data:    u,
	})
}
