package phases

import (
	"context"
	"time"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
)

// Close stamps the total duration. Sessions already in ERROR stay there.
func (p *Phases) Close(_ context.Context, s review.Session) review.Delta {
	var total time.Duration
	if started := s.Timing.SessionStartedAt; started != nil {
		total = max(0, p.now().Sub(*started))
	}
	d := review.Delta{TotalDuration: &total}
	if s.Phase == review.PhaseError {
		return d
	}
	d.Next = review.Ptr(review.PhaseCompleted)
	d.LastAIMessage = review.Ptr(p.messages.Closing)
	return d
}
