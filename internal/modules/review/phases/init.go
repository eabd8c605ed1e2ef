package phases

import (
	"context"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
)

// Init greets the candidate, starts the session clock and asks for the upload.
func (p *Phases) Init(_ context.Context, s review.Session) review.Delta {
	now := p.now()
	msg := fill(p.messages.Greeting,
		"candidate", s.Candidate.Name,
		"project", s.Candidate.ProjectTitle,
	)
	d := review.Delta{
		Next:          review.Ptr(review.PhaseUpload),
		LastAIMessage: &msg,
	}
	if s.Timing.SessionStartedAt == nil {
		d.SessionStartedAt = &now
	}
	return d
}
