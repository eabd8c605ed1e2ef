package phases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
)

var errEmptyPool = errors.New("generator returned no usable questions")

// GenerateQuestions builds the easy/medium/hard pools. Any failure is fatal to the session.
func (p *Phases) GenerateQuestions(ctx context.Context, s review.Session) review.Delta {
	fail := func(code string, err error) review.Delta {
		p.log.Error("question generation failed", "session_id", s.ID, "error", err)
		return review.Delta{
			Next:          review.Ptr(review.PhaseError),
			LastError:     errorf(code, err),
			LastAIMessage: review.Ptr(p.messages.GenerationFailed),
		}
	}
	if len(s.Slides) == 0 {
		return fail("generation_precondition", errNoSlides)
	}
	if p.collab.Generator == nil {
		return fail("generation_failed", errNoCollaborator)
	}

	raw, err := call(ctx, p, "generator", p.timeouts.Generate, func(ctx context.Context) (review.QuestionPool, error) {
		return p.collab.Generator.Generate(ctx, s.Slides, s.Candidate.ProjectTitle)
	})
	if err != nil {
		return fail("generation_failed", err)
	}
	qp, err := sanitizePool(raw)
	if err != nil {
		return fail("generation_failed", err)
	}

	p.log.Info("questions generated", "session_id", s.ID,
		"easy", len(qp[review.LevelEasy]),
		"medium", len(qp[review.LevelMedium]),
		"hard", len(qp[review.LevelHard]),
	)
	return review.Delta{
		Next:          review.Ptr(review.PhaseQuestioning),
		QuestionsPool: qp,
		CurrentLevel:  review.Ptr(review.LevelEasy),
	}
}

// sanitizePool copies raw into a pool keyed by known levels only, pins each
// question's level to its bucket, drops invalid entries and duplicate ids.
func sanitizePool(raw review.QuestionPool) (review.QuestionPool, error) {
	out := make(review.QuestionPool, len(review.Levels))
	seen := map[string]struct{}{}
	for _, lvl := range review.Levels {
		qs := make([]review.Question, 0, len(raw[lvl]))
		for i, q := range raw[lvl] {
			q.Level = lvl
			q.Text = strings.TrimSpace(q.Text)
			if strings.TrimSpace(q.ID) == "" {
				q.ID = fmt.Sprintf("%s-%d", lvl, i+1)
			}
			if _, dup := seen[q.ID]; dup {
				continue
			}
			if err := review.Validate(q); err != nil {
				continue
			}
			seen[q.ID] = struct{}{}
			qs = append(qs, q)
		}
		out[lvl] = qs
	}
	if out.Total() == 0 {
		return nil, errEmptyPool
	}
	return out, nil
}
