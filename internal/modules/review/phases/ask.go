package phases

import (
	"context"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/pool"
)

// AskQuestion presents the next unasked question at the current level. While a
// question is pending it only repeats it, so calling it again never advances.
// An exhausted level yields an empty delta; TransitionLevel moves things on.
func (p *Phases) AskQuestion(_ context.Context, s review.Session) review.Delta {
	if s.Phase != review.PhaseQuestioning {
		return review.Delta{}
	}
	if s.CurrentQuestion != nil {
		return review.Delta{LastAIMessage: review.Ptr(s.CurrentQuestion.Text)}
	}

	q, ok := pool.NextQuestion(s.QuestionsPool, s.CurrentLevel, s.QuestionsAsked)
	if !ok {
		return review.Delta{}
	}
	text := q.Text
	if pool.IsFirstOfLevel(s.QuestionsAsked, s.CurrentLevel) {
		if intro := p.messages.LevelIntros[s.CurrentLevel]; intro != "" {
			text = intro + " " + text
		}
	}
	now := p.now()
	return review.Delta{
		CurrentQuestion:   review.SetQuestion(&q),
		QuestionStartedAt: &now,
		LastAIMessage:     &text,
	}
}
