package phases

import (
	"context"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/pool"
)

// TransitionLevel advances CurrentLevel once the level is complete, or requests
// the report after the last level. It never moves backwards.
func (p *Phases) TransitionLevel(_ context.Context, s review.Session) review.Delta {
	if s.Phase != review.PhaseQuestioning || s.CurrentQuestion != nil {
		return review.Delta{}
	}
	available := len(s.QuestionsPool[s.CurrentLevel])
	if !pool.LevelComplete(s.CurrentLevel, s.QuestionsAsked, available) {
		return review.Delta{}
	}
	next, ok := pool.NextLevel(s.CurrentLevel)
	if !ok {
		p.log.Info("all levels complete", "session_id", s.ID, "asked", len(s.QuestionsAsked))
		return review.Delta{Next: review.Ptr(review.PhaseReportGeneration)}
	}
	p.log.Debug("level advanced", "session_id", s.ID, "from", s.CurrentLevel, "to", next)
	return review.Delta{CurrentLevel: &next}
}
