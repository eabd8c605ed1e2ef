package phases

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/policy"
)

var errNoCurrentQuestion = errors.New("evaluate called with no current question")

// AnswerInput is the candidate's reply to the pending question. Quiet drops
// the spoken acknowledgement of a skip.
type AnswerInput struct {
	Transcript string
	Skipped    bool
	Quiet      bool
}

// EvaluateAnswer records the answer and scores it. The answer and the asked
// question are appended whether or not scoring succeeds; the evaluation only
// on success.
func (p *Phases) EvaluateAnswer(ctx context.Context, s review.Session, in AnswerInput) review.Delta {
	if s.CurrentQuestion == nil {
		p.log.Error("evaluate without pending question", "session_id", s.ID, "phase", s.Phase)
		return review.Delta{
			LastError:     errorf("invariant_violation", errNoCurrentQuestion),
			LastAIMessage: review.Ptr(p.messages.NoQuestion),
		}
	}
	transcript := strings.TrimSpace(in.Transcript)
	if transcript == "" && !in.Skipped {
		return review.Delta{
			LastError:     errorf("missing_answer", nil),
			LastAIMessage: review.Ptr(p.messages.MissingAnswer),
		}
	}

	q := *s.CurrentQuestion
	now := p.now()
	duration := 0.0
	if started := s.Timing.QuestionStartedAt; started != nil {
		duration = math.Max(0, now.Sub(*started).Seconds())
	}
	d := review.Delta{
		Answers: cloneAppend(s.Answers, review.Answer{
			QuestionID: q.ID,
			Transcript: transcript,
			Duration:   duration,
			Timestamp:  now,
			Skipped:    in.Skipped,
		}),
		QuestionsAsked:  cloneAppend(s.QuestionsAsked, q),
		CurrentQuestion: review.ClearQuestion(),
	}
	if in.Skipped {
		if !in.Quiet {
			d.LastAIMessage = review.Ptr(p.messages.Skipped)
		}
		return d
	}

	eval, err := p.score(ctx, q, transcript)
	if err != nil {
		p.log.Warn("answer evaluation failed", "session_id", s.ID, "question_id", q.ID, "error", err)
		d.LastError = errorf("evaluation_failed", err)
		d.LastAIMessage = review.Ptr(p.messages.Continue)
		return d
	}
	if len(eval.FlaggedConcerns) > 0 {
		p.log.Warn("answer flagged", "session_id", s.ID, "question_id", q.ID, "concerns", eval.FlaggedConcerns)
	}
	d.Evaluations = cloneAppend(s.Evaluations, eval)
	d.LastAIMessage = review.Ptr(policy.FeedbackFor(eval.Score, p.messages.Feedback, p.choose))
	return d
}

func (p *Phases) score(ctx context.Context, q review.Question, transcript string) (review.Evaluation, error) {
	if p.collab.Evaluator == nil {
		return review.Evaluation{}, errNoCollaborator
	}
	res, err := call(ctx, p, "evaluator", p.timeouts.Evaluate, func(ctx context.Context) (*review.Evaluation, error) {
		return p.collab.Evaluator.Evaluate(ctx, q, transcript)
	})
	if err != nil {
		return review.Evaluation{}, err
	}
	if res == nil {
		return review.Evaluation{}, errNilResult
	}
	if math.IsNaN(res.Score) {
		return review.Evaluation{}, errors.New("evaluator returned NaN score")
	}
	eval := review.Evaluation{
		QuestionID:      q.ID,
		Score:           math.Min(10, math.Max(0, res.Score)),
		FlaggedConcerns: append([]string(nil), res.FlaggedConcerns...),
		Rationale:       res.Rationale,
	}
	if err := review.Validate(eval); err != nil {
		return review.Evaluation{}, err
	}
	return eval, nil
}
