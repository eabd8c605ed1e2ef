package phases

import (
	"context"
	"errors"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
)

var (
	errNoSlides  = errors.New("no slides")
	errNilResult = errors.New("collaborator returned no result")
)

// DetectAI screens the slides for generated text. It is best-effort: every
// outcome moves on to question generation, failures just leave AIDetection nil.
func (p *Phases) DetectAI(ctx context.Context, s review.Session) review.Delta {
	next := review.Ptr(review.PhaseQuestionGeneration)
	soft := func(code string, err error) review.Delta {
		p.log.Warn("ai detection skipped", "session_id", s.ID, "error", err)
		return review.Delta{Next: next, LastError: errorf(code, err)}
	}
	if len(s.Slides) == 0 {
		return soft("detection_skipped", errNoSlides)
	}
	if p.collab.Detector == nil {
		return soft("detection_skipped", errNoCollaborator)
	}

	res, err := call(ctx, p, "detector", p.timeouts.Detect, func(ctx context.Context) (*review.AIDetection, error) {
		return p.collab.Detector.Detect(ctx, s.Slides)
	})
	if err == nil && res == nil {
		err = errNilResult
	}
	if err == nil {
		err = review.Validate(res)
	}
	if err != nil {
		return soft("detection_failed", err)
	}

	out := *res
	out.Sections = append([]review.DetectionSection(nil), res.Sections...)
	p.log.Info("ai detection done", "session_id", s.ID, "result", out.OverallResult, "confidence", out.OverallConfidence)
	return review.Delta{Next: next, AIDetection: &out}
}
