package phases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/policy"
)

var errMissingReportInputs = errors.New("report needs presentation metadata and candidate name")

// GenerateReport aggregates the evaluations into the final report. The summary
// text comes from the Renderer when one is configured.
func (p *Phases) GenerateReport(_ context.Context, s review.Session) review.Delta {
	if s.Metadata == nil || strings.TrimSpace(s.Candidate.Name) == "" {
		p.log.Error("report inputs missing", "session_id", s.ID, "has_metadata", s.Metadata != nil)
		return review.Delta{
			Next:          review.Ptr(review.PhaseError),
			LastError:     errorf("report_precondition", errMissingReportInputs),
			LastAIMessage: review.Ptr(p.messages.ReportFailed),
		}
	}

	rep := BuildReport(s, p.now())
	if p.collab.Renderer != nil {
		rep.Summary = p.collab.Renderer.Summary(rep, s.Candidate.Name)
	}
	msg := rep.Summary
	if strings.TrimSpace(msg) == "" {
		msg = rep.OverallAssessment
	}
	p.log.Info("report generated", "session_id", s.ID,
		"average", rep.AverageScore,
		"recommendation", rep.Recommendation,
		"concerns", rep.ConcernCount,
	)
	return review.Delta{
		Next:          review.Ptr(review.PhaseCompleted),
		FinalReport:   &rep,
		LastAIMessage: &msg,
	}
}

// BuildReport computes the report from the session's recorded history.
func BuildReport(s review.Session, now time.Time) review.Report {
	avg := policy.AverageScore(s.Evaluations)
	concerns := policy.ConcernCount(s.Evaluations)
	ai := policy.AIConfidence(s.AIDetection)
	rec := policy.Recommend(avg, concerns, ai)
	return review.Report{
		AverageScore:      avg,
		LevelScores:       policy.ScoresByLevel(s.Evaluations, s.QuestionsAsked),
		Recommendation:    rec,
		OverallAssessment: assessment(rec, avg, concerns, ai, len(s.Evaluations)),
		NextSteps:         nextSteps(rec, concerns, ai),
		ConcernCount:      concerns,
		AIConfidence:      ai,
		QuestionsAsked:    len(s.QuestionsAsked),
		QuestionsScored:   len(s.Evaluations),
		GeneratedAt:       now,
	}
}

func assessment(rec review.Recommendation, avg float64, concerns int, ai float64, scored int) string {
	if scored == 0 {
		return "No answers could be scored, so the review has no basis for an assessment."
	}
	switch rec {
	case review.RecommendProceed:
		return fmt.Sprintf("The candidate showed a solid understanding of the project, with an average score of %.1f/10.", avg)
	case review.RecommendReject:
		return fmt.Sprintf("The candidate struggled to explain key parts of the project, with an average score of %.1f/10.", avg)
	}
	var reasons []string
	if ai > policy.AIConfidenceReviewThreshold {
		reasons = append(reasons, fmt.Sprintf("the presentation is likely AI-generated (%.0f%%)", ai))
	}
	if concerns >= policy.ConcernReviewThreshold {
		reasons = append(reasons, fmt.Sprintf("%d concerns were flagged in the answers", concerns))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "the answers were mixed")
	}
	return fmt.Sprintf("Average score %.1f/10. Manual review is recommended because %s.", avg, strings.Join(reasons, " and "))
}

func nextSteps(rec review.Recommendation, concerns int, ai float64) []string {
	switch rec {
	case review.RecommendProceed:
		return []string{
			"Advance the candidate to the next interview stage.",
			"Share the per-question feedback with the candidate.",
		}
	case review.RecommendReject:
		return []string{
			"Send the candidate a decision with the per-question feedback.",
			"Suggest the areas to strengthen before reapplying.",
		}
	}
	steps := []string{"Have a reviewer go through the recorded answers."}
	if ai > policy.AIConfidenceReviewThreshold {
		steps = append(steps, "Verify the authorship of the presentation with the candidate.")
	}
	if concerns >= policy.ConcernReviewThreshold {
		steps = append(steps, "Follow up on the flagged concerns in a live conversation.")
	}
	return steps
}
