package policy

import (
	"math"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
)

// MinQuestionsPerLevel is how many questions a level asks before advancing,
// unless the level's pool runs out first.
const MinQuestionsPerLevel = 2

// AIConfidenceReviewThreshold is the detector confidence (percent) above which
// a submission always goes to manual review.
const AIConfidenceReviewThreshold = 80.0

// ConcernReviewThreshold is the flagged-concern count that forces manual review.
const ConcernReviewThreshold = 3

// AverageScore is the arithmetic mean of the scores, 0 for none.
func AverageScore(evals []review.Evaluation) float64 {
	if len(evals) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range evals {
		sum += e.Score
	}
	return sum / float64(len(evals))
}

// ScoresByLevel buckets evaluations by the level of the asked question they score.
// Every level is present in the result, with a zero average when nothing was scored.
func ScoresByLevel(evals []review.Evaluation, asked []review.Question) map[review.Level]review.LevelScore {
	levelOf := make(map[string]review.Level, len(asked))
	for _, q := range asked {
		levelOf[q.ID] = q.Level
	}
	sums := make(map[review.Level]float64, len(review.Levels))
	out := make(map[review.Level]review.LevelScore, len(review.Levels))
	for _, lvl := range review.Levels {
		out[lvl] = review.LevelScore{}
	}
	for _, e := range evals {
		lvl, ok := levelOf[e.QuestionID]
		if !ok {
			continue
		}
		ls := out[lvl]
		ls.Count++
		out[lvl] = ls
		sums[lvl] += e.Score
	}
	for lvl, ls := range out {
		if ls.Count > 0 {
			ls.Average = sums[lvl] / float64(ls.Count)
			out[lvl] = ls
		}
	}
	return out
}

// ConcernCount totals flagged concerns across all evaluations.
func ConcernCount(evals []review.Evaluation) int {
	n := 0
	for _, e := range evals {
		n += len(e.FlaggedConcerns)
	}
	return n
}

// Recommend applies the triage table; the first matching rule wins.
func Recommend(avgScore float64, concernCount int, aiConfidencePercent float64) review.Recommendation {
	switch {
	case aiConfidencePercent > AIConfidenceReviewThreshold:
		return review.RecommendReview
	case concernCount >= ConcernReviewThreshold:
		return review.RecommendReview
	case avgScore >= 6:
		return review.RecommendProceed
	case avgScore >= 4:
		return review.RecommendReview
	default:
		return review.RecommendReject
	}
}

// AIConfidence maps a detection result to the likelihood, in percent, that the
// slides were machine-written. The detector's confidence is confidence in its
// own verdict, so a confident likely_human verdict maps low. Uncertain verdicts
// are capped at 50. A missing result counts as 0.
func AIConfidence(det *review.AIDetection) float64 {
	if det == nil {
		return 0
	}
	c := math.Min(100, math.Max(0, det.OverallConfidence))
	switch det.OverallResult {
	case review.VerdictLikelyAI:
		return c
	case review.VerdictLikelyHuman:
		return 100 - c
	default:
		return math.Min(c, 50)
	}
}
