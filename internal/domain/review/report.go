package review

import "time"

type Recommendation string

const (
	RecommendProceed Recommendation = "proceed"
	RecommendReview  Recommendation = "review"
	RecommendReject  Recommendation = "reject"
)

type LevelScore struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

type Report struct {
	AverageScore      float64              `json:"average_score"`
	LevelScores       map[Level]LevelScore `json:"level_scores"`
	Recommendation    Recommendation       `json:"recommendation"`
	OverallAssessment string               `json:"overall_assessment"`
	NextSteps         []string             `json:"next_steps"`
	ConcernCount      int                  `json:"concern_count"`
	AIConfidence      float64              `json:"ai_confidence"`
	QuestionsAsked    int                  `json:"questions_asked"`
	QuestionsScored   int                  `json:"questions_scored"`
	Summary           string               `json:"summary,omitempty"`
	GeneratedAt       time.Time            `json:"generated_at"`
}
