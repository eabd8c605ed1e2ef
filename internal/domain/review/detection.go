package review

type DetectionVerdict string

const (
	VerdictLikelyAI    DetectionVerdict = "likely_ai"
	VerdictLikelyHuman DetectionVerdict = "likely_human"
	VerdictUncertain   DetectionVerdict = "uncertain"
)

type DetectionSection struct {
	SlideIndex int              `json:"slide_index" validate:"gte=0"`
	Result     DetectionVerdict `json:"result" validate:"oneof=likely_ai likely_human uncertain"`
	Confidence float64          `json:"confidence" validate:"gte=0,lte=100"`
	Reason     string           `json:"reason,omitempty"`
}

// AIDetection summarizes the AI-generated-content screen over the slides.
type AIDetection struct {
	OverallResult     DetectionVerdict   `json:"overall_result" validate:"oneof=likely_ai likely_human uncertain"`
	OverallConfidence float64            `json:"overall_confidence" validate:"gte=0,lte=100"`
	Sections          []DetectionSection `json:"sections,omitempty" validate:"dive"`
	Summary           string             `json:"summary,omitempty"`
}
