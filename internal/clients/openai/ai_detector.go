package openai

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

type detectionPayload struct {
	OverallResult     string                    `json:"overall_result"`
	OverallConfidence float64                   `json:"overall_confidence"`
	Sections          []detectionSectionPayload `json:"sections"`
	Summary           string                    `json:"summary"`
}

type detectionSectionPayload struct {
	SlideIndex int     `json:"slide_index"`
	Result     string  `json:"result"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// AIDetector asks the model whether the slide text reads as machine-written.
type AIDetector struct {
	log    *logger.Logger
	client Client
}

func NewAIDetector(log *logger.Logger, client Client) *AIDetector {
	return &AIDetector{log: log.With("collaborator", "AIDetector"), client: client}
}

func (d *AIDetector) Detect(ctx context.Context, slides []string) (*review.AIDetection, error) {
	var out detectionPayload
	if err := d.client.GenerateJSON(ctx, detectionSystemPrompt, detectionUserPrompt(slides), "ai_detection", detectionSchema(), &out); err != nil {
		return nil, fmt.Errorf("detect ai content: %w", err)
	}
	res := &review.AIDetection{
		OverallResult:     verdict(out.OverallResult),
		OverallConfidence: percent(out.OverallConfidence),
		Summary:           strings.TrimSpace(out.Summary),
	}
	for _, s := range out.Sections {
		if s.SlideIndex < 0 || s.SlideIndex >= len(slides) {
			continue
		}
		res.Sections = append(res.Sections, review.DetectionSection{
			SlideIndex: s.SlideIndex,
			Result:     verdict(s.Result),
			Confidence: percent(s.Confidence),
			Reason:     strings.TrimSpace(s.Reason),
		})
	}
	return res, nil
}

func verdict(s string) review.DetectionVerdict {
	switch v := review.DetectionVerdict(strings.ToLower(strings.TrimSpace(s))); v {
	case review.VerdictLikelyAI, review.VerdictLikelyHuman:
		return v
	default:
		return review.VerdictUncertain
	}
}

func percent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(100, math.Max(0, v))
}
