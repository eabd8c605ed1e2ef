package openai

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

type evaluationPayload struct {
	Score           float64  `json:"score"`
	FlaggedConcerns []string `json:"flagged_concerns"`
	Rationale       string   `json:"rationale"`
}

type AnswerEvaluator struct {
	log    *logger.Logger
	client Client
}

func NewAnswerEvaluator(log *logger.Logger, client Client) *AnswerEvaluator {
	return &AnswerEvaluator{log: log.With("collaborator", "AnswerEvaluator"), client: client}
}

func (e *AnswerEvaluator) Evaluate(ctx context.Context, q review.Question, transcript string) (*review.Evaluation, error) {
	var out evaluationPayload
	err := e.client.GenerateJSON(ctx, evaluationSystemPrompt, evaluationUserPrompt(q.Level.String(), q.Text, transcript), "answer_evaluation", evaluationSchema(), &out)
	if err != nil {
		return nil, fmt.Errorf("evaluate answer: %w", err)
	}
	if math.IsNaN(out.Score) || math.IsInf(out.Score, 0) {
		return nil, fmt.Errorf("evaluate answer: non-finite score")
	}
	return &review.Evaluation{
		QuestionID:      q.ID,
		Score:           math.Min(10, math.Max(0, out.Score)),
		FlaggedConcerns: normalizeConcerns(out.FlaggedConcerns),
		Rationale:       strings.TrimSpace(out.Rationale),
	}, nil
}

func normalizeConcerns(in []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range in {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
