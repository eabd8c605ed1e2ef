package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

type questionPoolPayload struct {
	Easy   []questionPayload `json:"easy"`
	Medium []questionPayload `json:"medium"`
	Hard   []questionPayload `json:"hard"`
}

type questionPayload struct {
	Text string `json:"text"`
}

// QuestionGenerator builds the per-level question pool from slide text.
type QuestionGenerator struct {
	log      *logger.Logger
	client   Client
	perLevel int
}

func NewQuestionGenerator(log *logger.Logger, client Client, perLevel int) *QuestionGenerator {
	if perLevel <= 0 {
		perLevel = 3
	}
	return &QuestionGenerator{log: log.With("collaborator", "QuestionGenerator"), client: client, perLevel: perLevel}
}

func (g *QuestionGenerator) Generate(ctx context.Context, slides []string, projectTitle string) (review.QuestionPool, error) {
	var out questionPoolPayload
	err := g.client.GenerateJSON(ctx, questionSystemPrompt, questionUserPrompt(projectTitle, slides, g.perLevel), "question_pool", questionPoolSchema(), &out)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	pool := review.QuestionPool{
		review.LevelEasy:   normalizeQuestions(review.LevelEasy, out.Easy, g.perLevel*2),
		review.LevelMedium: normalizeQuestions(review.LevelMedium, out.Medium, g.perLevel*2),
		review.LevelHard:   normalizeQuestions(review.LevelHard, out.Hard, g.perLevel*2),
	}
	g.log.Debug("question pool decoded", "easy", len(pool[review.LevelEasy]), "medium", len(pool[review.LevelMedium]), "hard", len(pool[review.LevelHard]))
	return pool, nil
}

// normalizeQuestions assigns stable ids (easy_1, easy_2, ...), drops blank and
// repeated texts and keeps at most limit questions.
func normalizeQuestions(level review.Level, in []questionPayload, limit int) []review.Question {
	out := make([]review.Question, 0, len(in))
	seen := map[string]bool{}
	for _, q := range in {
		text := strings.Join(strings.Fields(q.Text), " ")
		key := strings.ToLower(text)
		if text == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, review.Question{
			ID:    fmt.Sprintf("%s_%d", level, len(out)+1),
			Level: level,
			Text:  text,
		})
		if len(out) == limit {
			break
		}
	}
	return out
}
