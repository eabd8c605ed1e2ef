package openai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

type cannedClient struct {
	body    string
	err     error
	schemas []string
	users   []string
}

func (c *cannedClient) GenerateJSON(_ context.Context, _, user, schemaName string, _ jsonschema.Definition, out any) error {
	c.schemas = append(c.schemas, schemaName)
	c.users = append(c.users, user)
	if c.err != nil {
		return c.err
	}
	return json.Unmarshal([]byte(c.body), out)
}

func TestQuestionGeneratorNormalizes(t *testing.T) {
	c := &cannedClient{body: `{
		"easy": [{"text": "  What does   Loom do? "}, {"text": "what does loom do?"}, {"text": ""}, {"text": "Who uses it?"}],
		"medium": [{"text": "Why Kafka?"}],
		"hard": []
	}`}
	g := NewQuestionGenerator(logger.Nop(), c, 1)

	pool, err := g.Generate(context.Background(), []string{"Loom is a stream weaver"}, "Loom")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	easy := pool[review.LevelEasy]
	if len(easy) != 2 {
		t.Fatalf("easy: want 2 (limit 2x perLevel, deduped) got %+v", easy)
	}
	if easy[0].ID != "easy_1" || easy[0].Text != "What does Loom do?" || easy[1].ID != "easy_2" {
		t.Fatalf("easy: %+v", easy)
	}
	if pool[review.LevelMedium][0].ID != "medium_1" || pool[review.LevelMedium][0].Level != review.LevelMedium {
		t.Fatalf("medium: %+v", pool[review.LevelMedium])
	}
	if len(pool[review.LevelHard]) != 0 {
		t.Fatalf("hard: %+v", pool[review.LevelHard])
	}
	if c.schemas[0] != "question_pool" || !strings.Contains(c.users[0], "Project title: Loom") {
		t.Fatalf("request: %v %q", c.schemas, c.users[0])
	}
}

func TestAnswerEvaluatorClampsAndDedupes(t *testing.T) {
	c := &cannedClient{body: `{"score": 14, "flagged_concerns": [" Copied text ", "copied text", ""], "rationale": " fine "}`}
	e := NewAnswerEvaluator(logger.Nop(), c)
	q := review.Question{ID: "hard_1", Level: review.LevelHard, Text: "What breaks?"}

	got, err := e.Evaluate(context.Background(), q, "the queue")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got.QuestionID != "hard_1" || got.Score != 10 || got.Rationale != "fine" {
		t.Fatalf("evaluation: %+v", got)
	}
	if len(got.FlaggedConcerns) != 1 || got.FlaggedConcerns[0] != "Copied text" {
		t.Fatalf("concerns: %v", got.FlaggedConcerns)
	}

	c.err = errors.New("upstream down")
	if _, err := e.Evaluate(context.Background(), q, "x"); err == nil {
		t.Fatalf("want error")
	}
}

func TestAIDetectorNormalizes(t *testing.T) {
	c := &cannedClient{body: `{
		"overall_result": "LIKELY_AI",
		"overall_confidence": 120,
		"sections": [
			{"slide_index": 0, "result": "likely_ai", "confidence": 90, "reason": "generic phrasing"},
			{"slide_index": 7, "result": "likely_ai", "confidence": 90, "reason": "out of range"},
			{"slide_index": 1, "result": "robot", "confidence": -5, "reason": ""}
		],
		"summary": "mostly generated"
	}`}
	d := NewAIDetector(logger.Nop(), c)

	got, err := d.Detect(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if got.OverallResult != review.VerdictLikelyAI || got.OverallConfidence != 100 {
		t.Fatalf("overall: %+v", got)
	}
	if len(got.Sections) != 2 {
		t.Fatalf("sections: %+v", got.Sections)
	}
	if got.Sections[1].Result != review.VerdictUncertain || got.Sections[1].Confidence != 0 {
		t.Fatalf("section normalization: %+v", got.Sections[1])
	}
	if err := review.Validate(got); err != nil {
		t.Fatalf("normalized result must validate: %v", err)
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"rate_limited", &goopenai.APIError{HTTPStatusCode: 429}, true},
		{"server", &goopenai.APIError{HTTPStatusCode: 503}, true},
		{"bad_request", &goopenai.APIError{HTTPStatusCode: 400}, false},
		{"request_error", &goopenai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")}, true},
		{"transport", errors.New("connection reset"), true},
		{"deadline", context.DeadlineExceeded, false},
		{"canceled", context.Canceled, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := retryable(tc.err); got != tc.want {
				t.Fatalf("retryable(%v)=%v want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestFormatSlidesTruncates(t *testing.T) {
	big := strings.Repeat("x", maxSlideChars/2)
	out := formatSlides([]string{big, big, big})
	if len(out) > maxSlideChars+100 {
		t.Fatalf("prompt not bounded: %d", len(out))
	}
	if !strings.Contains(out, "more slides truncated") {
		t.Fatalf("missing truncation marker")
	}
}
