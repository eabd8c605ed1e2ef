package phases

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/policy"
)

// Messages is the conversational copy spoken to the candidate. Every field may be
// overridden from a YAML file; empty fields fall back to the defaults.
type Messages struct {
	Greeting         string                  `yaml:"greeting"`
	ReuploadPrompt   string                  `yaml:"reupload_prompt"`
	MissingFile      string                  `yaml:"missing_file"`
	SlidesReceived   string                  `yaml:"slides_received"`
	GenerationFailed string                  `yaml:"generation_failed"`
	LevelIntros      map[review.Level]string `yaml:"level_intros"`
	Continue         string                  `yaml:"continue"`
	Skipped          string                  `yaml:"skipped"`
	MissingAnswer    string                  `yaml:"missing_answer"`
	NoQuestion       string                  `yaml:"no_question"`
	ReportFailed     string                  `yaml:"report_failed"`
	Closing          string                  `yaml:"closing"`
	Feedback         policy.FeedbackBuckets  `yaml:"feedback"`
}

func DefaultMessages() Messages {
	return Messages{
		Greeting:         "Hello {candidate}, welcome to your project review for \"{project}\". Please upload your presentation so we can get started.",
		ReuploadPrompt:   "Sorry, I couldn't read that file. Could you upload your presentation again, as a PDF or PPTX?",
		MissingFile:      "I didn't receive a file. Please upload your presentation to continue.",
		SlidesReceived:   "Thanks, I've gone through your {slides} slides. I'll ask you a few questions about your project now.",
		GenerationFailed: "I'm sorry, something went wrong while preparing your questions. A reviewer will follow up with you.",
		LevelIntros: map[review.Level]string{
			review.LevelEasy:   "Let's start with a few general questions.",
			review.LevelMedium: "Nice work so far. Let's go a bit deeper.",
			review.LevelHard:   "Now for a few more challenging questions.",
		},
		Continue:      "Thank you. Let's continue.",
		Skipped:       "No problem, let's move on.",
		MissingAnswer: "I didn't catch an answer. Could you try answering again?",
		NoQuestion:    "There's no open question right now.",
		ReportFailed:  "Thank you for your time. Something went wrong while preparing your summary, a reviewer will follow up with you.",
		Closing:       "That's the end of the review. Thank you for your time, and good luck!",
		Feedback:      policy.DefaultFeedback(),
	}
}

// Merge fills empty fields of m from fallback.
func (m Messages) Merge(fallback Messages) Messages {
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	m.Greeting = pick(m.Greeting, fallback.Greeting)
	m.ReuploadPrompt = pick(m.ReuploadPrompt, fallback.ReuploadPrompt)
	m.MissingFile = pick(m.MissingFile, fallback.MissingFile)
	m.SlidesReceived = pick(m.SlidesReceived, fallback.SlidesReceived)
	m.GenerationFailed = pick(m.GenerationFailed, fallback.GenerationFailed)
	m.Continue = pick(m.Continue, fallback.Continue)
	m.Skipped = pick(m.Skipped, fallback.Skipped)
	m.MissingAnswer = pick(m.MissingAnswer, fallback.MissingAnswer)
	m.NoQuestion = pick(m.NoQuestion, fallback.NoQuestion)
	m.ReportFailed = pick(m.ReportFailed, fallback.ReportFailed)
	m.Closing = pick(m.Closing, fallback.Closing)

	intros := make(map[review.Level]string, len(review.Levels))
	for _, lvl := range review.Levels {
		intros[lvl] = pick(m.LevelIntros[lvl], fallback.LevelIntros[lvl])
	}
	m.LevelIntros = intros
	m.Feedback = m.Feedback.Merge(fallback.Feedback)
	return m
}

// fill substitutes {key} placeholders; unknown placeholders are left as-is.
func fill(tmpl string, kv ...string) string {
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// LoadMessages reads a YAML overlay. An empty path returns the defaults.
func LoadMessages(path string) (Messages, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultMessages(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Messages{}, fmt.Errorf("read messages file: %w", err)
	}
	var m Messages
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Messages{}, fmt.Errorf("parse messages file %s: %w", path, err)
	}
	return m.Merge(DefaultMessages()), nil
}
