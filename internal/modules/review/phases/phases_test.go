package phases

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/policy"
)

func TestInit(t *testing.T) {
	clock := newClock()
	p := newTestPhases(Collaborators{}, clock)
	s := review.Session{ID: "s1", Phase: review.PhaseInit, Candidate: review.Candidate{Name: "Ada", ProjectTitle: "Loom"}}

	d := p.Init(context.Background(), s)
	if d.Next == nil || *d.Next != review.PhaseUpload {
		t.Fatalf("next: want UPLOAD got %v", d.Next)
	}
	if d.SessionStartedAt == nil || !d.SessionStartedAt.Equal(clock.Now()) {
		t.Fatalf("session start not stamped")
	}
	if d.LastAIMessage == nil || !strings.Contains(*d.LastAIMessage, "Ada") || !strings.Contains(*d.LastAIMessage, "Loom") {
		t.Fatalf("greeting: %v", d.LastAIMessage)
	}
}

func TestParse(t *testing.T) {
	upload := review.Upload{Filename: "deck.pdf", Data: []byte("%PDF")}
	cases := []struct {
		name    string
		parser  Parser
		upload  review.Upload
		wantOK  bool
		wantMsg string
		// keepCount marks input errors that leave ErrorCount alone.
		keepCount bool
	}{
		{name: "missing_file", parser: fakeParser{}, upload: review.Upload{Filename: "x.pdf"}, wantMsg: DefaultMessages().MissingFile, keepCount: true},
		{name: "parser_error", parser: fakeParser{err: errBoom}, upload: upload, wantMsg: DefaultMessages().ReuploadPrompt},
		{name: "blank_slides", parser: fakeParser{out: &review.ParsedPresentation{Slides: []string{" ", ""}}}, upload: upload, wantMsg: DefaultMessages().ReuploadPrompt},
		{name: "no_parser", parser: nil, upload: upload, wantMsg: DefaultMessages().ReuploadPrompt},
		{
			name:   "ok",
			parser: fakeParser{out: &review.ParsedPresentation{Metadata: review.PresentationMetadata{Format: "pdf"}, Slides: []string{" a", " ", "b", "c\n"}}},
			upload: upload,
			wantOK: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPhases(Collaborators{Parser: tc.parser}, newClock())
			s := review.Session{ID: "s1", Phase: review.PhaseParsing, ErrorCount: 1}
			d := p.Parse(context.Background(), s, tc.upload)
			if !tc.wantOK {
				if d.Next == nil || *d.Next != review.PhaseUpload {
					t.Fatalf("next: want UPLOAD got %v", d.Next)
				}
				switch {
				case tc.keepCount && d.ErrorCount != nil:
					t.Fatalf("error count: want untouched got %d", *d.ErrorCount)
				case !tc.keepCount && (d.ErrorCount == nil || *d.ErrorCount != 2):
					t.Fatalf("error count: want 2 got %v", d.ErrorCount)
				}
				if d.LastError == nil || *d.LastError == "" {
					t.Fatalf("expected last error")
				}
				if d.LastAIMessage == nil || *d.LastAIMessage != tc.wantMsg {
					t.Fatalf("message: want %q got %v", tc.wantMsg, d.LastAIMessage)
				}
				if d.Slides != nil || d.Metadata != nil {
					t.Fatalf("failure must not attach slides")
				}
				return
			}
			if d.Next == nil || *d.Next != review.PhaseAIDetection {
				t.Fatalf("next: want AI_DETECTION got %v", d.Next)
			}
			// Blank slides stay so indexes match the deck.
			if !slices.Equal(d.Slides, []string{"a", "", "b", "c"}) {
				t.Fatalf("slides: %q", d.Slides)
			}
			if d.Metadata.SlideCount != 4 || d.Metadata.Filename != "deck.pdf" {
				t.Fatalf("metadata: %+v", d.Metadata)
			}
			if d.ErrorCount != nil || d.LastError != nil {
				t.Fatalf("success must not touch error fields")
			}
			if !strings.Contains(*d.LastAIMessage, "4 slides") {
				t.Fatalf("message: %q", *d.LastAIMessage)
			}
		})
	}
}

func TestDetectAISoftFails(t *testing.T) {
	cases := []struct {
		name     string
		detector Detector
		slides   []string
		wantRes  bool
	}{
		{name: "error", detector: fakeDetector{err: errBoom}, slides: []string{"a"}},
		{name: "nil_result", detector: fakeDetector{}, slides: []string{"a"}},
		{name: "out_of_range", detector: fakeDetector{out: &review.AIDetection{OverallResult: review.VerdictLikelyAI, OverallConfidence: 150}}, slides: []string{"a"}},
		{name: "no_slides", detector: fakeDetector{}, slides: nil},
		{name: "ok", detector: fakeDetector{out: &review.AIDetection{OverallResult: review.VerdictLikelyHuman, OverallConfidence: 70}}, slides: []string{"a"}, wantRes: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPhases(Collaborators{Detector: tc.detector}, newClock())
			d := p.DetectAI(context.Background(), review.Session{ID: "s1", Phase: review.PhaseAIDetection, Slides: tc.slides})
			if d.Next == nil || *d.Next != review.PhaseQuestionGeneration {
				t.Fatalf("detection must always move on, got %v", d.Next)
			}
			if tc.wantRes {
				if d.AIDetection == nil || d.LastError != nil {
					t.Fatalf("want result without error, got %+v / %v", d.AIDetection, d.LastError)
				}
				return
			}
			if d.AIDetection != nil {
				t.Fatalf("failed detection must attach no result")
			}
			if d.LastError == nil {
				t.Fatalf("want soft error recorded")
			}
			if d.ErrorCount != nil {
				t.Fatalf("soft failure must not bump error count")
			}
		})
	}
}

func TestGenerateQuestions(t *testing.T) {
	s := review.Session{ID: "s1", Phase: review.PhaseQuestionGeneration, Slides: []string{"a"}, Candidate: review.Candidate{ProjectTitle: "Loom"}}

	t.Run("failure_is_terminal", func(t *testing.T) {
		for _, g := range []Generator{fakeGenerator{err: errBoom}, fakeGenerator{out: review.QuestionPool{}}, nil} {
			p := newTestPhases(Collaborators{Generator: g}, newClock())
			d := p.GenerateQuestions(context.Background(), s)
			if d.Next == nil || *d.Next != review.PhaseError {
				t.Fatalf("want ERROR got %v", d.Next)
			}
			if d.LastError == nil || d.LastAIMessage == nil {
				t.Fatalf("want error and message")
			}
			if d.QuestionsPool != nil {
				t.Fatalf("no pool on failure")
			}
		}
	})

	t.Run("missing_slides", func(t *testing.T) {
		p := newTestPhases(Collaborators{Generator: fakeGenerator{out: testPool()}}, newClock())
		d := p.GenerateQuestions(context.Background(), review.Session{ID: "s1"})
		if d.Next == nil || *d.Next != review.PhaseError {
			t.Fatalf("want ERROR got %v", d.Next)
		}
	})

	t.Run("sanitizes_pool", func(t *testing.T) {
		raw := review.QuestionPool{
			review.LevelEasy: {
				{ID: "q1", Level: review.LevelHard, Text: " First? "},
				{ID: "q1", Text: "Duplicate id"},
				{ID: "q2", Text: "   "},
			},
			review.LevelMedium:    {{Text: "No id given"}},
			review.Level("bonus"): {{ID: "x", Text: "unknown level"}},
		}
		p := newTestPhases(Collaborators{Generator: fakeGenerator{out: raw}}, newClock())
		d := p.GenerateQuestions(context.Background(), s)
		if d.Next == nil || *d.Next != review.PhaseQuestioning {
			t.Fatalf("want QUESTIONING got %v", d.Next)
		}
		if d.CurrentLevel == nil || *d.CurrentLevel != review.LevelEasy {
			t.Fatalf("current level must start at easy")
		}
		easy := d.QuestionsPool[review.LevelEasy]
		if len(easy) != 1 || easy[0].ID != "q1" || easy[0].Level != review.LevelEasy || easy[0].Text != "First?" {
			t.Fatalf("easy: %+v", easy)
		}
		medium := d.QuestionsPool[review.LevelMedium]
		if len(medium) != 1 || medium[0].ID != "medium-1" {
			t.Fatalf("medium: %+v", medium)
		}
		if _, ok := d.QuestionsPool[review.Level("bonus")]; ok {
			t.Fatalf("unknown level kept")
		}
		if d.QuestionsPool.Total() != 2 {
			t.Fatalf("total: want 2 got %d", d.QuestionsPool.Total())
		}
	})
}

func TestAskQuestionIsIdempotent(t *testing.T) {
	clock := newClock()
	p := newTestPhases(Collaborators{}, clock)
	s := questioningSession()

	first := p.AskQuestion(context.Background(), s)
	clock.Advance(time.Minute)
	second := p.AskQuestion(context.Background(), s)
	if first.CurrentQuestion.Value == nil || second.CurrentQuestion.Value == nil {
		t.Fatalf("expected a question both times")
	}
	if first.CurrentQuestion.Value.ID != second.CurrentQuestion.Value.ID {
		t.Fatalf("double advance: %s then %s", first.CurrentQuestion.Value.ID, second.CurrentQuestion.Value.ID)
	}

	s = s.Apply(first)
	started := *s.Timing.QuestionStartedAt
	clock.Advance(time.Minute)
	again := p.AskQuestion(context.Background(), s)
	if again.CurrentQuestion.Set || again.QuestionStartedAt != nil {
		t.Fatalf("pending question must only be repeated: %+v", again)
	}
	s = s.Apply(again)
	if s.CurrentQuestion.ID != "q1" || !s.Timing.QuestionStartedAt.Equal(started) {
		t.Fatalf("re-ask changed state: %+v", s.CurrentQuestion)
	}
}

func TestAskQuestionLevelIntro(t *testing.T) {
	p := newTestPhases(Collaborators{}, newClock())
	intro := DefaultMessages().LevelIntros[review.LevelEasy]

	s := questioningSession()
	d := p.AskQuestion(context.Background(), s)
	if !strings.HasPrefix(*d.LastAIMessage, intro) {
		t.Fatalf("first question needs intro: %q", *d.LastAIMessage)
	}

	s.QuestionsAsked = []review.Question{s.QuestionsPool[review.LevelEasy][0]}
	d = p.AskQuestion(context.Background(), s)
	if d.CurrentQuestion.Value.ID != "q2" {
		t.Fatalf("want q2 got %s", d.CurrentQuestion.Value.ID)
	}
	if strings.HasPrefix(*d.LastAIMessage, intro) {
		t.Fatalf("second question must not repeat intro")
	}
}

func TestAskQuestionExhaustedLevelIsNoop(t *testing.T) {
	p := newTestPhases(Collaborators{}, newClock())
	s := questioningSession()
	s.CurrentLevel = review.LevelMedium
	s.QuestionsAsked = []review.Question{s.QuestionsPool[review.LevelMedium][0]}
	if d := p.AskQuestion(context.Background(), s); !d.Empty() {
		t.Fatalf("want empty delta, got %+v", d)
	}
	s.Phase = review.PhaseUpload
	if d := p.AskQuestion(context.Background(), s); !d.Empty() {
		t.Fatalf("outside QUESTIONING must be a no-op")
	}
}

func TestEvaluateAnswerSuccess(t *testing.T) {
	clock := newClock()
	p := newTestPhases(Collaborators{Evaluator: fakeEvaluator{scores: map[string]float64{"q1": 12}}}, clock)
	s := questioningSession()
	s = s.Apply(p.AskQuestion(context.Background(), s))
	clock.Advance(42 * time.Second)

	d := p.EvaluateAnswer(context.Background(), s, AnswerInput{Transcript: "  It weaves data.  "})
	if len(d.Answers) != 1 || len(d.QuestionsAsked) != 1 || len(d.Evaluations) != 1 {
		t.Fatalf("lengths: answers=%d asked=%d evals=%d", len(d.Answers), len(d.QuestionsAsked), len(d.Evaluations))
	}
	a := d.Answers[0]
	if a.QuestionID != "q1" || a.Transcript != "It weaves data." || a.Duration != 42 || a.Skipped {
		t.Fatalf("answer: %+v", a)
	}
	e := d.Evaluations[0]
	if e.QuestionID != "q1" {
		t.Fatalf("evaluation question id must be overwritten, got %q", e.QuestionID)
	}
	if e.Score != 10 {
		t.Fatalf("score must be clamped to 10, got %v", e.Score)
	}
	if !d.CurrentQuestion.Set || d.CurrentQuestion.Value != nil {
		t.Fatalf("current question must be cleared")
	}
	if !slices.Contains(policy.DefaultFeedback().Excellent, *d.LastAIMessage) {
		t.Fatalf("feedback not from excellent bucket: %q", *d.LastAIMessage)
	}
	if d.Next != nil {
		t.Fatalf("evaluate never requests a transition")
	}
}

func TestEvaluateAnswerEvaluatorFailure(t *testing.T) {
	p := newTestPhases(Collaborators{Evaluator: fakeEvaluator{fail: map[string]bool{"q1": true}}}, newClock())
	s := questioningSession()
	s = s.Apply(p.AskQuestion(context.Background(), s))

	s = s.Apply(p.EvaluateAnswer(context.Background(), s, AnswerInput{Transcript: "answer"}))
	if len(s.Answers) != 1 || len(s.QuestionsAsked) != 1 {
		t.Fatalf("answer and asked must still grow: %d/%d", len(s.Answers), len(s.QuestionsAsked))
	}
	if len(s.Evaluations) != 0 {
		t.Fatalf("no evaluation on failure")
	}
	if s.LastAIMessage != DefaultMessages().Continue {
		t.Fatalf("message: %q", s.LastAIMessage)
	}
	if s.CurrentQuestion != nil {
		t.Fatalf("current question must be cleared")
	}
	if s.Phase != review.PhaseQuestioning {
		t.Fatalf("phase changed: %s", s.Phase)
	}
	if !strings.HasPrefix(s.LastError, "evaluation_failed") {
		t.Fatalf("last error: %q", s.LastError)
	}
}

func TestEvaluateAnswerTimeoutIsFailure(t *testing.T) {
	obs := &fakeObserver{}
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	p := newTestPhases(
		Collaborators{Evaluator: fakeEvaluator{release: release}},
		newClock(),
		WithTimeouts(Timeouts{Evaluate: 20 * time.Millisecond}),
		WithObserver(obs),
	)
	s := questioningSession()
	s = s.Apply(p.AskQuestion(context.Background(), s))

	d := p.EvaluateAnswer(context.Background(), s, AnswerInput{Transcript: "answer"})
	if d.Evaluations != nil || len(d.Answers) != 1 {
		t.Fatalf("timeout must degrade like a failure: %+v", d)
	}
	if len(obs.calls) != 1 || obs.calls[0] != "evaluator:timeout" {
		t.Fatalf("observer: %v", obs.calls)
	}
}

func TestEvaluateAnswerInputErrors(t *testing.T) {
	p := newTestPhases(Collaborators{Evaluator: fakeEvaluator{}}, newClock())

	t.Run("no_current_question", func(t *testing.T) {
		s := questioningSession()
		s.Answers = []review.Answer{{QuestionID: "q0"}}
		d := p.EvaluateAnswer(context.Background(), s, AnswerInput{Transcript: "hi"})
		if d.Answers != nil || d.QuestionsAsked != nil || d.Evaluations != nil {
			t.Fatalf("invariant violation must not touch sequences")
		}
		if d.LastError == nil || !strings.HasPrefix(*d.LastError, "invariant_violation") {
			t.Fatalf("last error: %v", d.LastError)
		}
		if *d.LastAIMessage != DefaultMessages().NoQuestion {
			t.Fatalf("message: %q", *d.LastAIMessage)
		}
	})

	t.Run("empty_transcript", func(t *testing.T) {
		s := questioningSession()
		s = s.Apply(p.AskQuestion(context.Background(), s))
		d := p.EvaluateAnswer(context.Background(), s, AnswerInput{Transcript: "   "})
		if d.Answers != nil || d.CurrentQuestion.Set {
			t.Fatalf("empty answer must re-prompt only: %+v", d)
		}
		if *d.LastAIMessage != DefaultMessages().MissingAnswer {
			t.Fatalf("message: %q", *d.LastAIMessage)
		}
	})
}

func TestEvaluateAnswerSkip(t *testing.T) {
	p := newTestPhases(Collaborators{Evaluator: fakeEvaluator{scores: map[string]float64{"q1": 9}}}, newClock())
	s := questioningSession()
	s = s.Apply(p.AskQuestion(context.Background(), s))

	d := p.EvaluateAnswer(context.Background(), s, AnswerInput{Skipped: true})
	if len(d.Answers) != 1 || !d.Answers[0].Skipped {
		t.Fatalf("skip must be recorded: %+v", d.Answers)
	}
	if len(d.QuestionsAsked) != 1 || d.Evaluations != nil {
		t.Fatalf("skip counts as asked, never scored")
	}
	if *d.LastAIMessage != DefaultMessages().Skipped {
		t.Fatalf("message: %q", *d.LastAIMessage)
	}
}

func TestEvaluateAnswerQuietSkip(t *testing.T) {
	p := newTestPhases(Collaborators{Evaluator: fakeEvaluator{}}, newClock())
	s := questioningSession()
	s = s.Apply(p.AskQuestion(context.Background(), s))
	pending := s.CurrentQuestion.ID

	d := p.EvaluateAnswer(context.Background(), s, AnswerInput{Skipped: true, Quiet: true})
	if len(d.Answers) != 1 || d.Answers[0].QuestionID != pending || !d.Answers[0].Skipped {
		t.Fatalf("answers: %+v", d.Answers)
	}
	if !d.CurrentQuestion.Set || d.CurrentQuestion.Value != nil {
		t.Fatalf("pending question must be cleared: %+v", d.CurrentQuestion)
	}
	if d.LastAIMessage != nil {
		t.Fatalf("quiet skip must not speak: %q", *d.LastAIMessage)
	}
}

func TestEvaluateAnswerDoesNotAliasSession(t *testing.T) {
	p := newTestPhases(Collaborators{Evaluator: fakeEvaluator{scores: map[string]float64{"q2": 5}}}, newClock())
	s := questioningSession()
	backing := make([]review.Answer, 1, 8)
	backing[0] = review.Answer{QuestionID: "q1"}
	s.Answers = backing
	s.QuestionsAsked = []review.Question{s.QuestionsPool[review.LevelEasy][0]}
	s = s.Apply(p.AskQuestion(context.Background(), s))

	d := p.EvaluateAnswer(context.Background(), s, AnswerInput{Transcript: "users"})
	if len(d.Answers) != 2 {
		t.Fatalf("want 2 answers got %d", len(d.Answers))
	}
	if backing[:2][1].QuestionID != "" {
		t.Fatalf("phase wrote into the session's backing array")
	}
}

// Pool {easy:[q1,q2], medium:[q3], hard:[q4]} walks easy -> medium -> hard -> report.
func TestQuestioningScenario(t *testing.T) {
	p := newTestPhases(Collaborators{Evaluator: fakeEvaluator{scores: map[string]float64{"q1": 8, "q2": 6, "q3": 7, "q4": 5}}}, newClock())
	s := questioningSession()

	var levels []review.Level
	for i := 0; i < 10 && s.Phase == review.PhaseQuestioning; i++ {
		ask := p.AskQuestion(context.Background(), s)
		if ask.Empty() {
			t.Fatalf("ask returned nothing at level %s", s.CurrentLevel)
		}
		s = s.Apply(ask)
		levels = append(levels, s.CurrentLevel)
		s = s.Apply(p.EvaluateAnswer(context.Background(), s, AnswerInput{Transcript: "answer"}))
		lt := p.TransitionLevel(context.Background(), s)
		if lt.Next != nil {
			s.Phase = *lt.Next
		}
		s = s.Apply(lt)
	}

	want := []review.Level{review.LevelEasy, review.LevelEasy, review.LevelMedium, review.LevelHard}
	if !slices.Equal(levels, want) {
		t.Fatalf("levels: want %v got %v", want, levels)
	}
	if s.Phase != review.PhaseReportGeneration {
		t.Fatalf("want REPORT_GENERATION got %s", s.Phase)
	}
	if len(s.Answers) != 4 || len(s.QuestionsAsked) != 4 || len(s.Evaluations) != 4 {
		t.Fatalf("append-only lengths off: %d/%d/%d", len(s.Answers), len(s.QuestionsAsked), len(s.Evaluations))
	}
}

func TestTransitionLevelNoopCases(t *testing.T) {
	p := newTestPhases(Collaborators{}, newClock())
	s := questioningSession()
	if d := p.TransitionLevel(context.Background(), s); !d.Empty() {
		t.Fatalf("incomplete level must not advance")
	}
	s.QuestionsAsked = s.QuestionsPool[review.LevelEasy]
	q := s.QuestionsPool[review.LevelMedium][0]
	s.CurrentQuestion = &q
	if d := p.TransitionLevel(context.Background(), s); !d.Empty() {
		t.Fatalf("pending question must block level change")
	}
}

func TestGenerateReport(t *testing.T) {
	clock := newClock()
	p := newTestPhases(Collaborators{Renderer: fakeRenderer{}}, clock)

	t.Run("missing_inputs", func(t *testing.T) {
		for _, s := range []review.Session{
			{ID: "s1", Candidate: review.Candidate{Name: "Ada"}},
			{ID: "s1", Metadata: &review.PresentationMetadata{}, Candidate: review.Candidate{Name: " "}},
		} {
			d := p.GenerateReport(context.Background(), s)
			if d.Next == nil || *d.Next != review.PhaseError || d.FinalReport != nil {
				t.Fatalf("want ERROR without report, got %+v", d)
			}
			if *d.LastAIMessage != DefaultMessages().ReportFailed {
				t.Fatalf("message: %q", *d.LastAIMessage)
			}
		}
	})

	t.Run("aggregates", func(t *testing.T) {
		s := questioningSession()
		s.Phase = review.PhaseReportGeneration
		s.QuestionsAsked = []review.Question{s.QuestionsPool[review.LevelEasy][0], s.QuestionsPool[review.LevelEasy][1]}
		s.Evaluations = []review.Evaluation{{QuestionID: "q1", Score: 9}, {QuestionID: "q2", Score: 7}}
		s.AIDetection = &review.AIDetection{OverallResult: review.VerdictLikelyAI, OverallConfidence: 10}

		d := p.GenerateReport(context.Background(), s)
		if d.Next == nil || *d.Next != review.PhaseCompleted {
			t.Fatalf("want COMPLETED got %v", d.Next)
		}
		r := d.FinalReport
		if r.AverageScore != 8 || r.Recommendation != review.RecommendProceed {
			t.Fatalf("report: avg=%v rec=%s", r.AverageScore, r.Recommendation)
		}
		if r.LevelScores[review.LevelEasy].Count != 2 || r.LevelScores[review.LevelEasy].Average != 8 {
			t.Fatalf("easy level score: %+v", r.LevelScores[review.LevelEasy])
		}
		if r.Summary != "Ada: proceed" || *d.LastAIMessage != r.Summary {
			t.Fatalf("summary: %q / %q", r.Summary, *d.LastAIMessage)
		}
		if len(r.NextSteps) == 0 || r.OverallAssessment == "" {
			t.Fatalf("missing assessment text")
		}
		if !r.GeneratedAt.Equal(clock.Now()) {
			t.Fatalf("generated at not stamped")
		}
	})

	t.Run("likely_ai_forces_review", func(t *testing.T) {
		s := questioningSession()
		s.Evaluations = []review.Evaluation{{QuestionID: "q1", Score: 10}}
		s.AIDetection = &review.AIDetection{OverallResult: review.VerdictLikelyAI, OverallConfidence: 95}
		r := p.GenerateReport(context.Background(), s).FinalReport
		if r.Recommendation != review.RecommendReview {
			t.Fatalf("want review got %s", r.Recommendation)
		}
		if !strings.Contains(r.OverallAssessment, "AI-generated") {
			t.Fatalf("assessment should name the reason: %q", r.OverallAssessment)
		}
	})
}

func TestClose(t *testing.T) {
	clock := newClock()
	p := newTestPhases(Collaborators{}, clock)
	start := clock.Now()
	clock.Advance(90 * time.Second)

	s := review.Session{ID: "s1", Phase: review.PhaseCompleted, Timing: review.Timing{SessionStartedAt: &start}}
	d := p.Close(context.Background(), s)
	if d.TotalDuration == nil || *d.TotalDuration != 90*time.Second {
		t.Fatalf("duration: %v", d.TotalDuration)
	}
	if d.Next == nil || *d.Next != review.PhaseCompleted {
		t.Fatalf("want COMPLETED")
	}

	s.Phase = review.PhaseError
	d = p.Close(context.Background(), s)
	if d.Next != nil {
		t.Fatalf("ERROR sessions stay in ERROR")
	}
	if d.TotalDuration == nil {
		t.Fatalf("duration still recorded")
	}
}

func TestLoadMessagesOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	body := "greeting: \"Hi {candidate}!\"\nlevel_intros:\n  hard: \"Final round.\"\nfeedback:\n  weak: [\"Keep going.\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err := LoadMessages(path)
	if err != nil {
		t.Fatalf("LoadMessages: %v", err)
	}
	def := DefaultMessages()
	if got := fill(m.Greeting, "candidate", "Ada"); got != "Hi Ada!" {
		t.Fatalf("greeting: %q", got)
	}
	if m.LevelIntros[review.LevelHard] != "Final round." || m.LevelIntros[review.LevelEasy] != def.LevelIntros[review.LevelEasy] {
		t.Fatalf("intros: %+v", m.LevelIntros)
	}
	if !slices.Equal(m.Feedback.Weak, []string{"Keep going."}) || !slices.Equal(m.Feedback.Good, def.Feedback.Good) {
		t.Fatalf("feedback: %+v", m.Feedback)
	}
	if m.Closing != def.Closing {
		t.Fatalf("closing should fall back")
	}

	if _, err := LoadMessages(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("want error for missing file")
	}
}
