package phases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/policy"
)

var errBoom = errors.New("boom")

type fakeParser struct {
	out *review.ParsedPresentation
	err error
}

func (f fakeParser) Parse(context.Context, review.Upload) (*review.ParsedPresentation, error) {
	return f.out, f.err
}

type fakeDetector struct {
	out *review.AIDetection
	err error
}

func (f fakeDetector) Detect(context.Context, []string) (*review.AIDetection, error) {
	return f.out, f.err
}

type fakeGenerator struct {
	out review.QuestionPool
	err error
}

func (f fakeGenerator) Generate(context.Context, []string, string) (review.QuestionPool, error) {
	return f.out, f.err
}

// fakeEvaluator scores by question id; ids in fail return errBoom.
type fakeEvaluator struct {
	scores   map[string]float64
	concerns map[string][]string
	fail     map[string]bool
	release  chan struct{}
}

func (f fakeEvaluator) Evaluate(_ context.Context, q review.Question, _ string) (*review.Evaluation, error) {
	if f.release != nil {
		<-f.release
	}
	if f.fail[q.ID] {
		return nil, errBoom
	}
	return &review.Evaluation{
		QuestionID:      "ignored",
		Score:           f.scores[q.ID],
		FlaggedConcerns: f.concerns[q.ID],
	}, nil
}

type fakeRenderer struct{}

func (fakeRenderer) Summary(r review.Report, name string) string {
	return name + ": " + string(r.Recommendation)
}

type fakeObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *fakeObserver) ObserveCollaborator(name, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, name+":"+outcome)
}

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *stepClock { return &stepClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)} }

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testPool() review.QuestionPool {
	return review.QuestionPool{
		review.LevelEasy: {
			{ID: "q1", Level: review.LevelEasy, Text: "What problem does the project solve?"},
			{ID: "q2", Level: review.LevelEasy, Text: "Who are the users?"},
		},
		review.LevelMedium: {
			{ID: "q3", Level: review.LevelMedium, Text: "Why this architecture?"},
		},
		review.LevelHard: {
			{ID: "q4", Level: review.LevelHard, Text: "How would it scale ten times?"},
		},
	}
}

func newTestPhases(collab Collaborators, clock *stepClock, opts ...Option) *Phases {
	base := []Option{
		WithClock(clock.Now),
		WithChooser(policy.SeededChooser(7)),
	}
	return New(nil, collab, append(base, opts...)...)
}

func questioningSession() review.Session {
	return review.Session{
		ID:            "s1",
		Phase:         review.PhaseQuestioning,
		Candidate:     review.Candidate{Name: "Ada", ProjectTitle: "Loom"},
		Metadata:      &review.PresentationMetadata{Filename: "deck.pdf", Format: "pdf", SlideCount: 3},
		Slides:        []string{"intro", "design", "results"},
		QuestionsPool: testPool(),
		CurrentLevel:  review.LevelEasy,
	}
}
