package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/projectreview-backend/internal/data/repos"
	"github.com/yungbote/projectreview-backend/internal/data/repos/testutil"
	"github.com/yungbote/projectreview-backend/internal/data/sessionstore"
	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/driver"
	"github.com/yungbote/projectreview-backend/internal/modules/review/phases"
	"github.com/yungbote/projectreview-backend/internal/modules/review/policy"
	"github.com/yungbote/projectreview-backend/internal/platform/apierr"
	"github.com/yungbote/projectreview-backend/internal/realtime"
)

type fakeParser struct{}

func (fakeParser) Parse(_ context.Context, f review.Upload) (*review.ParsedPresentation, error) {
	return &review.ParsedPresentation{
		Metadata: review.PresentationMetadata{Filename: f.Filename, Format: "pdf"},
		Slides:   []string{"Loom weaves event streams", "Architecture"},
	}, nil
}

type fakeDetector struct{}

func (fakeDetector) Detect(context.Context, []string) (*review.AIDetection, error) {
	return &review.AIDetection{OverallResult: review.VerdictLikelyHuman, OverallConfidence: 90}, nil
}

type fakeGenerator struct{}

func (fakeGenerator) Generate(context.Context, []string, string) (review.QuestionPool, error) {
	return review.QuestionPool{
		review.LevelEasy:   {{ID: "e1", Level: review.LevelEasy, Text: "What does Loom do?"}},
		review.LevelMedium: {{ID: "m1", Level: review.LevelMedium, Text: "Why streams?"}},
		review.LevelHard:   {{ID: "h1", Level: review.LevelHard, Text: "What breaks first?"}},
	}, nil
}

type fakeEvaluator struct{}

func (fakeEvaluator) Evaluate(context.Context, review.Question, string) (*review.Evaluation, error) {
	return &review.Evaluation{Score: 8}, nil
}

type captureEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (c *captureEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *captureEmitter) snapshot() []realtime.SSEMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]realtime.SSEMessage(nil), c.msgs...)
}

type fixture struct {
	svc   ReviewService
	store *sessionstore.Memory
	emit  *captureEmitter
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := testutil.Logger(t)
	tx := testutil.Tx(t, testutil.DB(t))

	renderer, err := NewReportRenderer(log, "")
	if err != nil {
		t.Fatalf("NewReportRenderer: %v", err)
	}
	ph := phases.New(log, phases.Collaborators{
		Parser:    fakeParser{},
		Detector:  fakeDetector{},
		Generator: fakeGenerator{},
		Evaluator: fakeEvaluator{},
		Renderer:  renderer,
	}, phases.WithChooser(policy.SeededChooser(7)))

	archiveRepo := repos.NewReviewArchiveRepo(tx, log)
	emit := &captureEmitter{}
	store := sessionstore.NewMemory()
	d := driver.New(log, ph, store,
		driver.WithArchiver(NewReviewArchiver(tx, log, archiveRepo)),
		driver.WithNotifier(NewReviewNotifier(emit)),
	)
	return fixture{
		svc:   NewReviewService(tx, log, d, archiveRepo),
		store: store,
		emit:  emit,
	}
}

func apiStatus(t *testing.T, err error) (int, string) {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apierr.Error, got %T: %v", err, err)
	}
	return ae.Status, ae.Code
}

func TestReviewServiceLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Open(ctx, review.Candidate{Name: "Ada", ProjectTitle: "Loom"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id := res.Session.ID

	if _, err := f.svc.Report(ctx, id); err == nil {
		t.Fatalf("expected report_not_ready before upload")
	} else if status, code := apiStatus(t, err); status != http.StatusConflict || code != "report_not_ready" {
		t.Fatalf("status=%d code=%s", status, code)
	}

	res, err = f.svc.UploadPresentation(ctx, id, review.Upload{Filename: "loom.pdf", Data: []byte("%PDF-1.4")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Session.Phase != review.PhaseQuestioning || res.Session.CurrentQuestion == nil {
		t.Fatalf("after upload phase=%s question=%v", res.Session.Phase, res.Session.CurrentQuestion)
	}

	for i := 0; i < 3; i++ {
		if res, err = f.svc.SubmitAnswer(ctx, id, "a thoughtful answer"); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
	if res.Session.Phase != review.PhaseCompleted {
		t.Fatalf("final phase=%s", res.Session.Phase)
	}
	if f.store.Len() != 0 {
		t.Fatalf("closed session should leave the live store")
	}

	got, err := f.svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get archived: %v", err)
	}
	if got.Phase != review.PhaseCompleted || len(got.Answers) != 3 {
		t.Fatalf("archived session phase=%s answers=%d", got.Phase, len(got.Answers))
	}

	rep, err := f.svc.Report(ctx, id)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if rep.AverageScore != 8 || rep.Recommendation != review.RecommendProceed {
		t.Fatalf("report=%+v", rep)
	}
	if !strings.HasPrefix(rep.Summary, "Thank you, Ada.") || !strings.Contains(rep.Summary, "3 answered questions") {
		t.Fatalf("summary=%q", rep.Summary)
	}

	list, err := f.svc.List(ctx, "Proceed", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].SessionID != id || list[0].QuestionsAsked != 3 {
		t.Fatalf("list=%+v", list)
	}

	msgs := f.emit.snapshot()
	if len(msgs) == 0 {
		t.Fatalf("no stream messages published")
	}
	for _, m := range msgs {
		if m.Channel != realtime.ReviewChannel(id) {
			t.Fatalf("message on channel %q", m.Channel)
		}
	}
	if last := msgs[len(msgs)-1]; last.Event != realtime.SSEEventReviewClosed {
		t.Fatalf("last event=%s", last.Event)
	}

	if _, err := f.svc.SubmitAnswer(ctx, id, "late"); err == nil {
		t.Fatalf("expected error answering a closed session")
	} else if status, _ := apiStatus(t, err); status != http.StatusNotFound && status != http.StatusConflict {
		t.Fatalf("status=%d", status)
	}
}

func TestReviewServiceErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		call   func() error
		status int
		code   string
	}{
		{"invalid candidate", func() error {
			_, err := f.svc.Open(ctx, review.Candidate{Name: " "})
			return err
		}, http.StatusBadRequest, "invalid_input"},
		{"unknown session", func() error {
			_, err := f.svc.SubmitAnswer(ctx, "nope", "hi")
			return err
		}, http.StatusNotFound, "session_not_found"},
		{"unknown report", func() error {
			_, err := f.svc.Report(ctx, "nope")
			return err
		}, http.StatusNotFound, "session_not_found"},
		{"bad recommendation filter", func() error {
			_, err := f.svc.List(ctx, "maybe", 0)
			return err
		}, http.StatusBadRequest, "invalid_recommendation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			if err == nil {
				t.Fatalf("expected error")
			}
			status, code := apiStatus(t, err)
			if status != tc.status || code != tc.code {
				t.Fatalf("status=%d code=%s, want %d %s", status, code, tc.status, tc.code)
			}
		})
	}

	res, err := f.svc.Open(ctx, review.Candidate{Name: "Ada", ProjectTitle: "Loom"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, err = f.svc.SubmitAnswer(ctx, res.Session.ID, "too early")
	if status, code := apiStatus(t, err); status != http.StatusConflict || code != "invalid_event" {
		t.Fatalf("answer before upload: status=%d code=%s", status, code)
	}
}

func TestMapReviewErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("save session: %w", review.ErrSessionConflict), http.StatusConflict, "session_conflict"},
		{review.ErrSessionClosed, http.StatusConflict, "session_closed"},
		{review.ErrSessionExists, http.StatusConflict, "session_exists"},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
	}
	for _, tc := range cases {
		status, code := apiStatus(t, mapReviewError(tc.err))
		if status != tc.status || code != tc.code {
			t.Fatalf("%v: want=%d %s got=%d %s", tc.err, tc.status, tc.code, status, code)
		}
	}
}

func TestReviewServiceEndWithoutReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Open(ctx, review.Candidate{Name: "Ada", ProjectTitle: "Loom"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := f.svc.End(ctx, res.Session.ID); err != nil {
		t.Fatalf("End: %v", err)
	}
	_, err = f.svc.Report(ctx, res.Session.ID)
	if status, code := apiStatus(t, err); status != http.StatusNotFound || code != "report_unavailable" {
		t.Fatalf("status=%d code=%s", status, code)
	}
}

func TestReportRenderer(t *testing.T) {
	r, err := NewReportRenderer(nil, "")
	if err != nil {
		t.Fatalf("NewReportRenderer: %v", err)
	}
	got := r.Summary(review.Report{
		AverageScore:      6.25,
		QuestionsScored:   1,
		OverallAssessment: "Solid fundamentals.",
		NextSteps:         []string{"Schedule a follow-up."},
		GeneratedAt:       time.Now(),
	}, " Grace ")
	want := "Thank you, Grace. Across 1 answered question your average score was 6.2 out of 10. Solid fundamentals. As a next step: Schedule a follow-up."
	if got != want {
		t.Fatalf("summary:\n got %q\nwant %q", got, want)
	}

	none := r.Summary(review.Report{OverallAssessment: "Nothing to assess."}, "Grace")
	if !strings.Contains(none, "did not get to score") {
		t.Fatalf("zero-score summary=%q", none)
	}

	if _, err := NewReportRenderer(nil, "{{.Broken"); err == nil {
		t.Fatalf("expected parse error")
	}
	bad, err := NewReportRenderer(nil, "{{.Missing}}")
	if err != nil {
		t.Fatalf("NewReportRenderer: %v", err)
	}
	if got := bad.Summary(review.Report{}, "x"); got != "" {
		t.Fatalf("failed render should be empty, got %q", got)
	}
}
