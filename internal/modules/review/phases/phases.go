// Package phases holds the review session's transition functions. Each one reads
// a Session value and returns a review.Delta; none of them mutate the session or
// write its phase directly.
package phases

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/policy"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

type Parser interface {
	Parse(ctx context.Context, file review.Upload) (*review.ParsedPresentation, error)
}

type Detector interface {
	Detect(ctx context.Context, slides []string) (*review.AIDetection, error)
}

type Generator interface {
	Generate(ctx context.Context, slides []string, projectTitle string) (review.QuestionPool, error)
}

// Evaluator scores one answer. The returned Evaluation's QuestionID is overwritten
// by the caller.
type Evaluator interface {
	Evaluate(ctx context.Context, q review.Question, transcript string) (*review.Evaluation, error)
}

// Renderer turns a finished report into the candidate-facing summary.
type Renderer interface {
	Summary(report review.Report, candidateName string) string
}

type Collaborators struct {
	Parser    Parser
	Detector  Detector
	Generator Generator
	Evaluator Evaluator
	Renderer  Renderer
}

// Timeouts bound each collaborator call. Zero means no phase-level deadline.
type Timeouts struct {
	Parse    time.Duration
	Detect   time.Duration
	Generate time.Duration
	Evaluate time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Parse:    30 * time.Second,
		Detect:   45 * time.Second,
		Generate: 90 * time.Second,
		Evaluate: 45 * time.Second,
	}
}

// CollaboratorObserver receives one callback per external call.
type CollaboratorObserver interface {
	ObserveCollaborator(name, outcome string, d time.Duration)
}

type Phases struct {
	log      *logger.Logger
	collab   Collaborators
	timeouts Timeouts
	messages Messages
	choose   policy.Chooser
	now      func() time.Time
	observer CollaboratorObserver
}

type Option func(*Phases)

func WithTimeouts(t Timeouts) Option             { return func(p *Phases) { p.timeouts = t } }
func WithChooser(c policy.Chooser) Option        { return func(p *Phases) { p.choose = c } }
func WithClock(now func() time.Time) Option      { return func(p *Phases) { p.now = now } }
func WithObserver(o CollaboratorObserver) Option { return func(p *Phases) { p.observer = o } }

// WithMessages overrides the conversational copy; blank entries keep the defaults.
func WithMessages(m Messages) Option {
	return func(p *Phases) { p.messages = m.Merge(DefaultMessages()) }
}

func New(log *logger.Logger, collab Collaborators, opts ...Option) *Phases {
	if log == nil {
		log = logger.Nop()
	}
	p := &Phases{
		log:      log.With("component", "ReviewPhases"),
		collab:   collab,
		timeouts: DefaultTimeouts(),
		messages: DefaultMessages(),
		choose:   policy.RandomChooser(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Now exposes the phase clock so the driver stamps sessions consistently.
func (p *Phases) Now() time.Time { return p.now() }

func (p *Phases) Messages() Messages { return p.messages }

var errNoCollaborator = errors.New("collaborator not configured")

// call runs fn under the phase deadline. A collaborator that ignores ctx is
// abandoned when the deadline passes; its late result is discarded.
func call[T any](ctx context.Context, p *Phases, name string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	type result struct {
		v   T
		err error
	}
	start := p.now()
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v: v, err: err}
	}()

	var r result
	select {
	case r = <-ch:
	case <-ctx.Done():
		r.err = ctx.Err()
	}
	if p.observer != nil {
		p.observer.ObserveCollaborator(name, outcome(r.err), p.now().Sub(start))
	}
	return r.v, r.err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

func errorf(code string, err error) *string {
	if err == nil {
		return review.Ptr(code)
	}
	return review.Ptr(code + ": " + err.Error())
}

func cloneAppend[T any](s []T, v ...T) []T {
	out := make([]T, 0, len(s)+len(v))
	out = append(out, s...)
	return append(out, v...)
}
