// Package driver runs review sessions through their phases. It owns every write
// to Session.Phase, merges phase deltas, serializes events per session and
// persists the result after each step.
package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/phases"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

// Store keeps live sessions. Get returns review.ErrSessionNotFound for unknown
// ids; Save returns review.ErrSessionConflict unless s.Version is one past the
// stored copy.
type Store interface {
	Create(ctx context.Context, s review.Session) error
	Get(ctx context.Context, id string) (review.Session, error)
	Save(ctx context.Context, s review.Session) error
	Delete(ctx context.Context, id string) error
}

// Locker serializes events for one session id. The returned func releases it.
type Locker interface {
	Lock(ctx context.Context, id string) (func(), error)
}

// Archiver receives every session that reaches a terminal phase.
type Archiver interface {
	Archive(ctx context.Context, s review.Session) error
}

// Notifier fans candidate-facing messages out to stream subscribers.
type Notifier interface {
	Publish(ctx context.Context, u review.Update)
}

type Metrics interface {
	ObservePhase(phase, outcome string, d time.Duration)
	ObserveTransition(from, to string)
	IncEvent(kind, result string)
}

type Transition struct {
	From review.Phase `json:"from"`
	To   review.Phase `json:"to"`
}

// StepResult is the session after one event, plus what was said and which
// phases were crossed while handling it.
type StepResult struct {
	Session     review.Session `json:"session"`
	Messages    []string       `json:"messages"`
	Transitions []Transition   `json:"transitions"`
}

type Driver struct {
	log      *logger.Logger
	phases   *phases.Phases
	store    Store
	archiver Archiver
	notifier Notifier
	metrics  Metrics
	tracer   trace.Tracer
	locks    *sessionLocks
	shared   Locker
}

type Option func(*Driver)

func WithArchiver(a Archiver) Option { return func(d *Driver) { d.archiver = a } }
func WithNotifier(n Notifier) Option { return func(d *Driver) { d.notifier = n } }
func WithMetrics(m Metrics) Option   { return func(d *Driver) { d.metrics = m } }

// WithLocker adds a lock held across processes, taken after the local one.
func WithLocker(l Locker) Option { return func(d *Driver) { d.shared = l } }

func New(log *logger.Logger, ph *phases.Phases, store Store, opts ...Option) *Driver {
	if log == nil {
		log = logger.Nop()
	}
	d := &Driver{
		log:    log.With("component", "ReviewDriver"),
		phases: ph,
		store:  store,
		tracer: otel.Tracer("projectreview/review"),
		locks:  newSessionLocks(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// step accumulates one event's progression.
type step struct {
	s           review.Session
	messages    []string
	updates     []review.Update
	transitions []Transition
}

func (st *step) result() StepResult {
	return StepResult{Session: st.s, Messages: st.messages, Transitions: st.transitions}
}

// Open creates a session for candidate and runs INIT, leaving it awaiting the upload.
func (d *Driver) Open(ctx context.Context, candidate review.Candidate) (StepResult, error) {
	candidate.Name = strings.TrimSpace(candidate.Name)
	candidate.ProjectTitle = strings.TrimSpace(candidate.ProjectTitle)
	if err := review.Validate(candidate); err != nil {
		return StepResult{}, err
	}
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	now := d.phases.Now()
	s := review.Session{
		ID:        uuid.NewString(),
		Phase:     review.PhaseInit,
		Candidate: candidate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	unlock, err := d.lock(ctx, s.ID)
	if err != nil {
		return StepResult{}, err
	}
	defer unlock()

	if err := d.store.Create(ctx, s); err != nil {
		return StepResult{}, fmt.Errorf("create session: %w", err)
	}
	st := &step{s: s}
	if err := d.apply(ctx, st, "init", d.phases.Init); err != nil {
		return StepResult{}, err
	}
	if err := d.commit(ctx, st); err != nil {
		return StepResult{}, err
	}
	d.log.Info("review session opened", "session_id", st.s.ID, "candidate_id", candidate.ID)
	d.incEvent("open", "ok")
	return st.result(), nil
}

// Handle applies one external event and runs every automatic phase that
// follows, stopping at the next await point or a terminal phase.
func (d *Driver) Handle(ctx context.Context, id string, ev Event) (StepResult, error) {
	res, err := d.handle(ctx, id, ev)
	d.incEvent(string(ev.Kind), eventResult(err))
	return res, err
}

func (d *Driver) handle(ctx context.Context, id string, ev Event) (StepResult, error) {
	if err := ev.Validate(); err != nil {
		return StepResult{}, err
	}
	unlock, err := d.lock(ctx, id)
	if err != nil {
		return StepResult{}, err
	}
	defer unlock()

	s, err := d.store.Get(ctx, id)
	if err != nil {
		return StepResult{}, err
	}
	if s.Phase.Terminal() {
		return StepResult{}, review.ErrSessionClosed
	}
	if !accepts(ev.Kind, s.Phase) {
		return StepResult{}, fmt.Errorf("%w: %s in %s", review.ErrInvalidEvent, ev.Kind, s.Phase)
	}

	s.LastError = ""
	st := &step{s: s}
	if err := d.dispatch(ctx, st, ev); err != nil {
		return StepResult{}, err
	}
	if err := d.commit(ctx, st); err != nil {
		return StepResult{}, err
	}
	return st.result(), nil
}

// lock takes the in-process lock and then the shared one, if configured.
func (d *Driver) lock(ctx context.Context, id string) (func(), error) {
	unlock, err := d.locks.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.shared == nil {
		return unlock, nil
	}
	unlockShared, err := d.shared.Lock(ctx, id)
	if err != nil {
		unlock()
		return nil, fmt.Errorf("session lock: %w", err)
	}
	return func() {
		unlockShared()
		unlock()
	}, nil
}

func (d *Driver) dispatch(ctx context.Context, st *step, ev Event) error {
	switch ev.Kind {
	case EventUpload:
		upload := review.Upload{}
		if ev.Upload != nil {
			upload = *ev.Upload
		}
		if err := d.force(st, review.PhaseParsing); err != nil {
			return err
		}
		err := d.apply(ctx, st, "parse", func(ctx context.Context, s review.Session) review.Delta {
			return d.phases.Parse(ctx, s, upload)
		})
		if err != nil {
			return err
		}

	case EventAnswer, EventSkip:
		in := phases.AnswerInput{Transcript: ev.Transcript, Skipped: ev.Kind == EventSkip}
		before := len(st.s.Answers)
		err := d.apply(ctx, st, "evaluate", func(ctx context.Context, s review.Session) review.Delta {
			return d.phases.EvaluateAnswer(ctx, s, in)
		})
		if err != nil {
			return err
		}
		if len(st.s.Answers) > before {
			if err := d.apply(ctx, st, "level_transition", d.phases.TransitionLevel); err != nil {
				return err
			}
		}

	case EventEnd:
		if st.s.Phase != review.PhaseQuestioning {
			return d.apply(ctx, st, "close", d.phases.Close)
		}
		// The pending question is recorded as unanswered before the report.
		if st.s.CurrentQuestion != nil {
			err := d.apply(ctx, st, "evaluate", func(ctx context.Context, s review.Session) review.Delta {
				return d.phases.EvaluateAnswer(ctx, s, phases.AnswerInput{Skipped: true, Quiet: true})
			})
			if err != nil {
				return err
			}
		}
		err := d.apply(ctx, st, "end", func(context.Context, review.Session) review.Delta {
			return review.Delta{Next: review.Ptr(review.PhaseReportGeneration)}
		})
		if err != nil {
			return err
		}
	}
	return d.advance(ctx, st)
}

// maxAutoSteps caps automatic progression in one event; the longest real chain
// is parse through the first question plus one level skip per level.
const maxAutoSteps = 32

func (d *Driver) advance(ctx context.Context, st *step) error {
	for i := 0; i < maxAutoSteps; i++ {
		var err error
		switch st.s.Phase {
		case review.PhaseAIDetection:
			err = d.apply(ctx, st, "ai_detection", d.phases.DetectAI)
		case review.PhaseQuestionGeneration:
			err = d.apply(ctx, st, "question_generation", d.phases.GenerateQuestions)
		case review.PhaseQuestioning:
			if st.s.CurrentQuestion != nil {
				return nil
			}
			before := st.s.CurrentLevel
			if err = d.apply(ctx, st, "ask", d.phases.AskQuestion); err != nil {
				return err
			}
			if st.s.CurrentQuestion != nil {
				return nil
			}
			if err = d.apply(ctx, st, "level_transition", d.phases.TransitionLevel); err != nil {
				return err
			}
			if st.s.Phase == review.PhaseQuestioning && st.s.CurrentLevel == before {
				d.log.Error("questioning stalled", "session_id", st.s.ID, "level", before)
				return nil
			}
		case review.PhaseReportGeneration:
			err = d.apply(ctx, st, "report", d.phases.GenerateReport)
		case review.PhaseCompleted, review.PhaseError:
			return d.apply(ctx, st, "close", d.phases.Close)
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
	d.log.Error("automatic progression did not settle", "session_id", st.s.ID, "phase", st.s.Phase)
	return nil
}

type phaseFunc func(ctx context.Context, s review.Session) review.Delta

// apply runs fn, checks the requested transition and merges the delta.
func (d *Driver) apply(ctx context.Context, st *step, name string, fn phaseFunc) error {
	from := st.s.Phase
	ctx, span := d.tracer.Start(ctx, "review.phase."+name, trace.WithAttributes(
		attribute.String("review.phase", from.String()),
		attribute.String("review.step", name),
	))
	defer span.End()

	start := time.Now()
	delta := fn(ctx, st.s)

	to := from
	if delta.Next != nil {
		to = *delta.Next
	}
	if !CanTransition(from, to) {
		err := fmt.Errorf("%w: %s -> %s (%s)", review.ErrIllegalTransition, from, to, name)
		span.RecordError(err)
		span.SetStatus(codes.Error, "illegal transition")
		d.log.Error("rejected phase delta", "session_id", st.s.ID, "step", name, "error", err)
		d.observePhase(name, "illegal", time.Since(start))
		return err
	}

	st.s = st.s.Apply(delta)
	st.s.Phase = to
	st.s.UpdatedAt = d.phases.Now()

	outcome := "ok"
	if delta.LastError != nil {
		outcome = "degraded"
		span.SetAttributes(attribute.String("review.last_error", *delta.LastError))
	}
	d.observePhase(name, outcome, time.Since(start))

	if delta.LastAIMessage != nil && *delta.LastAIMessage != "" {
		msg := *delta.LastAIMessage
		st.messages = append(st.messages, msg)
		st.updates = append(st.updates, review.Update{SessionID: st.s.ID, Phase: to, Message: msg, At: st.s.UpdatedAt})
	}
	if to != from {
		st.transitions = append(st.transitions, Transition{From: from, To: to})
		span.SetAttributes(attribute.String("review.next_phase", to.String()))
		if d.metrics != nil {
			d.metrics.ObserveTransition(from.String(), to.String())
		}
		d.log.Debug("phase transition", "session_id", st.s.ID, "from", from, "to", to)
	}
	return nil
}

// force moves the session along an edge without running a phase function.
func (d *Driver) force(st *step, to review.Phase) error {
	from := st.s.Phase
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", review.ErrIllegalTransition, from, to)
	}
	st.s.Phase = to
	if from != to {
		st.transitions = append(st.transitions, Transition{From: from, To: to})
	}
	return nil
}

// commit persists the step, archives terminal sessions and publishes messages.
func (d *Driver) commit(ctx context.Context, st *step) error {
	st.s.Version++
	if err := d.store.Save(ctx, st.s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if st.s.Phase.Terminal() {
		d.finish(ctx, st.s)
	}
	if d.notifier != nil {
		for _, u := range st.updates {
			d.notifier.Publish(ctx, u)
		}
	}
	return nil
}

// finish archives a terminal session and drops it from the live store. If the
// archive write fails the live copy stays so the session remains readable.
func (d *Driver) finish(ctx context.Context, s review.Session) {
	d.log.Info("review session closed", "session_id", s.ID, "phase", s.Phase,
		"answers", len(s.Answers), "evaluations", len(s.Evaluations), "last_error", s.LastError)
	if d.archiver == nil {
		return
	}
	if err := d.archiver.Archive(ctx, s); err != nil {
		d.log.Error("archive session failed", "session_id", s.ID, "error", err)
		return
	}
	if err := d.store.Delete(ctx, s.ID); err != nil {
		d.log.Warn("delete archived session failed", "session_id", s.ID, "error", err)
	}
}

// Snapshot returns the live session.
func (d *Driver) Snapshot(ctx context.Context, id string) (review.Session, error) {
	return d.store.Get(ctx, id)
}

func (d *Driver) observePhase(name, outcome string, dur time.Duration) {
	if d.metrics != nil {
		d.metrics.ObservePhase(name, outcome, dur)
	}
}

func (d *Driver) incEvent(kind, result string) {
	if d.metrics != nil {
		d.metrics.IncEvent(kind, result)
	}
}

func eventResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, review.ErrSessionNotFound):
		return "not_found"
	case errors.Is(err, review.ErrSessionClosed):
		return "closed"
	case errors.Is(err, review.ErrSessionConflict):
		return "conflict"
	case errors.Is(err, review.ErrInvalidEvent), errors.Is(err, review.ErrInvalidInput):
		return "rejected"
	default:
		return "error"
	}
}
