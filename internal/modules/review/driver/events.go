package driver

import (
	"fmt"
	"unicode/utf8"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
)

type EventKind string

const (
	EventUpload EventKind = "upload"
	EventAnswer EventKind = "answer"
	EventSkip   EventKind = "skip"
	EventEnd    EventKind = "end"
)

// MaxTranscriptRunes bounds a single answer transcript.
const MaxTranscriptRunes = 20000

// Event is one external input for a session.
type Event struct {
	Kind       EventKind
	Upload     *review.Upload
	Transcript string
}

func UploadEvent(u review.Upload) Event   { return Event{Kind: EventUpload, Upload: &u} }
func AnswerEvent(transcript string) Event { return Event{Kind: EventAnswer, Transcript: transcript} }
func SkipEvent() Event                    { return Event{Kind: EventSkip} }
func EndEvent() Event                     { return Event{Kind: EventEnd} }

// Validate rejects malformed events before they reach the session.
func (e Event) Validate() error {
	switch e.Kind {
	case EventUpload, EventSkip, EventEnd:
		return nil
	case EventAnswer:
		if utf8.RuneCountInString(e.Transcript) > MaxTranscriptRunes {
			return fmt.Errorf("%w: transcript longer than %d characters", review.ErrInvalidInput, MaxTranscriptRunes)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown event kind %q", review.ErrInvalidInput, e.Kind)
	}
}

// accepts reports whether an event of kind k is meaningful in phase p.
func accepts(k EventKind, p review.Phase) bool {
	switch k {
	case EventUpload:
		return p == review.PhaseUpload
	case EventAnswer, EventSkip:
		return p == review.PhaseQuestioning
	case EventEnd:
		return p == review.PhaseUpload || p == review.PhaseQuestioning
	default:
		return false
	}
}
