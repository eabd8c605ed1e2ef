package review

import "errors"

var (
	ErrSessionNotFound = errors.New("review session not found")
	ErrSessionExists   = errors.New("review session already exists")
	// ErrSessionConflict means the session was saved by another writer since it was read.
	ErrSessionConflict = errors.New("review session modified concurrently")
	// ErrSessionClosed is returned for events sent to a COMPLETED or ERROR session.
	ErrSessionClosed = errors.New("review session closed")
	// ErrInvalidEvent means the event does not apply to the session's current phase.
	ErrInvalidEvent = errors.New("event not valid in current phase")
	ErrInvalidInput = errors.New("invalid input")
	// ErrIllegalTransition is a programming error: a phase asked for an edge the graph does not have.
	ErrIllegalTransition = errors.New("illegal phase transition")
)
