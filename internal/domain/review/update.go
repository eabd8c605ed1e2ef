package review

import "time"

// Update is one candidate-facing utterance, published to stream subscribers
// and handed to speech synthesis downstream.
type Update struct {
	SessionID string    `json:"session_id"`
	Phase     Phase     `json:"phase"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}
