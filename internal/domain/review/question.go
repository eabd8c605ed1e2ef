package review

import "time"

type Question struct {
	ID    string `json:"id" validate:"required"`
	Level Level  `json:"level" validate:"required,oneof=easy medium hard"`
	Text  string `json:"text" validate:"required,notblank"`
}

// QuestionPool maps a level to its questions in insertion order.
type QuestionPool map[Level][]Question

// Total counts questions across all levels.
func (p QuestionPool) Total() int {
	n := 0
	for _, qs := range p {
		n += len(qs)
	}
	return n
}

// Lookup finds a question by id across all levels.
func (p QuestionPool) Lookup(id string) (Question, bool) {
	for _, qs := range p {
		for _, q := range qs {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// Answer is recorded once per asked question, including skipped ones.
type Answer struct {
	QuestionID string    `json:"question_id"`
	Transcript string    `json:"transcript"`
	Duration   float64   `json:"duration"`
	Timestamp  time.Time `json:"timestamp"`
	Skipped    bool      `json:"skipped,omitempty"`
}

type Evaluation struct {
	QuestionID      string   `json:"question_id" validate:"required"`
	Score           float64  `json:"score" validate:"gte=0,lte=10"`
	FlaggedConcerns []string `json:"flagged_concerns,omitempty"`
	Rationale       string   `json:"rationale,omitempty"`
}
