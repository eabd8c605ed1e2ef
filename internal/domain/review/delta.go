package review

import "time"

// QuestionField distinguishes "leave CurrentQuestion alone" from "set it (possibly to nil)".
type QuestionField struct {
	Set   bool
	Value *Question
}

func SetQuestion(q *Question) QuestionField { return QuestionField{Set: true, Value: q} }
func ClearQuestion() QuestionField          { return QuestionField{Set: true} }

// Delta is the partial state update a phase returns. Nil / unset fields are absent
// and leave the session untouched; present fields replace the session field
// entirely. Append-only sequences are returned as the full new sequence.
type Delta struct {
	// Next requests a phase transition. Only the driver writes Session.Phase.
	Next *Phase

	Metadata        *PresentationMetadata
	Slides          []string
	QuestionsPool   QuestionPool
	QuestionsAsked  []Question
	CurrentQuestion QuestionField
	CurrentLevel    *Level
	Answers         []Answer
	Evaluations     []Evaluation
	AIDetection     *AIDetection
	FinalReport     *Report

	ErrorCount    *int
	LastError     *string
	LastAIMessage *string

	SessionStartedAt  *time.Time
	QuestionStartedAt *time.Time
	TotalDuration     *time.Duration
}

// Empty reports whether the delta carries no change at all.
func (d Delta) Empty() bool {
	return d.Next == nil &&
		d.Metadata == nil &&
		d.Slides == nil &&
		d.QuestionsPool == nil &&
		d.QuestionsAsked == nil &&
		!d.CurrentQuestion.Set &&
		d.CurrentLevel == nil &&
		d.Answers == nil &&
		d.Evaluations == nil &&
		d.AIDetection == nil &&
		d.FinalReport == nil &&
		d.ErrorCount == nil &&
		d.LastError == nil &&
		d.LastAIMessage == nil &&
		d.SessionStartedAt == nil &&
		d.QuestionStartedAt == nil &&
		d.TotalDuration == nil
}

// Ptr is a small helper for building deltas.
func Ptr[T any](v T) *T { return &v }
