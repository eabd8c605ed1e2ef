package review

import "time"

// Candidate is the reviewed person and the project they declared. Immutable after INIT.
type Candidate struct {
	ID                 string `json:"id"`
	Name               string `json:"name" validate:"required,notblank,max=200"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	ProjectTitle       string `json:"project_title" validate:"required,notblank,max=300"`
	ProjectDescription string `json:"project_description,omitempty" validate:"max=5000"`
}

type PresentationMetadata struct {
	Filename   string `json:"filename"`
	Format     string `json:"format"`
	SlideCount int    `json:"slide_count"`
}

// Timing carries the session clock fields set or extended by phases.
type Timing struct {
	SessionStartedAt  *time.Time    `json:"session_started_at,omitempty"`
	QuestionStartedAt *time.Time    `json:"question_started_at,omitempty"`
	TotalDuration     time.Duration `json:"total_duration"`
}

// Session is the aggregate root of one review room.
type Session struct {
	ID        string                `json:"id"`
	Phase     Phase                 `json:"phase"`
	Candidate Candidate             `json:"candidate"`
	Metadata  *PresentationMetadata `json:"metadata,omitempty"`
	Slides    []string              `json:"slides,omitempty"`

	QuestionsPool   QuestionPool `json:"questions_pool,omitempty"`
	QuestionsAsked  []Question   `json:"questions_asked,omitempty"`
	CurrentQuestion *Question    `json:"current_question,omitempty"`
	CurrentLevel    Level        `json:"current_level,omitempty"`
	Answers         []Answer     `json:"answers,omitempty"`
	Evaluations     []Evaluation `json:"evaluations,omitempty"`

	AIDetection *AIDetection `json:"ai_detection,omitempty"`
	FinalReport *Report      `json:"final_report,omitempty"`

	ErrorCount    int    `json:"error_count"`
	LastError     string `json:"last_error,omitempty"`
	LastAIMessage string `json:"last_ai_message,omitempty"`

	Timing    Timing    `json:"timing"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// Version counts committed writes. Stores accept a save only when it is
	// exactly one past the stored copy.
	Version int64 `json:"version"`
}

// Upload is a presentation file received from the candidate.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ParsedPresentation is what the presentation parser returns.
type ParsedPresentation struct {
	Metadata PresentationMetadata `json:"metadata"`
	Slides   []string             `json:"slides"`
}
