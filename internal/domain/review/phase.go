package review

// Phase is the session progression state tag.
type Phase string

const (
	PhaseInit               Phase = "INIT"
	PhaseUpload             Phase = "UPLOAD"
	PhaseParsing            Phase = "PARSING"
	PhaseAIDetection        Phase = "AI_DETECTION"
	PhaseQuestionGeneration Phase = "QUESTION_GENERATION"
	PhaseQuestioning        Phase = "QUESTIONING"
	PhaseReportGeneration   Phase = "REPORT_GENERATION"
	PhaseCompleted          Phase = "COMPLETED"
	PhaseError              Phase = "ERROR"
)

func (p Phase) String() string { return string(p) }

// Terminal reports whether no further transitions leave p.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseError
}

// Level is a question difficulty tier.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// Levels is the fixed progression order.
var Levels = []Level{LevelEasy, LevelMedium, LevelHard}

func (l Level) String() string { return string(l) }

func (l Level) Valid() bool {
	switch l {
	case LevelEasy, LevelMedium, LevelHard:
		return true
	default:
		return false
	}
}
