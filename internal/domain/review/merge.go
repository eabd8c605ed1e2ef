package review

// Apply merges d into a copy of s, field by field. Present fields replace the
// session's value entirely; append-only sequences arrive already extended.
// Next is ignored: phase changes go through the driver's transition check.
func (s Session) Apply(d Delta) Session {
	if d.Metadata != nil {
		m := *d.Metadata
		s.Metadata = &m
	}
	if d.Slides != nil {
		s.Slides = d.Slides
	}
	if d.QuestionsPool != nil {
		s.QuestionsPool = d.QuestionsPool
	}
	if d.QuestionsAsked != nil {
		s.QuestionsAsked = d.QuestionsAsked
	}
	if d.CurrentQuestion.Set {
		if d.CurrentQuestion.Value == nil {
			s.CurrentQuestion = nil
		} else {
			q := *d.CurrentQuestion.Value
			s.CurrentQuestion = &q
		}
	}
	if d.CurrentLevel != nil {
		s.CurrentLevel = *d.CurrentLevel
	}
	if d.Answers != nil {
		s.Answers = d.Answers
	}
	if d.Evaluations != nil {
		s.Evaluations = d.Evaluations
	}
	if d.AIDetection != nil {
		s.AIDetection = d.AIDetection
	}
	if d.FinalReport != nil {
		s.FinalReport = d.FinalReport
	}
	if d.ErrorCount != nil {
		s.ErrorCount = *d.ErrorCount
	}
	if d.LastError != nil {
		s.LastError = *d.LastError
	}
	if d.LastAIMessage != nil {
		s.LastAIMessage = *d.LastAIMessage
	}
	if d.SessionStartedAt != nil {
		t := *d.SessionStartedAt
		s.Timing.SessionStartedAt = &t
	}
	if d.QuestionStartedAt != nil {
		t := *d.QuestionStartedAt
		s.Timing.QuestionStartedAt = &t
	}
	if d.TotalDuration != nil {
		s.Timing.TotalDuration = *d.TotalDuration
	}
	return s
}
