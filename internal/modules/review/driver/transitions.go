package driver

import "github.com/yungbote/projectreview-backend/internal/domain/review"

// edges is the legal phase graph. PARSING -> UPLOAD is the parse retry path;
// UPLOAD -> COMPLETED is an end event before any slides were received.
var edges = map[review.Phase][]review.Phase{
	review.PhaseInit:               {review.PhaseUpload},
	review.PhaseUpload:             {review.PhaseParsing, review.PhaseCompleted},
	review.PhaseParsing:            {review.PhaseAIDetection, review.PhaseUpload},
	review.PhaseAIDetection:        {review.PhaseQuestionGeneration},
	review.PhaseQuestionGeneration: {review.PhaseQuestioning, review.PhaseError},
	review.PhaseQuestioning:        {review.PhaseReportGeneration},
	review.PhaseReportGeneration:   {review.PhaseCompleted, review.PhaseError},
}

// CanTransition reports whether from -> to is an edge. Staying put is always allowed.
func CanTransition(from, to review.Phase) bool {
	if from == to {
		return true
	}
	for _, p := range edges[from] {
		if p == to {
			return true
		}
	}
	return false
}
