// Package pool selects questions from a generated pool and decides when a
// difficulty level has been exhausted.
package pool

import (
	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/modules/review/policy"
)

// NextQuestion returns the first question at level whose id is not in asked,
// in pool insertion order.
func NextQuestion(p review.QuestionPool, level review.Level, asked []review.Question) (review.Question, bool) {
	seen := askedIDs(asked)
	for _, q := range p[level] {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		return q, true
	}
	return review.Question{}, false
}

// IsFirstOfLevel is true when nothing at level has been asked yet.
func IsFirstOfLevel(asked []review.Question, level review.Level) bool {
	return AskedAtLevel(asked, level) == 0
}

// AskedAtLevel counts asked questions at level.
func AskedAtLevel(asked []review.Question, level review.Level) int {
	n := 0
	for _, q := range asked {
		if q.Level == level {
			n++
		}
	}
	return n
}

// LevelComplete is true once the level asked its minimum, or ran out of questions.
func LevelComplete(level review.Level, asked []review.Question, available int) bool {
	n := AskedAtLevel(asked, level)
	return n >= policy.MinQuestionsPerLevel || n >= available
}

// NextLevel follows easy -> medium -> hard. ok is false after hard.
func NextLevel(level review.Level) (review.Level, bool) {
	for i, l := range review.Levels {
		if l == level && i+1 < len(review.Levels) {
			return review.Levels[i+1], true
		}
	}
	return "", false
}

// LevelIndex is the position of level in the progression, -1 when unknown.
func LevelIndex(level review.Level) int {
	for i, l := range review.Levels {
		if l == level {
			return i
		}
	}
	return -1
}

func askedIDs(asked []review.Question) map[string]struct{} {
	out := make(map[string]struct{}, len(asked))
	for _, q := range asked {
		out[q.ID] = struct{}{}
	}
	return out
}
