package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
)

func SeedArchive(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID string, rec review.Recommendation) *review.ReviewArchive {
	tb.Helper()
	started := time.Now().Add(-10 * time.Minute).UTC()
	a := &review.ReviewArchive{
		ID:             uuid.New(),
		SessionID:      sessionID,
		CandidateName:  "Ada",
		ProjectTitle:   "Loom",
		Phase:          string(review.PhaseCompleted),
		Recommendation: string(rec),
		AverageScore:   7,
		QuestionsAsked: 4,
		Snapshot:       datatypes.JSON([]byte("{}")),
		StartedAt:      &started,
		DurationSec:    600,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed archive: %v", err)
	}
	return a
}
