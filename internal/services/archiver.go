package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/projectreview-backend/internal/data/repos"
	"github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

// ReviewArchiver persists terminal sessions to the archive table.
type ReviewArchiver struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ReviewArchiveRepo
}

func NewReviewArchiver(db *gorm.DB, log *logger.Logger, repo repos.ReviewArchiveRepo) *ReviewArchiver {
	return &ReviewArchiver{db: db, log: log.With("service", "ReviewArchiver"), repo: repo}
}

func (a *ReviewArchiver) Archive(ctx context.Context, s review.Session) error {
	rec, err := ArchiveRecord(s)
	if err != nil {
		return err
	}
	if err := a.repo.Upsert(ctx, a.db, rec); err != nil {
		return fmt.Errorf("archive session %s: %w", s.ID, err)
	}
	a.log.Debug("session archived", "session_id", s.ID, "phase", s.Phase)
	return nil
}

// ArchiveRecord flattens the reportable fields and keeps the full session as JSON.
func ArchiveRecord(s review.Session) (*review.ReviewArchive, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session snapshot: %w", err)
	}
	rec := &review.ReviewArchive{
		ID:             review.ArchiveID(s.ID),
		SessionID:      s.ID,
		CandidateName:  s.Candidate.Name,
		ProjectTitle:   s.Candidate.ProjectTitle,
		Phase:          s.Phase.String(),
		QuestionsAsked: len(s.QuestionsAsked),
		LastError:      s.LastError,
		Snapshot:       datatypes.JSON(raw),
		StartedAt:      s.Timing.SessionStartedAt,
		DurationSec:    s.Timing.TotalDuration.Seconds(),
	}
	if s.FinalReport != nil {
		rec.Recommendation = string(s.FinalReport.Recommendation)
		rec.AverageScore = s.FinalReport.AverageScore
	}
	return rec, nil
}

// SessionFromArchive restores the session stored in rec.Snapshot.
func SessionFromArchive(rec *review.ReviewArchive) (review.Session, error) {
	var s review.Session
	if rec == nil || len(rec.Snapshot) == 0 {
		return s, fmt.Errorf("archive has no snapshot")
	}
	if err := json.Unmarshal(rec.Snapshot, &s); err != nil {
		return s, fmt.Errorf("decode archived session: %w", err)
	}
	return s, nil
}
