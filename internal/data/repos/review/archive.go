package review

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/projectreview-backend/internal/domain/review"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

type ArchiveRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, rec *domain.ReviewArchive) error
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID string) (*domain.ReviewArchive, error)
	ListRecent(ctx context.Context, tx *gorm.DB, recommendation string, limit int) ([]*domain.ReviewArchive, error)
}

type archiveRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArchiveRepo(db *gorm.DB, baseLog *logger.Logger) ArchiveRepo {
	repoLog := baseLog.With("repo", "ReviewArchiveRepo")
	return &archiveRepo{db: db, log: repoLog}
}

// Upsert writes rec keyed by session id; a second archive of the same session
// replaces the first.
func (r *archiveRepo) Upsert(ctx context.Context, tx *gorm.DB, rec *domain.ReviewArchive) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if rec == nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"candidate_name", "project_title", "phase", "recommendation",
				"average_score", "questions_asked", "last_error", "snapshot",
				"started_at", "duration_sec", "updated_at",
			}),
		}).
		Create(rec).Error
}

// GetBySessionID returns domain.ErrSessionNotFound when nothing was archived.
func (r *archiveRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID string) (*domain.ReviewArchive, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rec domain.ReviewArchive
	err := transaction.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *archiveRepo) ListRecent(ctx context.Context, tx *gorm.DB, recommendation string, limit int) ([]*domain.ReviewArchive, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := transaction.WithContext(ctx).Model(&domain.ReviewArchive{})
	if rec := strings.TrimSpace(recommendation); rec != "" {
		q = q.Where("recommendation = ?", rec)
	}
	var results []*domain.ReviewArchive
	if err := q.Order("created_at DESC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
