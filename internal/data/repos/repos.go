package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/projectreview-backend/internal/data/repos/review"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

type ReviewArchiveRepo = review.ArchiveRepo

func NewReviewArchiveRepo(db *gorm.DB, baseLog *logger.Logger) ReviewArchiveRepo {
	return review.NewArchiveRepo(db, baseLog)
}
