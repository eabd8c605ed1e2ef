package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/projectreview-backend/internal/data/repos"
	"github.com/yungbote/projectreview-backend/internal/platform/logger"
)

type Repos struct {
	// ReviewArchive is nil when the app runs without a database.
	ReviewArchive repos.ReviewArchiveRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	if db == nil {
		log.Warn("No database configured; review archive disabled")
		return Repos{}
	}
	return Repos{
		ReviewArchive: repos.NewReviewArchiveRepo(db, log),
	}
}
