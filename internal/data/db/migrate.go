package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&review.ReviewArchive{},
	)
}

func (s *Service) AutoMigrateAll() error {
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("auto migrate failed", "error", err)
		return err
	}
	return nil
}
