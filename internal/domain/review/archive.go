package review

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReviewArchive is the persisted record of a session that reached a terminal phase.
type ReviewArchive struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID      string         `gorm:"column:session_id;not null;uniqueIndex" json:"session_id"`
	CandidateName  string         `gorm:"column:candidate_name;not null" json:"candidate_name"`
	ProjectTitle   string         `gorm:"column:project_title;not null" json:"project_title"`
	Phase          string         `gorm:"column:phase;not null;index" json:"phase"`
	Recommendation string         `gorm:"column:recommendation;index" json:"recommendation,omitempty"`
	AverageScore   float64        `gorm:"column:average_score" json:"average_score"`
	QuestionsAsked int            `gorm:"column:questions_asked" json:"questions_asked"`
	LastError      string         `gorm:"column:last_error" json:"last_error,omitempty"`
	Snapshot       datatypes.JSON `gorm:"column:snapshot" json:"snapshot"`
	StartedAt      *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	DurationSec    float64        `gorm:"column:duration_sec" json:"duration_sec"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReviewArchive) TableName() string { return "review_archive" }

var archiveNamespace = uuid.MustParse("6f1c3b2e-5a0d-4f8e-9b7a-2d4c8e1f0a93")

// ArchiveID derives a stable primary key from the session id so re-archiving
// the same session maps to the same row.
func ArchiveID(sessionID string) uuid.UUID {
	return uuid.NewSHA1(archiveNamespace, []byte(sessionID))
}
