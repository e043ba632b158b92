package models

import "time"

// Point sources recorded on ledger entries.
const (
	// PointSourceCourse marks points earned by completing a course.
	PointSourceCourse = "course"
	// PointSourceWebinar marks points earned by attending a webinar.
	PointSourceWebinar = "webinar"
	// PointSourceEvent marks points earned through a platform event.
	PointSourceEvent = "event"
	// PointSourceAchievement marks points granted for an achievement.
	PointSourceAchievement = "achievement"
	// PointSourceRedemption marks points spent on a reward redemption.
	PointSourceRedemption = "redemption"
)

// ValidPointSource reports whether a source value is one of the known enums.
func ValidPointSource(source string) bool {
	switch source {
	case PointSourceCourse, PointSourceWebinar, PointSourceEvent, PointSourceAchievement, PointSourceRedemption:
		return true
	default:
		return false
	}
}

// PointTransaction is an append-only ledger entry recording a point movement.
// Rows are never updated or deleted once written.
type PointTransaction struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"` // Owning user ID.

	Points int64  `gorm:"not null"`                 // Signed delta; negative for deductions.
	Source string `gorm:"type:text;not null;index"` // Origin of the movement (course, webinar, ...).

	SourceID    string `gorm:"type:text"` // Identifier of the originating entity.
	Description string `gorm:"type:text"` // Human-readable description.

	CreatedAt time.Time `gorm:"not null;index;autoCreateTime"` // Creation timestamp.
}
