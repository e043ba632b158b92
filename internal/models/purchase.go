package models

import "time"

// Purchase grants a user access to a course or webinar recording.
type Purchase struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"` // Owning user ID.

	ItemType  string  `gorm:"type:text;not null"` // Granted item kind (course, webinar).
	CourseID  *uint64 `gorm:"index"`              // Granted course, when applicable.
	WebinarID *uint64 `gorm:"index"`              // Granted webinar, when applicable.

	Source       string  `gorm:"type:text;not null"` // How the purchase was acquired (redemption).
	RedemptionID *uint64 `gorm:"index"`              // Originating redemption, when applicable.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
