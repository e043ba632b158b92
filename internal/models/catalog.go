package models

import "time"

// Course is a catalog entry referenced by addon rewards and purchases.
type Course struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Title     string `gorm:"type:text;not null"`    // Display title.
	Published bool   `gorm:"not null"` // Whether the course is visible.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// Webinar is a catalog entry referenced by addon rewards and purchases.
type Webinar struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Title     string `gorm:"type:text;not null"`    // Display title.
	Published bool   `gorm:"not null"` // Whether the webinar is visible.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
