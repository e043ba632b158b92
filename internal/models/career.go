package models

import (
	"time"

	"gorm.io/datatypes"
)

// Career is a seeded careers-explorer entry.
type Career struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Title       string `gorm:"type:text;not null;uniqueIndex"` // Career title.
	Field       string `gorm:"type:text;not null;index"`       // Broad field (technology, health, ...).
	Description string `gorm:"type:text"`                      // Short description.

	SalaryMin int64 `gorm:"not null;default:0"` // Lower annual salary bound.
	SalaryMax int64 `gorm:"not null;default:0"` // Upper annual salary bound.

	Tags datatypes.JSON `gorm:"type:jsonb"` // Free-form tag list.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
