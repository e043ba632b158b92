package models

import (
	"time"

	"gorm.io/datatypes"
)

// User represents a learner account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Email    string `gorm:"type:text;not null"`             // Contact email.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	DisplayName   string  `gorm:"type:text;not null"` // Name shown on leaderboards.
	InstitutionID *uint64 `gorm:"index"`              // Optional institution the user belongs to.

	TotalPoints int64 `gorm:"not null;default:0"` // Denormalized point balance.

	ShippingAddress datatypes.JSON `gorm:"type:jsonb"` // Stored shipping address, if any.

	TOTPSecret string `gorm:"type:text"` // TOTP secret for MFA.

	Disabled bool `gorm:"not null;default:false"` // Whether the account is blocked.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
