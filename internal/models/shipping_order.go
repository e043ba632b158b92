package models

import (
	"time"

	"gorm.io/datatypes"
)

// ShippingOrder tracks a physical reward shipment.
type ShippingOrder struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID       uint64 `gorm:"not null;index"` // Receiving user ID.
	RedemptionID uint64 `gorm:"not null;index"` // Originating redemption ID.

	RewardTitle string         `gorm:"type:text;not null"`       // Reward title at order time.
	Address     datatypes.JSON `gorm:"type:jsonb;not null"`      // Shipping address snapshot.
	Status      string         `gorm:"type:text;not null;index"` // Shipment status (pending).

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
