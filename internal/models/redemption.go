package models

import "time"

// Redemption statuses. A redemption transitions from pending to exactly one
// terminal status and never changes again.
const (
	// RedemptionStatusPending marks a redemption whose fulfillment has not finished.
	RedemptionStatusPending = "pending"
	// RedemptionStatusCompleted marks a successfully fulfilled redemption.
	RedemptionStatusCompleted = "completed"
	// RedemptionStatusFailed marks a redemption whose fulfillment raised an error.
	RedemptionStatusFailed = "failed"
)

// Redemption records one attempt to exchange points for a reward.
type Redemption struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID   uint64 `gorm:"not null;index"` // Redeeming user ID.
	RewardID uint64 `gorm:"not null;index"` // Redeemed reward ID.

	PointsCost int64  `gorm:"not null"`           // Points debited for this redemption.
	Type       string `gorm:"type:text;not null"` // Reward type at redemption time.

	Status string `gorm:"type:text;not null;index"` // pending, completed, or failed.

	IdempotencyKey *string `gorm:"uniqueIndex"` // Client-supplied dedupe token, if any.

	GiftCardCode    string  `gorm:"type:text"` // Issued gift card code, when fulfilled.
	ShippingOrderID *uint64 `gorm:"index"`     // Created shipping order for physical rewards.

	Error string `gorm:"type:text"` // Fulfillment error message, when failed.

	CreatedAt   time.Time  `gorm:"not null;autoCreateTime"` // Creation timestamp.
	CompletedAt *time.Time // Completion time, when fulfilled.
}
