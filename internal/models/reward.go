package models

import "time"

// Reward types.
const (
	// RewardTypeGiftCard is fulfilled by issuing a gift card code.
	RewardTypeGiftCard = "gift-card"
	// RewardTypeAddon is fulfilled by granting access to a course or webinar.
	RewardTypeAddon = "addon"
	// RewardTypePhysical is fulfilled by creating a shipping order.
	RewardTypePhysical = "physical"
)

// Addon types for addon rewards.
const (
	// AddonTypeCourse grants access to a course.
	AddonTypeCourse = "course"
	// AddonTypeWebinar grants access to a webinar recording.
	AddonTypeWebinar = "webinar"
)

// Reward is a redeemable catalog item priced in points.
type Reward struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Title       string `gorm:"type:text;not null"` // Display title.
	Description string `gorm:"type:text"`          // Display description.

	PointsCost int64  `gorm:"not null"`                 // Cost in points.
	Type       string `gorm:"type:text;not null;index"` // Fulfillment type (gift-card, addon, physical).

	// Available carries no column default: gorm omits zero-valued fields that
	// have one on insert, which would turn a stored false into true.
	Available bool `gorm:"not null"` // Whether the reward can currently be redeemed.

	Provider  string  `gorm:"type:text"` // Gift card provider name, when applicable.
	AddonType string  `gorm:"type:text"` // Addon kind (course, webinar), when applicable.
	CourseID  *uint64 `gorm:"index"`     // Granted course for course addons.
	WebinarID *uint64 `gorm:"index"`     // Granted webinar for webinar addons.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
