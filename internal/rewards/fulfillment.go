package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"gorm.io/gorm"
)

// fulfill dispatches to the fulfillment strategy for the reward type and
// records the resulting artifacts on the redemption struct.
func (p *Processor) fulfill(ctx context.Context, redemption *models.Redemption, reward *models.Reward) error {
	switch reward.Type {
	case models.RewardTypeGiftCard:
		return p.fulfillGiftCard(redemption, reward)
	case models.RewardTypeAddon:
		return p.fulfillAddon(ctx, redemption, reward)
	case models.RewardTypePhysical:
		return p.fulfillPhysical(ctx, redemption, reward)
	default:
		return fmt.Errorf("unknown reward type: %s", reward.Type)
	}
}

// fulfillGiftCard issues a generated code. A provider integration would slot
// in here; the code format is timestamp plus a random suffix.
func (p *Processor) fulfillGiftCard(redemption *models.Redemption, _ *models.Reward) error {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	redemption.GiftCardCode = fmt.Sprintf("GC-%d-%s", time.Now().UTC().UnixMilli(), suffix)
	return nil
}

// fulfillAddon grants the course or webinar attached to the reward.
func (p *Processor) fulfillAddon(ctx context.Context, redemption *models.Redemption, reward *models.Reward) error {
	purchase := models.Purchase{
		UserID:       redemption.UserID,
		Source:       models.PointSourceRedemption,
		RedemptionID: &redemption.ID,
	}
	switch reward.AddonType {
	case models.AddonTypeCourse:
		if reward.CourseID == nil {
			return errors.New("addon reward has no course")
		}
		var count int64
		if errCount := p.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", *reward.CourseID).Count(&count).Error; errCount != nil {
			return errCount
		}
		if count == 0 {
			return fmt.Errorf("course %d not found", *reward.CourseID)
		}
		purchase.ItemType = models.AddonTypeCourse
		purchase.CourseID = reward.CourseID
	case models.AddonTypeWebinar:
		if reward.WebinarID == nil {
			return errors.New("addon reward has no webinar")
		}
		var count int64
		if errCount := p.db.WithContext(ctx).Model(&models.Webinar{}).Where("id = ?", *reward.WebinarID).Count(&count).Error; errCount != nil {
			return errCount
		}
		if count == 0 {
			return fmt.Errorf("webinar %d not found", *reward.WebinarID)
		}
		purchase.ItemType = models.AddonTypeWebinar
		purchase.WebinarID = reward.WebinarID
	default:
		return fmt.Errorf("unknown addon type: %s", reward.AddonType)
	}
	return p.db.WithContext(ctx).Create(&purchase).Error
}

// fulfillPhysical creates a shipping order from the user's stored address.
func (p *Processor) fulfillPhysical(ctx context.Context, redemption *models.Redemption, reward *models.Reward) error {
	var user models.User
	errFind := p.db.WithContext(ctx).
		Select("id", "shipping_address").
		First(&user, redemption.UserID).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return errors.New("User shipping address not found")
	}
	if errFind != nil {
		return errFind
	}
	address := strings.TrimSpace(string(user.ShippingAddress))
	if address == "" || address == "null" {
		return errors.New("User shipping address not found")
	}

	order := models.ShippingOrder{
		UserID:       redemption.UserID,
		RedemptionID: redemption.ID,
		RewardTitle:  reward.Title,
		Address:      user.ShippingAddress,
		Status:       "pending",
	}
	if errCreate := p.db.WithContext(ctx).Create(&order).Error; errCreate != nil {
		return errCreate
	}
	redemption.ShippingOrderID = &order.ID
	return nil
}
