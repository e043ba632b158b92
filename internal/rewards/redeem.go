// Package rewards runs the reward redemption pipeline: balance debit, ledger
// entry, and per-type fulfillment.
package rewards

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/learnloophq/learnloop-backend/internal/apperr"
	"github.com/learnloophq/learnloop-backend/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RedeemParams describes one redemption request.
type RedeemParams struct {
	UserID   uint64
	RewardID uint64
	// IdempotencyKey deduplicates retried requests. A request carrying a key
	// already seen for this user returns the stored outcome without charging
	// again. Optional.
	IdempotencyKey string
}

// RedeemResult reports the outcome of a redemption.
type RedeemResult struct {
	RedemptionID    uint64
	Status          string
	PointsRemaining int64
}

// Processor validates, debits, and fulfills reward redemptions.
type Processor struct {
	db *gorm.DB
}

// NewProcessor constructs a Processor.
func NewProcessor(db *gorm.DB) *Processor {
	return &Processor{db: db}
}

// Redeem exchanges points for a reward.
//
// The balance check and debit are a single conditional update, so two
// concurrent redemptions cannot both pass the check before either debits. The
// debit, the pending redemption record, and the negative ledger entry commit
// in one transaction. Fulfillment then runs; its outcome moves the redemption
// to completed or failed, never leaving it pending.
func (p *Processor) Redeem(ctx context.Context, params RedeemParams) (*RedeemResult, error) {
	if p == nil || p.db == nil {
		return nil, errors.New("rewards: processor not initialized")
	}

	key := strings.TrimSpace(params.IdempotencyKey)
	if key != "" {
		var existing models.Redemption
		errFind := p.db.WithContext(ctx).
			Where("user_id = ? AND idempotency_key = ?", params.UserID, key).
			First(&existing).Error
		if errFind == nil {
			balance, errBalance := p.balance(ctx, params.UserID)
			if errBalance != nil {
				return nil, apperr.Internal(errBalance)
			}
			return &RedeemResult{
				RedemptionID:    existing.ID,
				Status:          existing.Status,
				PointsRemaining: balance,
			}, nil
		}
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, apperr.Internal(errFind)
		}
	}

	var reward models.Reward
	if errFind := p.db.WithContext(ctx).First(&reward, params.RewardID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("reward %d not found", params.RewardID)
		}
		return nil, apperr.Internal(errFind)
	}
	if !reward.Available {
		return nil, apperr.FailedPrecondition("reward is not available")
	}

	var redemption models.Redemption
	errTx := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND total_points >= ?", params.UserID, reward.PointsCost).
			UpdateColumn("total_points", gorm.Expr("total_points - ?", reward.PointsCost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var user models.User
			errUser := tx.Select("id", "total_points").First(&user, params.UserID).Error
			if errors.Is(errUser, gorm.ErrRecordNotFound) {
				return apperr.NotFound("user %d not found", params.UserID)
			}
			if errUser != nil {
				return errUser
			}
			return apperr.FailedPrecondition("insufficient points: reward costs %d, balance is %d", reward.PointsCost, user.TotalPoints)
		}

		redemption = models.Redemption{
			UserID:     params.UserID,
			RewardID:   reward.ID,
			PointsCost: reward.PointsCost,
			Type:       reward.Type,
			Status:     models.RedemptionStatusPending,
		}
		if key != "" {
			redemption.IdempotencyKey = &key
		}
		if errCreate := tx.Create(&redemption).Error; errCreate != nil {
			return errCreate
		}

		entry := models.PointTransaction{
			UserID:      params.UserID,
			Points:      -reward.PointsCost,
			Source:      models.PointSourceRedemption,
			SourceID:    strconv.FormatUint(redemption.ID, 10),
			Description: "Redeemed reward: " + reward.Title,
		}
		return tx.Create(&entry).Error
	})
	if errTx != nil {
		var typed *apperr.Error
		if errors.As(errTx, &typed) {
			return nil, typed
		}
		log.WithError(errTx).Errorf("rewards: debit failed (user=%d reward=%d)", params.UserID, reward.ID)
		return nil, apperr.Internal(errTx)
	}

	if errFulfill := p.fulfill(ctx, &redemption, &reward); errFulfill != nil {
		log.WithError(errFulfill).Errorf("rewards: fulfillment failed (redemption=%d type=%s)", redemption.ID, reward.Type)
		if errMark := p.markFailed(ctx, redemption.ID, errFulfill.Error()); errMark != nil {
			log.WithError(errMark).Errorf("rewards: mark failed errored (redemption=%d)", redemption.ID)
		}
		return nil, apperr.Internal(errFulfill)
	}

	if errMark := p.markCompleted(ctx, &redemption); errMark != nil {
		log.WithError(errMark).Errorf("rewards: mark completed errored (redemption=%d)", redemption.ID)
		return nil, apperr.Internal(errMark)
	}

	balance, errBalance := p.balance(ctx, params.UserID)
	if errBalance != nil {
		return nil, apperr.Internal(errBalance)
	}
	return &RedeemResult{
		RedemptionID:    redemption.ID,
		Status:          models.RedemptionStatusCompleted,
		PointsRemaining: balance,
	}, nil
}

func (p *Processor) balance(ctx context.Context, userID uint64) (int64, error) {
	var user models.User
	if errFind := p.db.WithContext(ctx).Select("id", "total_points").First(&user, userID).Error; errFind != nil {
		return 0, errFind
	}
	return user.TotalPoints, nil
}

// markCompleted moves a pending redemption to completed, persisting any
// fulfillment fields set on the struct.
func (p *Processor) markCompleted(ctx context.Context, redemption *models.Redemption) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"status":       models.RedemptionStatusCompleted,
		"completed_at": now,
	}
	if redemption.GiftCardCode != "" {
		updates["gift_card_code"] = redemption.GiftCardCode
	}
	if redemption.ShippingOrderID != nil {
		updates["shipping_order_id"] = *redemption.ShippingOrderID
	}
	res := p.db.WithContext(ctx).Model(&models.Redemption{}).
		Where("id = ? AND status = ?", redemption.ID, models.RedemptionStatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("rewards: redemption is not pending")
	}
	redemption.Status = models.RedemptionStatusCompleted
	redemption.CompletedAt = &now
	return nil
}

// markFailed moves a pending redemption to failed and records the error text.
func (p *Processor) markFailed(ctx context.Context, redemptionID uint64, message string) error {
	res := p.db.WithContext(ctx).Model(&models.Redemption{}).
		Where("id = ? AND status = ?", redemptionID, models.RedemptionStatusPending).
		Updates(map[string]any{
			"status": models.RedemptionStatusFailed,
			"error":  message,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("rewards: redemption is not pending")
	}
	return nil
}
