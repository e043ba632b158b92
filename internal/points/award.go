// Package points owns the append-only point ledger and the denormalized
// per-user balance derived from it.
package points

import (
	"context"
	"errors"
	"strings"

	"github.com/learnloophq/learnloop-backend/internal/apperr"
	"github.com/learnloophq/learnloop-backend/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AwardParams describes one point award or deduction.
type AwardParams struct {
	UserID      uint64
	Points      int64 // Signed; negative deducts.
	Source      string
	SourceID    string
	Description string
}

// Service appends ledger entries and keeps the denormalized balance in step.
type Service struct {
	db *gorm.DB
}

// NewService constructs a points Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Award writes one PointTransaction and applies the same delta to the user's
// balance. Both writes happen in a single database transaction, so the ledger
// and the balance cannot diverge. Returns the applied delta.
func (s *Service) Award(ctx context.Context, params AwardParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("points: service not initialized")
	}
	if params.Points == 0 {
		return 0, apperr.FailedPrecondition("points must be non-zero")
	}
	source := strings.TrimSpace(params.Source)
	if !models.ValidPointSource(source) {
		return 0, apperr.FailedPrecondition("unknown point source: %s", source)
	}

	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", params.UserID).
			UpdateColumn("total_points", gorm.Expr("total_points + ?", params.Points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("user %d not found", params.UserID)
		}

		entry := models.PointTransaction{
			UserID:      params.UserID,
			Points:      params.Points,
			Source:      source,
			SourceID:    strings.TrimSpace(params.SourceID),
			Description: strings.TrimSpace(params.Description),
		}
		return tx.Create(&entry).Error
	})
	if errTx != nil {
		var typed *apperr.Error
		if errors.As(errTx, &typed) {
			return 0, typed
		}
		log.WithError(errTx).Errorf("points: award failed (user=%d source=%s)", params.UserID, source)
		return 0, apperr.Internal(errTx)
	}

	return params.Points, nil
}
