package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"github.com/learnloophq/learnloop-backend/internal/rewards"
	"gorm.io/gorm"
)

// RewardsHandler serves the reward catalog and redemption endpoints.
type RewardsHandler struct {
	db        *gorm.DB
	processor *rewards.Processor
}

// NewRewardsHandler constructs a RewardsHandler.
func NewRewardsHandler(db *gorm.DB, processor *rewards.Processor) *RewardsHandler {
	return &RewardsHandler{db: db, processor: processor}
}

// rewardDTO defines the reward catalog response payload.
type rewardDTO struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	PointsCost  int64  `json:"points_cost"`
	Provider    string `json:"provider,omitempty"`
	AddonType   string `json:"addon_type,omitempty"`
}

// List returns the available reward catalog.
func (h *RewardsHandler) List(c *gin.Context) {
	var rows []models.Reward
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("available = ?", true).
		Order("points_cost ASC, id ASC").
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query rewards failed"})
		return
	}

	resp := make([]rewardDTO, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, rewardDTO{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Type:        row.Type,
			PointsCost:  row.PointsCost,
			Provider:    row.Provider,
			AddonType:   row.AddonType,
		})
	}
	c.JSON(http.StatusOK, gin.H{"rewards": resp})
}

// redeemRequest defines the request body for redeeming a reward.
type redeemRequest struct {
	RewardID       uint64 `json:"reward_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Redeem exchanges the caller's points for a reward.
func (h *RewardsHandler) Redeem(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body redeemRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.RewardID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing reward_id"})
		return
	}

	result, errRedeem := h.processor.Redeem(c.Request.Context(), rewards.RedeemParams{
		UserID:         userID,
		RewardID:       body.RewardID,
		IdempotencyKey: strings.TrimSpace(body.IdempotencyKey),
	})
	if errRedeem != nil {
		respondError(c, errRedeem)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"redemption_id":    result.RedemptionID,
		"status":           result.Status,
		"points_remaining": result.PointsRemaining,
	})
}

// redemptionDTO defines the redemption history response payload.
type redemptionDTO struct {
	ID           uint64     `json:"id"`
	RewardID     uint64     `json:"reward_id"`
	PointsCost   int64      `json:"points_cost"`
	Status       string     `json:"status"`
	GiftCardCode string     `json:"gift_card_code,omitempty"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Redemptions returns the caller's redemption history, newest first.
func (h *RewardsHandler) Redemptions(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	var rows []models.Redemption
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query redemptions failed"})
		return
	}

	resp := make([]redemptionDTO, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, redemptionDTO{
			ID:           row.ID,
			RewardID:     row.RewardID,
			PointsCost:   row.PointsCost,
			Status:       row.Status,
			GiftCardCode: row.GiftCardCode,
			Error:        row.Error,
			CreatedAt:    row.CreatedAt,
			CompletedAt:  row.CompletedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": resp})
}
