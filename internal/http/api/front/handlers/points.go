package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/apperr"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"github.com/learnloophq/learnloop-backend/internal/points"
	"gorm.io/gorm"
)

// PointsHandler serves balance, history, and award endpoints.
type PointsHandler struct {
	db  *gorm.DB
	svc *points.Service
}

// NewPointsHandler constructs a PointsHandler.
func NewPointsHandler(db *gorm.DB, svc *points.Service) *PointsHandler {
	return &PointsHandler{db: db, svc: svc}
}

// Balance returns the caller's current point balance.
func (h *PointsHandler) Balance(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).Select("id", "total_points", "updated_at").First(&user, userID).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query user failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_points": user.TotalPoints,
		"updated_at":   user.UpdatedAt,
	})
}

// transactionDTO defines the ledger entry response payload.
type transactionDTO struct {
	ID          uint64    `json:"id"`
	Points      int64     `json:"points"`
	Source      string    `json:"source"`
	SourceID    string    `json:"source_id,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Transactions returns the caller's ledger history, newest first.
func (h *PointsHandler) Transactions(c *gin.Context) {
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

	var total int64
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.PointTransaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count transactions failed"})
		return
	}

	var rows []models.PointTransaction
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query transactions failed"})
		return
	}

	resp := make([]transactionDTO, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, transactionDTO{
			ID:          row.ID,
			Points:      row.Points,
			Source:      row.Source,
			SourceID:    row.SourceID,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"transactions": resp, "total": total})
}

// awardRequest defines the request body for awarding points.
type awardRequest struct {
	UserID      uint64 `json:"user_id"`
	Points      int64  `json:"points"`
	Source      string `json:"source"`
	SourceID    string `json:"source_id"`
	Description string `json:"description"`
}

// Award applies a point delta to the caller's own balance. Awards targeting
// another user are rejected; administrators use the admin API instead.
func (h *PointsHandler) Award(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body awardRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.UserID == 0 {
		body.UserID = userID
	}
	if body.UserID != userID {
		respondError(c, apperr.PermissionDenied("cannot award points to another user"))
		return
	}

	applied, errAward := h.svc.Award(c.Request.Context(), points.AwardParams{
		UserID:      body.UserID,
		Points:      body.Points,
		Source:      body.Source,
		SourceID:    body.SourceID,
		Description: body.Description,
	})
	if errAward != nil {
		respondError(c, errAward)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "points": applied})
}
