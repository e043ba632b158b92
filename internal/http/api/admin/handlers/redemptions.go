package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"gorm.io/gorm"
)

// RedemptionHandler handles admin redemption queries.
type RedemptionHandler struct {
	db *gorm.DB
}

// NewRedemptionHandler constructs a RedemptionHandler.
func NewRedemptionHandler(db *gorm.DB) *RedemptionHandler {
	return &RedemptionHandler{db: db}
}

// List returns redemptions across all users, newest first. Results can be
// filtered by status and user_id.
func (h *RedemptionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	query := h.db.WithContext(c.Request.Context()).Model(&models.Redemption{})
	if status := c.Query("status"); status != "" {
		if status != models.RedemptionStatusPending &&
			status != models.RedemptionStatusCompleted &&
			status != models.RedemptionStatusFailed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		query = query.Where("status = ?", status)
	}
	if rawUserID := c.Query("user_id"); rawUserID != "" {
		userID, errParse := strconv.ParseUint(rawUserID, 10, 64)
		if errParse != nil || userID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if errCount := query.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count redemptions failed"})
		return
	}

	var rows []models.Redemption
	if errFind := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query redemptions failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": rows, "total": total})
}
