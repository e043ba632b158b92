package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"gorm.io/gorm"
)

// RewardHandler handles admin operations for the reward catalog.
type RewardHandler struct {
	db *gorm.DB // Database handle for reward queries.
}

// NewRewardHandler wires a reward handler with its database dependency.
func NewRewardHandler(db *gorm.DB) *RewardHandler {
	return &RewardHandler{db: db}
}

// createRewardRequest captures the payload for creating a reward.
type createRewardRequest struct {
	Title       string  `json:"title"`       // Display title.
	Description string  `json:"description"` // Display description.
	Type        string  `json:"type"`        // Fulfillment type.
	PointsCost  int64   `json:"points_cost"` // Cost in points.
	Available   *bool   `json:"available"`   // Optional availability flag.
	Provider    string  `json:"provider"`    // Gift card provider.
	AddonType   string  `json:"addon_type"`  // Addon kind.
	CourseID    *uint64 `json:"course_id"`   // Granted course.
	WebinarID   *uint64 `json:"webinar_id"`  // Granted webinar.
}

// validateRewardType reports whether the type and its type-specific fields are
// consistent.
func validateRewardType(typ, addonType string) string {
	switch typ {
	case models.RewardTypeGiftCard, models.RewardTypePhysical:
		return ""
	case models.RewardTypeAddon:
		if addonType != models.AddonTypeCourse && addonType != models.AddonTypeWebinar {
			return "addon rewards require addon_type course or webinar"
		}
		return ""
	default:
		return "type must be gift-card, addon, or physical"
	}
}

// Create validates input and persists a new reward.
func (h *RewardHandler) Create(c *gin.Context) {
	var body createRewardRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing title"})
		return
	}
	if body.PointsCost <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "points_cost must be positive"})
		return
	}
	if msg := validateRewardType(body.Type, body.AddonType); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	available := true
	if body.Available != nil {
		available = *body.Available
	}
	reward := models.Reward{
		Title:       title,
		Description: strings.TrimSpace(body.Description),
		Type:        body.Type,
		PointsCost:  body.PointsCost,
		Available:   available,
		Provider:    strings.TrimSpace(body.Provider),
		AddonType:   body.AddonType,
		CourseID:    body.CourseID,
		WebinarID:   body.WebinarID,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&reward).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create reward failed"})
		return
	}
	c.JSON(http.StatusCreated, reward)
}

// List returns the full reward catalog, including unavailable rewards.
func (h *RewardHandler) List(c *gin.Context) {
	var rows []models.Reward
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("id ASC").
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query rewards failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": rows})
}

// updateRewardRequest captures the payload for updating a reward.
type updateRewardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PointsCost  *int64  `json:"points_cost"`
	Available   *bool   `json:"available"`
	Provider    *string `json:"provider"`
}

// Update applies partial changes to a reward.
func (h *RewardHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward id"})
		return
	}

	var body updateRewardRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title must not be empty"})
			return
		}
		updates["title"] = title
	}
	if body.Description != nil {
		updates["description"] = strings.TrimSpace(*body.Description)
	}
	if body.PointsCost != nil {
		if *body.PointsCost <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "points_cost must be positive"})
			return
		}
		updates["points_cost"] = *body.PointsCost
	}
	if body.Available != nil {
		updates["available"] = *body.Available
	}
	if body.Provider != nil {
		updates["provider"] = strings.TrimSpace(*body.Provider)
	}

	result := h.db.WithContext(c.Request.Context()).Model(&models.Reward{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update reward failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
		return
	}

	var reward models.Reward
	if errFind := h.db.WithContext(c.Request.Context()).First(&reward, id).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query reward failed"})
		return
	}
	c.JSON(http.StatusOK, reward)
}

// Delete removes a reward from the catalog. Past redemptions keep their own
// copy of the cost and type, so deletion does not affect history.
func (h *RewardHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward id"})
		return
	}

	var reward models.Reward
	if errFind := h.db.WithContext(c.Request.Context()).First(&reward, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query reward failed"})
		return
	}

	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&reward).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete reward failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
