package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/apperr"
	"github.com/learnloophq/learnloop-backend/internal/points"
)

// PointsHandler handles admin point adjustments.
type PointsHandler struct {
	svc *points.Service
}

// NewPointsHandler constructs a PointsHandler.
func NewPointsHandler(svc *points.Service) *PointsHandler {
	return &PointsHandler{svc: svc}
}

// awardRequest defines the request body for awarding points to any user.
type awardRequest struct {
	UserID      uint64 `json:"user_id"`
	Points      int64  `json:"points"`
	Source      string `json:"source"`
	SourceID    string `json:"source_id"`
	Description string `json:"description"`
}

// Award applies a point delta to any user's balance.
func (h *PointsHandler) Award(c *gin.Context) {
	if getAdminID(c) == 0 {
		respondError(c, apperr.Unauthenticated("unauthorized"))
		return
	}

	var body awardRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_id"})
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
