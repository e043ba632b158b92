package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/leaderboard"
)

// LeaderboardHandler handles admin leaderboard operations.
type LeaderboardHandler struct {
	computer *leaderboard.Computer
}

// NewLeaderboardHandler constructs a LeaderboardHandler.
func NewLeaderboardHandler(computer *leaderboard.Computer) *LeaderboardHandler {
	return &LeaderboardHandler{computer: computer}
}

// Compute recomputes all leaderboard snapshots immediately.
func (h *LeaderboardHandler) Compute(c *gin.Context) {
	if errCompute := h.computer.ComputeAll(c.Request.Context()); errCompute != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compute leaderboards failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
