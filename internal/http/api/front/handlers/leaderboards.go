package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/leaderboard"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"gorm.io/gorm"
)

// LeaderboardHandler serves leaderboard snapshot reads.
type LeaderboardHandler struct {
	db    *gorm.DB
	cache *leaderboard.Cache
}

// NewLeaderboardHandler constructs a LeaderboardHandler. The cache may be nil.
func NewLeaderboardHandler(db *gorm.DB, cache *leaderboard.Cache) *LeaderboardHandler {
	return &LeaderboardHandler{db: db, cache: cache}
}

// snapshotResponse defines the leaderboard response payload.
type snapshotResponse struct {
	Type         string                    `json:"type"`
	Entries      []models.LeaderboardEntry `json:"entries"`
	TotalEntries int                       `json:"total_entries"`
	ComputedAt   string                    `json:"computed_at"`
}

// Get returns the latest snapshot for a leaderboard type, reading through the
// cache when one is configured.
func (h *LeaderboardHandler) Get(c *gin.Context) {
	typ := c.Param("type")
	if !models.ValidLeaderboardType(typ) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown leaderboard type"})
		return
	}

	if payload, ok := h.cache.Get(c.Request.Context(), typ); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}

	var snapshot models.LeaderboardSnapshot
	if errFind := h.db.WithContext(c.Request.Context()).Where("type = ?", typ).First(&snapshot).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, snapshotResponse{Type: typ, Entries: []models.LeaderboardEntry{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query snapshot failed"})
		return
	}

	var entries []models.LeaderboardEntry
	if errUnmarshal := json.Unmarshal(snapshot.Entries, &entries); errUnmarshal != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "decode snapshot failed"})
		return
	}

	resp := snapshotResponse{
		Type:         snapshot.Type,
		Entries:      entries,
		TotalEntries: snapshot.TotalEntries,
		ComputedAt:   snapshot.ComputedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	payload, errMarshal := json.Marshal(resp)
	if errMarshal != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode snapshot failed"})
		return
	}

	h.cache.Set(c.Request.Context(), typ, payload)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
