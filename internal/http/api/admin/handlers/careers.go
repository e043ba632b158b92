package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/seed"
	"gorm.io/gorm"
)

// CareerSeedHandler handles loading and inspecting the careers catalog.
type CareerSeedHandler struct {
	db *gorm.DB
}

// NewCareerSeedHandler constructs a CareerSeedHandler.
func NewCareerSeedHandler(db *gorm.DB) *CareerSeedHandler {
	return &CareerSeedHandler{db: db}
}

// Seed inserts the embedded career catalog. Repeated calls insert nothing once
// the table is populated.
func (h *CareerSeedHandler) Seed(c *gin.Context) {
	inserted, errSeed := seed.Careers(c.Request.Context(), h.db)
	if errSeed != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "seed careers failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}

// Status reports how many careers are currently stored.
func (h *CareerSeedHandler) Status(c *gin.Context) {
	count, errCount := seed.CareerCount(c.Request.Context(), h.db)
	if errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count careers failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "seeded": count > 0})
}
