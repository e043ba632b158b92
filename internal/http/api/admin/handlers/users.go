package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	dbutil "github.com/learnloophq/learnloop-backend/internal/db"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"gorm.io/gorm"
)

// UserHandler handles admin user management.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// userDTO defines the admin user list payload.
type userDTO struct {
	ID            uint64    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	InstitutionID *uint64   `json:"institution_id"`
	TotalPoints   int64     `json:"total_points"`
	Disabled      bool      `json:"disabled"`
	CreatedAt     time.Time `json:"created_at"`
}

// List returns users with optional search on username, email, or display name.
func (h *UserHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	query := h.db.WithContext(c.Request.Context()).Model(&models.User{})
	if search := c.Query("search"); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		query = query.Where(
			h.db.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "username"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "email"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "display_name"), pattern),
		)
	}

	var total int64
	if errCount := query.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count users failed"})
		return
	}

	var rows []models.User
	if errFind := query.
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query users failed"})
		return
	}

	resp := make([]userDTO, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, userDTO{
			ID:            row.ID,
			Username:      row.Username,
			Email:         row.Email,
			DisplayName:   row.DisplayName,
			InstitutionID: row.InstitutionID,
			TotalPoints:   row.TotalPoints,
			Disabled:      row.Disabled,
			CreatedAt:     row.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": resp, "total": total})
}

// setDisabledRequest defines the request body for toggling a user account.
type setDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

// SetDisabled enables or disables a user account.
func (h *UserHandler) SetDisabled(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var body setDisabledRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	result := h.db.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"disabled": body.Disabled, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update user failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
