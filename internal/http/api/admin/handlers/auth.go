package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/config"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"github.com/learnloophq/learnloop-backend/internal/security"
	"gorm.io/gorm"
)

// AuthHandler handles admin authentication endpoints.
type AuthHandler struct {
	db     *gorm.DB
	jwtCfg config.JWTConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{db: db, jwtCfg: jwtCfg}
}

// loginRequest defines the request body for admin login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an admin and issues a JWT. When no admin account exists
// yet, the first login bootstraps one with the supplied credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	username := strings.TrimSpace(body.Username)
	password := strings.TrimSpace(body.Password)
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var admin models.Admin
	errFind := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&admin).Error
	if errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		bootstrapped, errBootstrap := h.bootstrapFirstAdmin(c, username, password)
		if errBootstrap != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "bootstrap admin failed"})
			return
		}
		if bootstrapped == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		admin = *bootstrapped
	} else {
		if !admin.Active {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin account is disabled"})
			return
		}
		if !security.CheckPassword(admin.Password, password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
	}

	token, errToken := security.GenerateAdminToken(h.jwtCfg.Secret, admin.ID, admin.Username, h.jwtCfg.AdminExpiry())
	if errToken != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":       admin.ID,
			"username": admin.Username,
		},
	})
}

// bootstrapFirstAdmin creates the initial admin account when the table is
// empty. Returns nil without error when other admins already exist.
func (h *AuthHandler) bootstrapFirstAdmin(c *gin.Context, username, password string) (*models.Admin, error) {
	var count int64
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).Count(&count).Error; errCount != nil {
		return nil, errCount
	}
	if count > 0 {
		return nil, nil
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return nil, errHash
	}
	admin := models.Admin{
		Username: username,
		Password: hash,
		Active:   true,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&admin).Error; errCreate != nil {
		return nil, errCreate
	}
	return &admin, nil
}
