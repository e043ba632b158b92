package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/models"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"
)

// pendingSecretTTL bounds how long an unconfirmed TOTP secret stays valid.
const pendingSecretTTL = 10 * time.Minute

// secretEntry stores a TOTP secret with expiry.
type secretEntry struct {
	secret    string
	expiresAt time.Time
}

// secretStore keeps temporary TOTP secrets in memory until confirmed.
type secretStore struct {
	mu      sync.Mutex
	entries map[string]secretEntry
}

func newSecretStore() *secretStore {
	return &secretStore{entries: map[string]secretEntry{}}
}

func (s *secretStore) Set(key, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = secretEntry{secret: secret, expiresAt: time.Now().Add(pendingSecretTTL)}
}

func (s *secretStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	return entry.secret, true
}

func (s *secretStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// totpPendingSecrets stores pending TOTP secrets awaiting confirmation.
var totpPendingSecrets = newSecretStore()

// MFAHandler manages TOTP enrollment for user accounts.
type MFAHandler struct {
	db *gorm.DB
}

// NewMFAHandler constructs an MFAHandler.
func NewMFAHandler(db *gorm.DB) *MFAHandler {
	return &MFAHandler{db: db}
}

// Status reports whether TOTP is enabled for the caller.
func (h *MFAHandler) Status(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).Select("id", "totp_secret").First(&user, userID).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query user failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totp_enabled": strings.TrimSpace(user.TOTPSecret) != ""})
}

// PrepareTOTP generates a new TOTP secret for confirmation.
func (h *MFAHandler) PrepareTOTP(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).Select("id", "username").First(&user, userID).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query user failed"})
		return
	}

	key, errGenerate := totp.Generate(totp.GenerateOpts{
		Issuer:      "LearnLoop",
		AccountName: user.Username,
	})
	if errGenerate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generate totp secret failed"})
		return
	}

	totpPendingSecrets.Set(fmt.Sprintf("%d", user.ID), key.Secret())
	c.JSON(http.StatusOK, gin.H{
		"secret": key.Secret(),
		"url":    key.URL(),
	})
}

// totpConfirmRequest defines the request body for confirming TOTP.
type totpConfirmRequest struct {
	Code string `json:"code"`
}

// ConfirmTOTP validates a code against the pending secret and enables TOTP.
func (h *MFAHandler) ConfirmTOTP(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body totpConfirmRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	code := strings.TrimSpace(body.Code)
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	secret, ok := totpPendingSecrets.Get(fmt.Sprintf("%d", userID))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "totp setup expired"})
		return
	}
	if !totp.Validate(code, secret) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid code"})
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"totp_secret": secret, "updated_at": time.Now().UTC()}).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enable totp failed"})
		return
	}

	totpPendingSecrets.Delete(fmt.Sprintf("%d", userID))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DisableTOTP removes the caller's TOTP secret.
func (h *MFAHandler) DisableTOTP(c *gin.Context) {
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"totp_secret": "",
			"updated_at":  time.Now().UTC(),
		}).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "disable totp failed"})
		return
	}

	totpPendingSecrets.Delete(fmt.Sprintf("%d", userID))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
