package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/apperr"
)

// getUserID extracts the user ID from gin context.
func getUserID(c *gin.Context) uint64 {
	val, exists := c.Get("userID")
	if !exists {
		return 0
	}
	switch v := val.(type) {
	case uint64:
		return v
	case int64:
		return uint64(v)
	case uint:
		return uint64(v)
	case int:
		return uint64(v)
	default:
		return 0
	}
}

// respondError maps a service error to an HTTP response. Unclassified errors
// surface as a generic internal error; the cause stays server-side.
func respondError(c *gin.Context, err error) {
	switch apperr.CodeOf(err) {
	case apperr.CodeUnauthenticated:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperr.CodePermissionDenied:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperr.CodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.CodeFailedPrecondition:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
