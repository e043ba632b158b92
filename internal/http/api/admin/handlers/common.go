package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnloophq/learnloop-backend/internal/apperr"
)

// getAdminID extracts the authenticated admin ID from the gin context.
func getAdminID(c *gin.Context) uint64 {
	value, exists := c.Get("adminID")
	if !exists {
		return 0
	}
	switch id := value.(type) {
	case uint64:
		return id
	case uint:
		return uint64(id)
	case int64:
		if id > 0 {
			return uint64(id)
		}
	case int:
		if id > 0 {
			return uint64(id)
		}
	}
	return 0
}

// respondError writes an error response based on the application error code.
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
