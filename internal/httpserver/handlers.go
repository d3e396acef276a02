package httpserver

import (
	"errors"
	"net/http"

	"storefront-api/internal/domain"
	authsvc "storefront-api/internal/service/auth"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps service errors onto HTTP statuses. Unrecognized
// errors fall back to the given status so create/update handlers can treat
// them as validation failures while read handlers report 500.
func respondServiceError(c *gin.Context, err error, fallback int) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, authsvc.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, authsvc.ErrInvalidCredentials), errors.Is(err, authsvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	default:
		if fallback == http.StatusInternalServerError {
			c.JSON(fallback, gin.H{"message": "internal error"})
			return
		}
		c.JSON(fallback, gin.H{"message": err.Error()})
	}
}
