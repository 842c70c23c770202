package handlers

import (
	"errors"
	"log"
	"net/http"
	"partshare/internal/middleware"
	"partshare/internal/models"
	"partshare/internal/services"

	"github.com/gin-gonic/gin"
)

// CurrentUser pulls the session user loaded by the middleware off the context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	if v, exists := c.Get(middleware.CheckUserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user, true
		}
	}
	return nil, false
}

// ViewerID returns the current user's id, 0 for anonymous callers.
func ViewerID(c *gin.Context) uint {
	if user, ok := CurrentUser(c); ok {
		return user.ID
	}
	return 0
}

// RenderServiceError maps the core error taxonomy onto HTTP statuses.
// Anything unclassified is a persistence failure: log it, answer 500 and
// never expose the internal message.
func RenderServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
