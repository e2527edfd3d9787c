package handlers

import (
	"errors"
	"net/http"

	"pulse/services"

	"github.com/gin-gonic/gin"
)

// respondError мапит доменные ошибки на HTTP-статусы.
// Сервисный слой статусов не знает, вся раскладка живет здесь.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
	case errors.Is(err, services.ErrEmptyComment):
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment text is empty"})
	case errors.Is(err, services.ErrEmptyPost):
		c.JSON(http.StatusBadRequest, gin.H{"error": "post content is empty"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// actorID достает id аутентифицированного пользователя из контекста
func actorID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	uid, ok := userID.(int64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return uid, true
}
