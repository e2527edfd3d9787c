package handlers

import (
	"net/http"
	"strconv"

	"pulse/services"

	"github.com/gin-gonic/gin"
)

var notificationService = services.NewNotificationService()

// ListNotifications возвращает уведомления текущего пользователя, новые сверху
// @Summary List notifications
// @Tags notifications
// @Security Bearer
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /notifications [get]
func ListNotifications(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}

	notifications, err := notificationService.List(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationRead помечает уведомление прочитанным
// @Summary Mark notification as read
// @Tags notifications
// @Security Bearer
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notifications/{id}/read [post]
func MarkNotificationRead(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}

	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := notificationService.MarkRead(c.Request.Context(), uid, notificationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "marked as read"})
}

// GetUnreadCount возвращает число непрочитанных уведомлений
// @Summary Get unread notifications count
// @Tags notifications
// @Security Bearer
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /notifications/unread_count [get]
func GetUnreadCount(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}

	count, err := notificationService.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get unread count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": uid, "unread": count})
}
