package handlers

import (
	"net/http"
	"strconv"

	"pulse/api/middleware"
	"pulse/services"

	"github.com/gin-gonic/gin"
)

var (
	postService = services.NewPostService()
	likeService = services.NewLikeService()
)

func postIDParam(c *gin.Context) (int64, bool) {
	idParam := c.Param("post_id")
	postID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return 0, false
	}
	return postID, true
}

// CreatePost создает новый пост
func CreatePost(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	uid, ok := actorID(c)
	if !ok {
		return
	}

	post, err := postService.CreatePost(c.Request.Context(), uid, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost возвращает пост. Доступно без аутентификации.
func GetPost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := postService.GetPost(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	likers, err := likeService.Likers(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "likers": likers})
}

// UpdatePost меняет текст поста (только автор)
func UpdatePost(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	post, err := postService.UpdatePost(c.Request.Context(), uid, postID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost удаляет пост (только автор)
func DeletePost(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := postService.DeletePost(c.Request.Context(), uid, postID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// ToggleLike переключает лайк на посте
func ToggleLike(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	status, err := likeService.Toggle(c.Request.Context(), uid, postID)
	if err != nil {
		middleware.RecordSocialAction("like", "error", "pulse")
		respondError(c, err)
		return
	}

	middleware.RecordSocialAction("like", "ok", "pulse")
	code := http.StatusOK
	if status == services.ToggleLiked {
		code = http.StatusCreated
	}
	c.JSON(code, gin.H{"status": status})
}

// GetFeed получает ленту постов от подписок
func GetFeed(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}

	// Параметры пагинации
	lastIDStr := c.Query("last_id")
	limitStr := c.Query("limit")

	var lastID int64 = 0
	var limit int = 20

	if lastIDStr != "" {
		if parsed, err := strconv.ParseInt(lastIDStr, 10, 64); err == nil {
			lastID = parsed
		}
	}

	if limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	feed, err := postService.GetUserFeed(c.Request.Context(), uid, lastID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feed"})
		return
	}

	c.JSON(http.StatusOK, feed)
}

// InvalidateUserFeed инвалидирует кеш ленты пользователя (админский эндпоинт)
func InvalidateUserFeed(c *gin.Context) {
	userIDStr := c.Param("user_id")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	err = postService.InvalidateUserFeed(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invalidate cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cache invalidated successfully"})
}

// RebuildUserFeed перестраивает кеш ленты пользователя из БД (админский эндпоинт)
func RebuildUserFeed(c *gin.Context) {
	userIDStr := c.Param("user_id")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	err = postService.RebuildUserFeedFromDB(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rebuild feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feed rebuilt successfully"})
}

// GetQueueStats возвращает статистику очереди (админский эндпоинт)
func GetQueueStats(c *gin.Context) {
	if services.QueueServiceInstance == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Queue service not available"})
		return
	}

	queueLength, err := services.QueueServiceInstance.GetQueueStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get queue stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"queue_length": queueLength,
		"workers":      services.QUEUE_WORKER_COUNT,
	})
}
