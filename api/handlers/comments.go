package handlers

import (
	"net/http"
	"strconv"

	"pulse/api/middleware"
	"pulse/services"

	"github.com/gin-gonic/gin"
)

var commentService = services.NewCommentService()

// AddComment добавляет комментарий к посту
func AddComment(c *gin.Context) {
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

	comment, err := commentService.Add(c.Request.Context(), uid, postID, req.Content)
	if err != nil {
		middleware.RecordSocialAction("comment", "error", "pulse")
		respondError(c, err)
		return
	}

	middleware.RecordSocialAction("comment", "ok", "pulse")
	c.JSON(http.StatusCreated, comment)
}

// ListComments возвращает комментарии поста. Доступно без аутентификации.
func ListComments(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	comments, err := commentService.List(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// UpdateComment меняет текст комментария (только автор)
func UpdateComment(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}

	commentID, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment, err := commentService.Update(c.Request.Context(), uid, commentID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment удаляет комментарий (только автор)
func DeleteComment(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}

	commentID, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	if err := commentService.Delete(c.Request.Context(), uid, commentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
