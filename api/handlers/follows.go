package handlers

import (
	"net/http"
	"strconv"

	"pulse/api/middleware"
	"pulse/services"

	"github.com/gin-gonic/gin"
)

var followService = services.NewFollowService()

func targetIDParam(c *gin.Context) (int64, bool) {
	idParam := c.Param("user_id")
	targetID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return 0, false
	}
	return targetID, true
}

// FollowUser - обработчик подписки на пользователя
func FollowUser(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}
	targetID, ok := targetIDParam(c)
	if !ok {
		return
	}

	if err := followService.Follow(c.Request.Context(), uid, targetID); err != nil {
		middleware.RecordSocialAction("follow", "error", "pulse")
		respondError(c, err)
		return
	}

	middleware.RecordSocialAction("follow", "ok", "pulse")
	c.JSON(http.StatusOK, gin.H{"message": "now following"})
}

// UnfollowUser - обработчик отписки от пользователя
func UnfollowUser(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}
	targetID, ok := targetIDParam(c)
	if !ok {
		return
	}

	if err := followService.Unfollow(c.Request.Context(), uid, targetID); err != nil {
		middleware.RecordSocialAction("unfollow", "error", "pulse")
		respondError(c, err)
		return
	}

	middleware.RecordSocialAction("unfollow", "ok", "pulse")
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

// GetFollowing - список пользователей, на которых подписан текущий
func GetFollowing(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}

	users, err := followService.FollowingUsers(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": users})
}

// GetFollowers - список подписчиков текущего пользователя
func GetFollowers(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}

	users, err := followService.Followers(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": users})
}
