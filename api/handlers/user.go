package handlers

import (
	"net/http"
	"strconv"

	"pulse/services"

	"github.com/gin-gonic/gin"
)

type UserInfo struct {
	ID        int64  `json:"id"`
	Nickname  string `json:"nickname"`
	Firstname string `json:"first_name"`
	Lastname  string `json:"last_name"`
	Bio       string `json:"bio,omitempty"`
}

func UserSearch(c *gin.Context) {
	firstName := c.Query("first_name")
	lastName := c.Query("last_name")

	if firstName == "" && lastName == "" {
		c.JSON(400, gin.H{"error": "At least one search parameter (first_name or last_name) is required"})
		return
	}

	limit := 50
	offset := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	users, err := services.SearchUsers(c.Request.Context(), firstName, lastName, limit, offset)
	if err != nil {
		c.JSON(500, gin.H{"error": "Internal server error"})
		return
	}

	if len(users) == 0 {
		c.JSON(404, gin.H{"error": "No users found"})
		return
	}

	var userInfos []UserInfo
	for _, user := range users {
		userInfos = append(userInfos, UserInfo{
			ID:        user.ID,
			Nickname:  user.Nickname,
			Firstname: user.FirstName,
			Lastname:  user.LastName,
		})
	}

	c.JSON(200, gin.H{"users": userInfos})
}

func UserGet(c *gin.Context) {
	idParam := c.Param("id")
	userID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserInfo{
		ID:        user.ID,
		Nickname:  user.Nickname,
		Firstname: user.FirstName,
		Lastname:  user.LastName,
		Bio:       user.Bio,
	})
}

// UpdateProfile обновляет профиль текущего пользователя
func UpdateProfile(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}

	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Bio       string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := userService.UpdateProfile(c.Request.Context(), uid, uid, req.FirstName, req.LastName, req.Bio)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserInfo{
		ID:        user.ID,
		Nickname:  user.Nickname,
		Firstname: user.FirstName,
		Lastname:  user.LastName,
		Bio:       user.Bio,
	})
}
