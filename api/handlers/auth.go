package handlers

import (
	"errors"
	"net/http"

	"pulse/models"
	"pulse/services"

	"github.com/gin-gonic/gin"
)

var userService = services.NewUserService()

type RegisterRequest struct {
	Nickname  string `json:"nickname" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}

type LoginRequest struct {
	Nickname string `json:"nickname" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var registerRequest RegisterRequest
	if err := c.ShouldBindJSON(&registerRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	newUser := models.User{
		Nickname:  registerRequest.Nickname,
		FirstName: registerRequest.FirstName,
		LastName:  registerRequest.LastName,
		Bio:       registerRequest.Bio,
		Password:  registerRequest.Password,
	}

	userID, err := userService.Register(c.Request.Context(), &newUser)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user_id": userID, "nickname": newUser.Nickname})
}

func Login(c *gin.Context) {
	var loginRequest LoginRequest
	if err := c.ShouldBindJSON(&loginRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, userID, err := userService.Login(c.Request.Context(), loginRequest.Nickname, loginRequest.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user_id": userID,
	})
}

func Logout(c *gin.Context) {
	uid, ok := actorID(c)
	if !ok {
		return
	}

	if err := userService.Logout(c.Request.Context(), uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
