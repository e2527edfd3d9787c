package routes

import (
	"pulse/api/handlers"
	"pulse/api/middleware"

	"github.com/gin-gonic/gin"
)

func PublicApi(router *gin.Engine) *gin.RouterGroup {
	publicEndpoints := router.Group("/api/v1/")
	{
		publicEndpoints.POST("auth/register", handlers.Register)
		publicEndpoints.POST("auth/login", handlers.Login)

		publicEndpoints.GET("user/search", handlers.UserSearch)
		publicEndpoints.GET("user/get/:id", handlers.UserGet)

		// Чтение постов и комментариев доступно без аутентификации
		publicEndpoints.GET("posts/:post_id", handlers.GetPost)
		publicEndpoints.GET("posts/:post_id/comments", handlers.ListComments)
	}

	authEndpoints := router.Group("/api/v1/")
	authEndpoints.Use(middleware.AuthMiddleware())
	{
		authEndpoints.POST("auth/logout", handlers.Logout)
		authEndpoints.PUT("user/profile", handlers.UpdateProfile)

		// Подписки
		authEndpoints.POST("follow/:user_id", handlers.FollowUser)
		authEndpoints.POST("unfollow/:user_id", handlers.UnfollowUser)
		authEndpoints.GET("following", handlers.GetFollowing)
		authEndpoints.GET("followers", handlers.GetFollowers)

		// Посты и лайки
		authEndpoints.POST("posts", handlers.CreatePost)
		authEndpoints.PUT("posts/:post_id", handlers.UpdatePost)
		authEndpoints.DELETE("posts/:post_id", handlers.DeletePost)
		authEndpoints.POST("posts/:post_id/like", handlers.ToggleLike)

		// Комментарии
		authEndpoints.POST("posts/:post_id/comments", handlers.AddComment)
		authEndpoints.PUT("comments/:comment_id", handlers.UpdateComment)
		authEndpoints.DELETE("comments/:comment_id", handlers.DeleteComment)

		// Лента
		authEndpoints.GET("feed", handlers.GetFeed)

		// Уведомления
		authEndpoints.GET("notifications", handlers.ListNotifications)
		authEndpoints.POST("notifications/:id/read", handlers.MarkNotificationRead)
		authEndpoints.GET("notifications/unread_count", handlers.GetUnreadCount)

		// WebSocket push
		authEndpoints.GET("ws", handlers.WSNotifyHandler)
	}

	adminEndpoints := router.Group("/api/v1/admin/")
	adminEndpoints.Use(middleware.AuthMiddleware())
	{
		adminEndpoints.POST("feed/invalidate/:user_id", handlers.InvalidateUserFeed)
		adminEndpoints.POST("feed/rebuild/:user_id", handlers.RebuildUserFeed)
		adminEndpoints.GET("queue/stats", handlers.GetQueueStats)
	}

	return publicEndpoints
}
