package notifications

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, repo *Repository, authMiddleware gin.HandlerFunc) {
	handler := NewHandler(repo)

	notifications := router.Group("/notifications")
	notifications.Use(authMiddleware)
	{
		notifications.GET("", handler.ListNotifications)
		notifications.GET("/unread-count", handler.GetUnreadCount)
		notifications.PUT("/read-all", handler.MarkAllAsRead)
		notifications.PUT("/:id/read", handler.MarkAsRead)
	}
}
