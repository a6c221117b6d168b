package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kalender/controller/respond"
	"kalender/middleware"
	"kalender/services"
)

func NotificationController(router gin.IRouter, svc *services.Service) {
	routes := router.Group("/notifications", middleware.AccessTokenMiddleware(svc.Tokens()))
	{
		routes.GET("", func(c *gin.Context) {
			ListNotifications(c, svc)
		})
		routes.GET("/unread-count", func(c *gin.Context) {
			UnreadCount(c, svc)
		})
		routes.POST("/read-all", func(c *gin.Context) {
			MarkAllAsRead(c, svc)
		})
		routes.POST("/:notificationId/read", func(c *gin.Context) {
			MarkAsRead(c, svc)
		})
		routes.DELETE("/:notificationId", func(c *gin.Context) {
			DeleteNotification(c, svc)
		})
		routes.POST("/:notificationId/accept", func(c *gin.Context) {
			AcceptInvitation(c, svc)
		})
		routes.POST("/:notificationId/decline", func(c *gin.Context) {
			DeclineInvitation(c, svc)
		})
	}
}

func ListNotifications(c *gin.Context, svc *services.Service) {
	notifications, err := svc.Notifications(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func UnreadCount(c *gin.Context, svc *services.Service) {
	count, err := svc.UnreadCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func MarkAllAsRead(c *gin.Context, svc *services.Service) {
	removed, err := svc.MarkAllNotificationsAsRead(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func MarkAsRead(c *gin.Context, svc *services.Service) {
	if err := svc.MarkNotificationAsRead(c.Request.Context(), middleware.UserID(c), c.Param("notificationId")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func DeleteNotification(c *gin.Context, svc *services.Service) {
	if err := svc.DeleteNotification(c.Request.Context(), middleware.UserID(c), c.Param("notificationId")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

func AcceptInvitation(c *gin.Context, svc *services.Service) {
	if err := svc.AcceptInvitation(c.Request.Context(), middleware.UserID(c), c.Param("notificationId")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation accepted"})
}

func DeclineInvitation(c *gin.Context, svc *services.Service) {
	if err := svc.DeclineInvitation(c.Request.Context(), middleware.UserID(c), c.Param("notificationId")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation declined"})
}
