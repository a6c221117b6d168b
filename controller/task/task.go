package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kalender/controller/respond"
	"kalender/dto"
	"kalender/middleware"
	"kalender/services"
)

func TaskController(router gin.IRouter, svc *services.Service) {
	routes := router.Group("/tasks", middleware.AccessTokenMiddleware(svc.Tokens()))
	{
		routes.GET("/:taskId", func(c *gin.Context) {
			GetTask(c, svc)
		})
		routes.PUT("/:taskId", func(c *gin.Context) {
			UpdateTask(c, svc)
		})
		routes.DELETE("/:taskId", func(c *gin.Context) {
			DeleteTask(c, svc)
		})
		routes.POST("/:taskId/toggle", func(c *gin.Context) {
			ToggleTask(c, svc)
		})
		routes.POST("/:taskId/comments", func(c *gin.Context) {
			AddComment(c, svc)
		})
	}
}

func GetTask(c *gin.Context, svc *services.Service) {
	task, err := svc.GetTask(c.Request.Context(), middleware.UserID(c), c.Param("taskId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func UpdateTask(c *gin.Context, svc *services.Service) {
	var request dto.TaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, err)
		return
	}

	task, err := svc.UpdateTask(c.Request.Context(), middleware.UserID(c), c.Param("taskId"), request)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func DeleteTask(c *gin.Context, svc *services.Service) {
	if err := svc.DeleteTask(c.Request.Context(), middleware.UserID(c), c.Param("taskId")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func ToggleTask(c *gin.Context, svc *services.Service) {
	task, err := svc.ToggleTaskCompletion(c.Request.Context(), middleware.UserID(c), c.Param("taskId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func AddComment(c *gin.Context, svc *services.Service) {
	var request dto.CommentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, err)
		return
	}

	comment, err := svc.AddComment(c.Request.Context(), middleware.UserID(c), c.Param("taskId"), request)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
