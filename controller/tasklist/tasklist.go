package tasklist

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kalender/controller/respond"
	"kalender/dto"
	"kalender/middleware"
	"kalender/model"
	"kalender/services"
)

func TaskListController(router gin.IRouter, svc *services.Service) {
	routes := router.Group("/lists", middleware.AccessTokenMiddleware(svc.Tokens()))
	{
		routes.GET("", func(c *gin.Context) {
			VisibleTaskLists(c, svc)
		})
		routes.POST("", func(c *gin.Context) {
			CreateTaskList(c, svc)
		})
		routes.GET("/:listId", func(c *gin.Context) {
			GetTaskList(c, svc)
		})
		routes.PUT("/:listId", func(c *gin.Context) {
			UpdateTaskList(c, svc)
		})
		routes.PATCH("/:listId/visibility", func(c *gin.Context) {
			SetVisibility(c, svc)
		})
		routes.DELETE("/:listId", func(c *gin.Context) {
			DeleteTaskList(c, svc)
		})
		routes.POST("/:listId/invitations", func(c *gin.Context) {
			Invite(c, svc)
		})
		routes.GET("/:listId/tasks", func(c *gin.Context) {
			TasksInList(c, svc)
		})
		routes.POST("/:listId/tasks", func(c *gin.Context) {
			CreateTask(c, svc)
		})
	}
}

func VisibleTaskLists(c *gin.Context, svc *services.Service) {
	lists, err := svc.VisibleTaskLists(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

func CreateTaskList(c *gin.Context, svc *services.Service) {
	var request dto.CreateTaskListRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, err)
		return
	}

	list, err := svc.CreateTaskList(c.Request.Context(), middleware.UserID(c), request)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

func GetTaskList(c *gin.Context, svc *services.Service) {
	list, err := svc.GetTaskList(c.Request.Context(), middleware.UserID(c), c.Param("listId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func UpdateTaskList(c *gin.Context, svc *services.Service) {
	var request dto.UpdateTaskListRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, err)
		return
	}

	list, err := svc.UpdateTaskList(c.Request.Context(), middleware.UserID(c), c.Param("listId"), request)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func SetVisibility(c *gin.Context, svc *services.Service) {
	var request dto.VisibilityRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, err)
		return
	}

	list, err := svc.SetTaskListVisibility(c.Request.Context(), middleware.UserID(c), c.Param("listId"), model.Visibility(request.Visibility))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func DeleteTaskList(c *gin.Context, svc *services.Service) {
	if err := svc.DeleteTaskList(c.Request.Context(), middleware.UserID(c), c.Param("listId")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task list deleted successfully"})
}

func Invite(c *gin.Context, svc *services.Service) {
	var request dto.InviteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, err)
		return
	}

	sent, err := svc.InviteUser(c.Request.Context(), middleware.UserID(c), c.Param("listId"), request.UserID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invited": sent})
}

func TasksInList(c *gin.Context, svc *services.Service) {
	tasks, err := svc.TasksInList(c.Request.Context(), middleware.UserID(c), c.Param("listId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func CreateTask(c *gin.Context, svc *services.Service) {
	var request dto.TaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, err)
		return
	}

	task, err := svc.AddTask(c.Request.Context(), middleware.UserID(c), c.Param("listId"), request)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}
