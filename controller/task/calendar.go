package task

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kalender/controller/respond"
	"kalender/middleware"
	"kalender/services"
)

func CalendarController(router gin.IRouter, svc *services.Service) {
	routes := router.Group("/calendar", middleware.AccessTokenMiddleware(svc.Tokens()))
	{
		routes.GET("", func(c *gin.Context) {
			Month(c, svc)
		})
		routes.GET("/day", func(c *gin.Context) {
			Day(c, svc)
		})
	}
}

// Month serves ?month=YYYY-MM, defaulting to the current month.
func Month(c *gin.Context, svc *services.Service) {
	month, ok := parseQueryTime(c, svc, "month", "2006-01")
	if !ok {
		return
	}

	tasks, err := svc.TasksForMonth(c.Request.Context(), middleware.UserID(c), month)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"month": month.Format("2006-01"),
		"tasks": tasks,
	})
}

// Day serves ?date=YYYY-MM-DD, defaulting to today.
func Day(c *gin.Context, svc *services.Service) {
	day, ok := parseQueryTime(c, svc, "date", time.DateOnly)
	if !ok {
		return
	}

	tasks, err := svc.TasksForDay(c.Request.Context(), middleware.UserID(c), day)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  day.Format(time.DateOnly),
		"tasks": tasks,
	})
}

func parseQueryTime(c *gin.Context, svc *services.Service, key, layout string) (time.Time, bool) {
	value := c.Query(key)
	if value == "" {
		return svc.Today(), true
	}
	t, err := time.ParseInLocation(layout, value, svc.Location())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key + ", expected " + layout})
		return time.Time{}, false
	}
	return t, true
}
