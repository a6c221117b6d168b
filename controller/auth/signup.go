package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kalender/controller/respond"
	"kalender/dto"
	"kalender/services"
)

func SignUpController(router gin.IRouter, svc *services.Service) {
	router.POST("/auth/signup", func(c *gin.Context) {
		Signup(c, svc)
	})
}

func Signup(c *gin.Context, svc *services.Service) {
	var request dto.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, err)
		return
	}

	user, err := svc.Register(c.Request.Context(), request)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    dto.NewUserResponse(user),
	})
}
