package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kalender/controller/respond"
	"kalender/dto"
	"kalender/middleware"
	"kalender/model"
	"kalender/services"
)

func SignInController(router gin.IRouter, svc *services.Service) {
	router.POST("/auth/signin", func(c *gin.Context) {
		Signin(c, svc)
	})
	router.POST("/auth/refresh", middleware.RefreshTokenMiddleware(svc.Tokens()), func(c *gin.Context) {
		Refresh(c, svc)
	})
	router.POST("/auth/signout", middleware.AccessTokenMiddleware(svc.Tokens()), func(c *gin.Context) {
		Signout(c, svc)
	})
}

func Signin(c *gin.Context, svc *services.Service) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, err)
		return
	}

	user, tokens, err := svc.Login(c.Request.Context(), request)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login Successfully",
		"user":    dto.NewUserResponse(user),
		"token":   tokenResponse(tokens),
	})
}

func Refresh(c *gin.Context, svc *services.Service) {
	tokens, err := svc.Refresh(c.Request.Context(), c.GetString(middleware.RefreshTokenKey))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenResponse(tokens)})
}

func Signout(c *gin.Context, svc *services.Service) {
	if err := svc.Logout(c.Request.Context(), middleware.UserID(c)); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout Successfully"})
}

func tokenResponse(tokens model.TokenPair) gin.H {
	return gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}
}
