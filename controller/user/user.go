package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kalender/controller/respond"
	"kalender/dto"
	"kalender/middleware"
	"kalender/services"
)

func UserController(router gin.IRouter, svc *services.Service) {
	auth := middleware.AccessTokenMiddleware(svc.Tokens())

	routes := router.Group("/user", auth)
	{
		routes.GET("/me", func(c *gin.Context) {
			Me(c, svc)
		})
		routes.POST("/search", func(c *gin.Context) {
			SearchUser(c, svc)
		})
		routes.PUT("/profile", func(c *gin.Context) {
			UpdateProfileUser(c, svc)
		})
		routes.DELETE("/account", func(c *gin.Context) {
			DeleteUser(c, svc)
		})
	}

	users := router.Group("/users", auth)
	{
		users.GET("", func(c *gin.Context) {
			ListUsers(c, svc)
		})
		users.GET("/:userId", func(c *gin.Context) {
			Profile(c, svc)
		})
		users.GET("/:userId/followers", func(c *gin.Context) {
			Followers(c, svc)
		})
		users.GET("/:userId/following", func(c *gin.Context) {
			Following(c, svc)
		})
		users.POST("/:userId/follow", func(c *gin.Context) {
			Follow(c, svc)
		})
		users.DELETE("/:userId/follow", func(c *gin.Context) {
			Unfollow(c, svc)
		})
	}
}

func Me(c *gin.Context, svc *services.Service) {
	user, err := svc.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func SearchUser(c *gin.Context, svc *services.Service) {
	var request dto.SearchUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, err)
		return
	}

	users, err := svc.SearchUsers(c.Request.Context(), request.Query)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponses(users))
}

func UpdateProfileUser(c *gin.Context, svc *services.Service) {
	var request dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respond.BadRequest(c, err)
		return
	}

	user, err := svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), request)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    dto.NewUserResponse(user),
	})
}

func DeleteUser(c *gin.Context, svc *services.Service) {
	if err := svc.DeleteAccount(c.Request.Context(), middleware.UserID(c)); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func ListUsers(c *gin.Context, svc *services.Service) {
	users, err := svc.ListUsers(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponses(users))
}

func Profile(c *gin.Context, svc *services.Service) {
	user, lists, err := svc.Profile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{
		User:        dto.NewUserResponse(user),
		PublicLists: lists,
	})
}

func Followers(c *gin.Context, svc *services.Service) {
	users, err := svc.Followers(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponses(users))
}

func Following(c *gin.Context, svc *services.Service) {
	users, err := svc.Following(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponses(users))
}

func Follow(c *gin.Context, svc *services.Service) {
	if err := svc.Follow(c.Request.Context(), middleware.UserID(c), c.Param("userId")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Followed successfully"})
}

func Unfollow(c *gin.Context, svc *services.Service) {
	if err := svc.Unfollow(c.Request.Context(), middleware.UserID(c), c.Param("userId")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed successfully"})
}
