package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelbooking/controller/resp"
	"hotelbooking/dto"
	"hotelbooking/services"
)

func SignUpController(router *gin.Engine, users *services.UserService) {
	router.POST("/auth/signup", func(c *gin.Context) {
		Signup(c, users)
	})
}

func Signup(c *gin.Context, users *services.UserService) {
	var request dto.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		resp.BadRequest(c, err)
		return
	}

	user, err := users.SignUp(c.Request.Context(), request)
	if err != nil {
		resp.Error(c, "create user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}
