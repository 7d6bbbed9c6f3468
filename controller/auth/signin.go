package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelbooking/controller/resp"
	"hotelbooking/dto"
	"hotelbooking/middleware"
	"hotelbooking/services"
)

func SignInController(router *gin.Engine, users *services.UserService) {
	routes := router.Group("/auth")
	{
		routes.POST("/signin", func(c *gin.Context) {
			Signin(c, users)
		})
		routes.POST("/refresh", middleware.RefreshTokenMiddleware(), func(c *gin.Context) {
			RefreshToken(c, users)
		})
		routes.POST("/signout", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			Signout(c, users)
		})
	}
}

func Signin(c *gin.Context, users *services.UserService) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		resp.BadRequest(c, err)
		return
	}

	user, err := users.SignIn(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		resp.Error(c, "sign in", err)
		return
	}

	tokens, err := users.IssueTokens(c.Request.Context(), user)
	if err != nil {
		resp.Error(c, "create tokens", err)
		return
	}

	// หน้าแรกหลังเข้าสู่ระบบขึ้นกับ role ของผู้ใช้
	c.JSON(http.StatusOK, dto.SigninResponse{
		Message:      "Login Successfully",
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         user,
		Navigation:   services.Navigation(user),
	})
}

func RefreshToken(c *gin.Context, users *services.UserService) {
	tokens, err := users.Refresh(c.Request.Context(), c.GetString("userID"), c.GetString("refreshToken"))
	if err != nil {
		resp.Error(c, "refresh token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

func Signout(c *gin.Context, users *services.UserService) {
	if err := users.SignOut(c.Request.Context(), resp.UserID(c)); err != nil {
		resp.Error(c, "sign out", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout Successfully"})
}
