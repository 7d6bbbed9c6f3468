package user

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelbooking/controller/resp"
	"hotelbooking/dto"
	"hotelbooking/middleware"
	"hotelbooking/services"
)

func UserController(router *gin.Engine, users *services.UserService, verification *services.VerificationService) {
	routes := router.Group("/user", middleware.AccessTokenMiddleware())
	{
		routes.GET("/profile", func(c *gin.Context) {
			GetProfile(c, users)
		})
		routes.PUT("/profile", func(c *gin.Context) {
			UpdateProfileUser(c, users)
		})
		routes.POST("/avatar", func(c *gin.Context) {
			UpdateAvatar(c, users)
		})
		routes.GET("/navigation", func(c *gin.Context) {
			GetNavigation(c, users)
		})
		routes.POST("/verification", func(c *gin.Context) {
			RequestVerification(c, verification)
		})
		routes.DELETE("/account", func(c *gin.Context) {
			DeleteUser(c, users)
		})
	}
}

func GetProfile(c *gin.Context, users *services.UserService) {
	user, err := users.GetUser(c.Request.Context(), resp.UserID(c))
	if err != nil {
		resp.Error(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func UpdateProfileUser(c *gin.Context, users *services.UserService) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrMissingFields.Error()})
		return
	}

	user, err := users.UpdateProfile(c.Request.Context(), resp.UserID(c), req)
	if err != nil {
		resp.Error(c, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func UpdateAvatar(c *gin.Context, users *services.UserService) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}
	files, closeFiles, err := resp.OpenFiles([]*multipart.FileHeader{fh})
	if err != nil {
		resp.Error(c, "read avatar", err)
		return
	}
	defer closeFiles()

	url, err := users.UpdateAvatar(c.Request.Context(), resp.UserID(c), files[0].Name, files[0].ContentType, files[0].Body)
	if err != nil {
		resp.Error(c, "update avatar", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatarUrl": url})
}

// GetNavigation reads the user fresh, so a level change shows up without
// signing in again.
func GetNavigation(c *gin.Context, users *services.UserService) {
	user, err := users.GetUser(c.Request.Context(), resp.UserID(c))
	if err != nil {
		resp.Error(c, "get navigation", err)
		return
	}
	c.JSON(http.StatusOK, services.Navigation(user))
}

func RequestVerification(c *gin.Context, verification *services.VerificationService) {
	var form dto.VerificationForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrMissingFields.Error()})
		return
	}

	mf, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form is required"})
		return
	}
	uploads := make(map[string]services.File)
	var closers []func()
	defer func() {
		for _, closeFiles := range closers {
			closeFiles()
		}
	}()
	for _, slot := range []string{"frontId", "backId", "businessCertificate"} {
		headers := mf.File[slot]
		if len(headers) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload " + slot})
			return
		}
		files, closeFiles, err := resp.OpenFiles(headers[:1])
		if err != nil {
			resp.Error(c, "read "+slot, err)
			return
		}
		closers = append(closers, closeFiles)
		uploads[slot] = files[0]
	}

	req, err := verification.Submit(c.Request.Context(), resp.UserID(c), form, uploads)
	if err != nil {
		resp.Error(c, "submit verification", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Request sent successfully",
		"request": req,
	})
}

func DeleteUser(c *gin.Context, users *services.UserService) {
	if err := users.DeleteUser(c.Request.Context(), resp.UserID(c)); err != nil {
		resp.Error(c, "delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
