package admin

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotelbooking/controller/resp"
	"hotelbooking/dto"
	"hotelbooking/middleware"
	"hotelbooking/model"
	"hotelbooking/services"
)

type Services struct {
	Users        *services.UserService
	Hotels       *services.HotelService
	Panels       *services.PanelService
	Verification *services.VerificationService
}

func AdminController(router *gin.Engine, s Services) {
	routes := router.Group("/admin", middleware.AccessTokenMiddleware(), middleware.AdminMiddleware())
	{
		routes.GET("/users", func(c *gin.Context) {
			ListUsers(c, s.Users)
		})
		routes.POST("/users", func(c *gin.Context) {
			CreateUser(c, s.Users)
		})
		routes.POST("/users/search", func(c *gin.Context) {
			SearchUser(c, s.Users)
		})
		routes.PUT("/users/:id", func(c *gin.Context) {
			UpdateUser(c, s.Users)
		})
		routes.DELETE("/users/:id", func(c *gin.Context) {
			DeleteUser(c, s.Users)
		})

		routes.GET("/hotels", func(c *gin.Context) {
			ListHotels(c, s.Hotels)
		})
		routes.DELETE("/hotels/:id", func(c *gin.Context) {
			DeleteHotel(c, s.Hotels)
		})

		routes.GET("/homepage", func(c *gin.Context) {
			ListPanels(c, s.Panels)
		})
		routes.POST("/homepage", func(c *gin.Context) {
			AddPanel(c, s.Panels)
		})
		routes.PUT("/homepage/:id", func(c *gin.Context) {
			UpdatePanel(c, s.Panels)
		})
		routes.DELETE("/homepage/:id", func(c *gin.Context) {
			DeletePanel(c, s.Panels)
		})

		routes.GET("/requests", func(c *gin.Context) {
			ListRequests(c, s.Verification)
		})
		routes.GET("/requests/stream", func(c *gin.Context) {
			StreamRequests(c, s.Verification)
		})
		routes.POST("/requests/:id/accept", func(c *gin.Context) {
			AcceptRequest(c, s.Verification)
		})
		routes.POST("/requests/:id/reject", func(c *gin.Context) {
			RejectRequest(c, s.Verification)
		})
	}
}

func ListUsers(c *gin.Context, users *services.UserService) {
	list, err := users.ListUsers(c.Request.Context())
	if err != nil {
		resp.Error(c, "fetch users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func SearchUser(c *gin.Context, users *services.UserService) {
	var emailReq dto.SearchEmailRequest
	if err := c.ShouldBindJSON(&emailReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	list, err := users.SearchUsers(c.Request.Context(), emailReq.Email)
	if err != nil {
		resp.Error(c, "search users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func CreateUser(c *gin.Context, users *services.UserService) {
	var req dto.AdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err)
		return
	}
	user, err := users.CreateUser(c.Request.Context(), req)
	if err != nil {
		resp.Error(c, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User added successfully",
		"user":    user,
	})
}

func UpdateUser(c *gin.Context, users *services.UserService) {
	var req dto.AdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err)
		return
	}
	user, err := users.AdminUpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		resp.Error(c, "update user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

func DeleteUser(c *gin.Context, users *services.UserService) {
	if err := users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		resp.Error(c, "delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func ListHotels(c *gin.Context, hotels *services.HotelService) {
	list, err := hotels.ListWithOwners(c.Request.Context())
	if err != nil {
		resp.Error(c, "fetch hotels", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hotels": list})
}

func DeleteHotel(c *gin.Context, hotels *services.HotelService) {
	admin := model.User{UserID: resp.UserID(c), Role: model.RoleAdmin}
	if err := hotels.Delete(c.Request.Context(), admin, c.Param("id")); err != nil {
		resp.Error(c, "delete hotel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Hotel deleted successfully"})
}

func ListPanels(c *gin.Context, panels *services.PanelService) {
	list, err := panels.List(c.Request.Context())
	if err != nil {
		resp.Error(c, "fetch homepage", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"panels": list})
}

// AddPanel takes either a JSON body with imageUrl or a multipart "image"
// file to upload.
func AddPanel(c *gin.Context, panels *services.PanelService) {
	var (
		panel model.PanelImage
		err   error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, ferr := c.FormFile("image")
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			resp.Error(c, "read image", ferr)
			return
		}
		defer f.Close()
		panel, err = panels.AddUpload(c.Request.Context(), fh.Header.Get("Content-Type"), f)
	} else {
		var req dto.PanelRequest
		if berr := c.ShouldBindJSON(&req); berr != nil {
			resp.BadRequest(c, berr)
			return
		}
		panel, err = panels.AddURL(c.Request.Context(), req.ImageURL)
	}
	if err != nil {
		resp.Error(c, "add panel", err)
		return
	}
	c.JSON(http.StatusCreated, panel)
}

func UpdatePanel(c *gin.Context, panels *services.PanelService) {
	var req dto.PanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err)
		return
	}
	if err := panels.Update(c.Request.Context(), c.Param("id"), req.ImageURL); err != nil {
		resp.Error(c, "update panel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Panel updated successfully"})
}

func DeletePanel(c *gin.Context, panels *services.PanelService) {
	if err := panels.Delete(c.Request.Context(), c.Param("id")); err != nil {
		resp.Error(c, "delete panel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Panel deleted successfully"})
}

func ListRequests(c *gin.Context, verification *services.VerificationService) {
	list, err := verification.List(c.Request.Context())
	if err != nil {
		resp.Error(c, "fetch requests", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": list})
}

// StreamRequests sends the whole request list as a "snapshot" event after
// every change.
func StreamRequests(c *gin.Context, verification *services.VerificationService) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	lists := make(chan []model.VerificationRequest)
	go func() {
		defer close(lists)
		err := verification.Listen(ctx, func(list []model.VerificationRequest) error {
			select {
			case lists <- list:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("stream requests: %v", err)
		}
	}()

	c.Stream(func(w io.Writer) bool {
		list, ok := <-lists
		if !ok {
			return false
		}
		c.SSEvent("snapshot", list)
		return true
	})
}

func AcceptRequest(c *gin.Context, verification *services.VerificationService) {
	if err := verification.Accept(c.Request.Context(), c.Param("id")); err != nil {
		resp.Error(c, "accept request", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

func RejectRequest(c *gin.Context, verification *services.VerificationService) {
	if err := verification.Reject(c.Request.Context(), c.Param("id")); err != nil {
		resp.Error(c, "reject request", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
}
