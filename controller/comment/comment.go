package comment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelbooking/controller/resp"
	"hotelbooking/dto"
	"hotelbooking/middleware"
	"hotelbooking/model"
	"hotelbooking/services"
)

func CommentController(router *gin.Engine, comments *services.CommentService) {
	routes := router.Group("/hotels/:id/comments")
	{
		routes.GET("", func(c *gin.Context) {
			ListComments(c, comments)
		})
		routes.GET("/stream", func(c *gin.Context) {
			StreamComments(c, comments)
		})
		routes.POST("", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			AddComment(c, comments)
		})
	}
}

func ListComments(c *gin.Context, comments *services.CommentService) {
	list, err := comments.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Error(c, "fetch comments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": list})
}

func StreamComments(c *gin.Context, comments *services.CommentService) {
	hotelID := c.Param("id")
	resp.Stream(c, "stream comments", func(ctx context.Context, fn func(services.Snapshot) error) error {
		return comments.Listen(ctx, hotelID, fn)
	}, func(d services.Document) any {
		return model.CommentFromData(d.ID, d.Data)
	})
}

func AddComment(c *gin.Context, comments *services.CommentService) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err)
		return
	}
	comment, err := comments.Add(c.Request.Context(), resp.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		resp.Error(c, "add comment", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
