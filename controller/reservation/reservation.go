package reservation

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

func ReservationController(router *gin.Engine, reservations *services.ReservationService) {
	favourites := router.Group("/favourites", middleware.AccessTokenMiddleware())
	{
		favourites.GET("", func(c *gin.Context) {
			ListReservations(c, reservations, model.StatusFavourite)
		})
		favourites.GET("/stream", func(c *gin.Context) {
			StreamFavourites(c, reservations)
		})
		favourites.POST("", func(c *gin.Context) {
			AddFavourite(c, reservations)
		})
		favourites.POST("/total", func(c *gin.Context) {
			SelectionTotal(c, reservations, model.StatusFavourite)
		})
		favourites.POST("/book", func(c *gin.Context) {
			BookFavourites(c, reservations)
		})
		favourites.DELETE("/:id", func(c *gin.Context) {
			DeleteReservation(c, reservations, model.StatusFavourite)
		})
	}

	bookings := router.Group("/bookings", middleware.AccessTokenMiddleware())
	{
		bookings.GET("", func(c *gin.Context) {
			ListReservations(c, reservations, model.StatusBooking)
		})
		bookings.POST("/total", func(c *gin.Context) {
			SelectionTotal(c, reservations, model.StatusBooking)
		})
		bookings.POST("/cancel", func(c *gin.Context) {
			CancelBookings(c, reservations)
		})
		bookings.POST("/confirm", func(c *gin.Context) {
			ConfirmBookings(c, reservations)
		})
		bookings.DELETE("/:id", func(c *gin.Context) {
			DeleteReservation(c, reservations, model.StatusBooking)
		})
	}

	booked := router.Group("/booked", middleware.AccessTokenMiddleware())
	{
		booked.GET("", func(c *gin.Context) {
			ListReservations(c, reservations, model.StatusBooked)
		})
		booked.GET("/host", func(c *gin.Context) {
			BookedForHost(c, reservations)
		})
	}
}

func ListReservations(c *gin.Context, reservations *services.ReservationService, status string) {
	items, err := reservations.List(c.Request.Context(), resp.UserID(c), status)
	if err != nil {
		resp.Error(c, "fetch "+status, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func StreamFavourites(c *gin.Context, reservations *services.ReservationService) {
	userID := resp.UserID(c)
	resp.Stream(c, "stream favourites", func(ctx context.Context, fn func(services.Snapshot) error) error {
		return reservations.Listen(ctx, userID, model.StatusFavourite, fn)
	}, func(d services.Document) any {
		return model.ReservationFromData(d.ID, d.Data)
	})
}

func AddFavourite(c *gin.Context, reservations *services.ReservationService) {
	var req dto.FavouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err)
		return
	}
	r, err := reservations.AddFavourite(c.Request.Context(), resp.UserID(c), req.HotelID)
	if err != nil {
		resp.Error(c, "add favourite", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Added to favourites",
		"reservation": r,
	})
}

func SelectionTotal(c *gin.Context, reservations *services.ReservationService, status string) {
	var req dto.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err)
		return
	}
	total, err := reservations.Total(c.Request.Context(), resp.UserID(c), status, req.IDs)
	if err != nil {
		resp.Error(c, "compute total", err)
		return
	}
	c.JSON(http.StatusOK, dto.TotalResponse{Total: total, Currency: "VND"})
}

func BookFavourites(c *gin.Context, reservations *services.ReservationService) {
	var req dto.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err)
		return
	}
	items, err := reservations.BookFavourites(c.Request.Context(), resp.UserID(c), req.IDs)
	if err != nil {
		resp.Error(c, "book favourites", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking successful",
		"items":   items,
	})
}

func CancelBookings(c *gin.Context, reservations *services.ReservationService) {
	count, err := reservations.CancelBookings(c.Request.Context(), resp.UserID(c))
	if err != nil {
		resp.Error(c, "cancel bookings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled",
		"moved":   count,
	})
}

func ConfirmBookings(c *gin.Context, reservations *services.ReservationService) {
	var req dto.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err)
		return
	}
	items, err := reservations.ConfirmBookings(c.Request.Context(), resp.UserID(c), req.CheckInDate, req.NumberOfGuests)
	if err != nil {
		resp.Error(c, "confirm bookings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking confirmed",
		"items":   items,
	})
}

func DeleteReservation(c *gin.Context, reservations *services.ReservationService, status string) {
	if err := reservations.Delete(c.Request.Context(), resp.UserID(c), c.Param("id"), status); err != nil {
		resp.Error(c, "delete reservation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

func BookedForHost(c *gin.Context, reservations *services.ReservationService) {
	groups, err := reservations.BookedForHost(c.Request.Context(), resp.UserID(c))
	if err != nil {
		resp.Error(c, "fetch booked", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}
