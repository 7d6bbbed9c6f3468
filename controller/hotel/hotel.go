package hotel

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelbooking/controller/resp"
	"hotelbooking/dto"
	"hotelbooking/middleware"
	"hotelbooking/model"
	"hotelbooking/services"
)

func HotelController(router *gin.Engine, hotels *services.HotelService, users *services.UserService, panels *services.PanelService) {
	router.GET("/homepage", func(c *gin.Context) {
		ListPanels(c, panels)
	})

	routes := router.Group("/hotels")
	{
		routes.GET("", func(c *gin.Context) {
			ListHotels(c, hotels)
		})
		routes.GET("/search", func(c *gin.Context) {
			SearchHotels(c, hotels)
		})
		routes.GET("/stream", func(c *gin.Context) {
			StreamHotels(c, hotels)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetHotel(c, hotels)
		})
	}

	auth := router.Group("/hotels", middleware.AccessTokenMiddleware())
	{
		auth.GET("/mine", func(c *gin.Context) {
			ListMyHotels(c, hotels)
		})
		auth.POST("", func(c *gin.Context) {
			CreateHotel(c, hotels)
		})
		auth.PUT("/:id", func(c *gin.Context) {
			UpdateHotel(c, hotels)
		})
		auth.DELETE("/:id", func(c *gin.Context) {
			DeleteHotel(c, hotels, users)
		})
	}
}

func priceBound(s string) *int64 {
	n, ok := model.ParsePrice(s)
	if !ok {
		return nil
	}
	return &n
}

// ListHotels returns the hotels, newest first, after the optional price and
// location filters, together with the same hotels grouped by location.
func ListHotels(c *gin.Context, hotels *services.HotelService) {
	var filter dto.HotelFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		resp.BadRequest(c, err)
		return
	}

	list, err := hotels.List(c.Request.Context())
	if err != nil {
		resp.Error(c, "fetch hotels", err)
		return
	}
	list = services.FilterByPrice(list, priceBound(filter.MinPrice), priceBound(filter.MaxPrice))
	list = services.FilterByLocation(list, filter.Location)

	c.JSON(http.StatusOK, gin.H{
		"hotels": list,
		"groups": services.GroupByLocation(list),
	})
}

func SearchHotels(c *gin.Context, hotels *services.HotelService) {
	list, err := hotels.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		resp.Error(c, "search hotels", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hotels": list})
}

func StreamHotels(c *gin.Context, hotels *services.HotelService) {
	resp.Stream(c, "stream hotels", hotels.Listen, func(d services.Document) any {
		return model.HotelFromData(d.ID, d.Data)
	})
}

func GetHotel(c *gin.Context, hotels *services.HotelService) {
	h, err := hotels.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Error(c, "fetch hotel", err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func ListMyHotels(c *gin.Context, hotels *services.HotelService) {
	list, err := hotels.ListByOwner(c.Request.Context(), resp.UserID(c))
	if err != nil {
		resp.Error(c, "fetch hotels", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hotels": list})
}

// bindHotelForm reads the multipart form and opens its "images" parts.
func bindHotelForm(c *gin.Context) (dto.HotelForm, []services.File, func(), bool) {
	var form dto.HotelForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrMissingFields.Error(), "detail": err.Error()})
		return form, nil, nil, false
	}
	mf := c.Request.MultipartForm
	if mf == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form is required"})
		return form, nil, nil, false
	}
	files, closeFiles, err := resp.OpenFiles(mf.File["images"])
	if err != nil {
		resp.Error(c, "read images", err)
		return form, nil, nil, false
	}
	return form, files, closeFiles, true
}

func CreateHotel(c *gin.Context, hotels *services.HotelService) {
	form, files, closeFiles, ok := bindHotelForm(c)
	if !ok {
		return
	}
	defer closeFiles()

	h, err := hotels.Create(c.Request.Context(), resp.UserID(c), form, files)
	if err != nil {
		resp.Error(c, "create hotel", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Hotel added successfully",
		"hotel":   h,
	})
}

func UpdateHotel(c *gin.Context, hotels *services.HotelService) {
	form, files, closeFiles, ok := bindHotelForm(c)
	if !ok {
		return
	}
	defer closeFiles()

	h, err := hotels.Update(c.Request.Context(), resp.UserID(c), c.Param("id"), form, files)
	if err != nil {
		resp.Error(c, "update hotel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Hotel updated successfully",
		"hotel":   h,
	})
}

func DeleteHotel(c *gin.Context, hotels *services.HotelService, users *services.UserService) {
	user, err := users.GetUser(c.Request.Context(), resp.UserID(c))
	if err != nil {
		resp.Error(c, "delete hotel", err)
		return
	}
	if err := hotels.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
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
