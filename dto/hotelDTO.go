package dto

// HotelForm is the multipart form of create and edit. Images travel as
// separate "images" file parts.
type HotelForm struct {
	HotelName      string `form:"hotelName" binding:"required"`
	HotelLocation  string `form:"hotelLocation" binding:"required"`
	HotelNote      string `form:"hotelNote" binding:"required"`
	Price          string `form:"price" binding:"required,price"`
	NumberOfPeople int    `form:"numberOfPeople" binding:"required,min=1,max=6"`
	// KeepImages lists existing image URLs to keep on edit.
	KeepImages []string `form:"keepImages"`
}

// HotelFilter bounds are read like the price field itself; a bound that
// is empty or not a number is ignored.
type HotelFilter struct {
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
	Location string `form:"location"`
}
