package model

import (
	"strings"
	"time"
)

type Hotel struct {
	HotelID        string    `json:"id"`
	HotelName      string    `json:"hotelName"`
	HotelLocation  string    `json:"hotelLocation"`
	HotelNote      string    `json:"hotelNote"`
	Images         []string  `json:"images"`
	Price          string    `json:"price"` // e.g. "100 VND"
	NumberOfPeople int       `json:"numberOfPeople"`
	UserID         string    `json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CoverImage is the first image, or the placeholder the app shows when a
// hotel has none.
func (h Hotel) CoverImage() string {
	if len(h.Images) > 0 {
		return h.Images[0]
	}
	return PlaceholderImage
}

const PlaceholderImage = "https://via.placeholder.com/150"

func (h Hotel) ToData() map[string]interface{} {
	images := h.Images
	if images == nil {
		images = []string{}
	}
	return map[string]interface{}{
		"hotelName":      h.HotelName,
		"hotelNameLower": strings.ToLower(h.HotelName),
		"hotelLocation":  h.HotelLocation,
		"hotelNote":      h.HotelNote,
		"images":         images,
		"price":          h.Price,
		"numberOfPeople": h.NumberOfPeople,
		"userId":         h.UserID,
		"createdAt":      h.CreatedAt,
	}
}

func HotelFromData(id string, data map[string]interface{}) Hotel {
	return Hotel{
		HotelID:        id,
		HotelName:      getString(data, "hotelName"),
		HotelLocation:  getString(data, "hotelLocation"),
		HotelNote:      getString(data, "hotelNote"),
		Images:         getStrings(data, "images"),
		Price:          getString(data, "price"),
		NumberOfPeople: getInt(data, "numberOfPeople"),
		UserID:         getString(data, "userId"),
		CreatedAt:      getTime(data, "createdAt"),
	}
}
