package dto

import "time"

type FavouriteRequest struct {
	HotelID string `json:"hotelId" binding:"required"`
}

type SelectionRequest struct {
	IDs []string `json:"ids"`
}

type ConfirmBookingRequest struct {
	CheckInDate    time.Time `json:"checkInDate" binding:"required"`
	NumberOfGuests int       `json:"numberOfGuests" binding:"required,min=1"`
}

type TotalResponse struct {
	Total    int64  `json:"total"`
	Currency string `json:"currency"`
}
