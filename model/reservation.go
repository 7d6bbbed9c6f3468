package model

import "time"

// Reservation statuses. A reservation starts as a favourite, becomes a
// booking once the guest selects it, and is booked after confirmation.
// Cancelling a booking moves it back to favourite.
const (
	StatusFavourite = "favourite"
	StatusBooking   = "booking"
	StatusBooked    = "booked"
)

type Reservation struct {
	ReservationID  string     `json:"id"`
	UserID         string     `json:"userId"`
	HotelID        string     `json:"hotelId"`
	HotelName      string     `json:"hotelName"`
	HotelLocation  string     `json:"hotelLocation"`
	Price          string     `json:"price"`
	ImageURL       string     `json:"imageUrl"`
	Status         string     `json:"status"`
	CheckInDate    *time.Time `json:"checkInDate,omitempty"`
	NumberOfGuests int        `json:"numberOfGuests,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	BookedAt       *time.Time `json:"bookedAt,omitempty"`
}

func (r Reservation) ToData() map[string]interface{} {
	data := map[string]interface{}{
		"userId":         r.UserID,
		"hotelId":        r.HotelID,
		"hotelName":      r.HotelName,
		"hotelLocation":  r.HotelLocation,
		"price":          r.Price,
		"imageUrl":       r.ImageURL,
		"status":         r.Status,
		"numberOfGuests": r.NumberOfGuests,
		"createdAt":      r.CreatedAt,
		"updatedAt":      r.UpdatedAt,
	}
	if r.CheckInDate != nil {
		data["checkInDate"] = *r.CheckInDate
	}
	if r.BookedAt != nil {
		data["bookedAt"] = *r.BookedAt
	}
	return data
}

func ReservationFromData(id string, data map[string]interface{}) Reservation {
	return Reservation{
		ReservationID:  id,
		UserID:         getString(data, "userId"),
		HotelID:        getString(data, "hotelId"),
		HotelName:      getString(data, "hotelName"),
		HotelLocation:  getString(data, "hotelLocation"),
		Price:          getString(data, "price"),
		ImageURL:       getString(data, "imageUrl"),
		Status:         getString(data, "status"),
		CheckInDate:    getTimePtr(data, "checkInDate"),
		NumberOfGuests: getInt(data, "numberOfGuests"),
		CreatedAt:      getTime(data, "createdAt"),
		UpdatedAt:      getTime(data, "updatedAt"),
		BookedAt:       getTimePtr(data, "bookedAt"),
	}
}

// BookedReservation is a booked reservation joined with its hotel and guest
// for the host's view. Fields stay empty when the reference is gone.
type BookedReservation struct {
	Reservation
	HotelAddress string `json:"hotelAddress"`
	UserName     string `json:"userName"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Email        string `json:"email"`
}
