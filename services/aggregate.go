package services

import (
	"fmt"
	"strings"
	"time"

	"hotelbooking/model"
)

// FilterByPrice keeps hotels whose price lies within the given bounds. A
// nil bound does not constrain. With no bounds the input is returned as
// is; otherwise hotels without a readable price are dropped.
func FilterByPrice(hotels []model.Hotel, min, max *int64) []model.Hotel {
	if min == nil && max == nil {
		return hotels
	}
	out := make([]model.Hotel, 0, len(hotels))
	for _, h := range hotels {
		p, ok := model.ParsePrice(h.Price)
		if !ok {
			continue
		}
		if min != nil && p < *min {
			continue
		}
		if max != nil && p > *max {
			continue
		}
		out = append(out, h)
	}
	return out
}

// FilterByLocation is a case-insensitive substring match. An empty query
// keeps everything.
func FilterByLocation(hotels []model.Hotel, query string) []model.Hotel {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return hotels
	}
	out := make([]model.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if strings.Contains(strings.ToLower(h.HotelLocation), q) {
			out = append(out, h)
		}
	}
	return out
}

type HotelGroup struct {
	Location string        `json:"location"`
	Hotels   []model.Hotel `json:"hotels"`
}

// GroupByLocation partitions hotels by location. Groups appear in the order
// their first hotel appears.
func GroupByLocation(hotels []model.Hotel) []HotelGroup {
	index := make(map[string]int)
	var groups []HotelGroup
	for _, h := range hotels {
		i, ok := index[h.HotelLocation]
		if !ok {
			i = len(groups)
			index[h.HotelLocation] = i
			groups = append(groups, HotelGroup{Location: h.HotelLocation})
		}
		groups[i].Hotels = append(groups[i].Hotels, h)
	}
	return groups
}

// FormatBookingDate renders t as an en-US short date, e.g. "3/7/2025".
func FormatBookingDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// BookingGroupKey is hotelId + "_" + booking date. The date is the
// confirmation time, or the creation time for older records.
func BookingGroupKey(r model.Reservation, loc *time.Location) string {
	return r.HotelID + "_" + FormatBookingDate(bookingTime(r), loc)
}

func bookingTime(r model.Reservation) time.Time {
	if r.BookedAt != nil {
		return *r.BookedAt
	}
	return r.CreatedAt
}

type BookingGroup struct {
	Key          string                    `json:"key"`
	HotelID      string                    `json:"hotelId"`
	HotelName    string                    `json:"hotelName"`
	Date         string                    `json:"date"`
	Reservations []model.BookedReservation `json:"reservations"`
}

func GroupBookings(items []model.BookedReservation, loc *time.Location) []BookingGroup {
	index := make(map[string]int)
	var groups []BookingGroup
	for _, item := range items {
		key := BookingGroupKey(item.Reservation, loc)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, BookingGroup{
				Key:       key,
				HotelID:   item.HotelID,
				HotelName: item.HotelName,
				Date:      FormatBookingDate(bookingTime(item.Reservation), loc),
			})
		}
		groups[i].Reservations = append(groups[i].Reservations, item)
	}
	return groups
}

// SelectionTotal sums the prices of the selected reservations. A price
// that cannot be read counts as zero.
func SelectionTotal(items []model.Reservation, selected map[string]bool) int64 {
	var total int64
	for _, r := range items {
		if !selected[r.ReservationID] {
			continue
		}
		if p, ok := model.ParsePrice(r.Price); ok {
			total += p
		}
	}
	return total
}
