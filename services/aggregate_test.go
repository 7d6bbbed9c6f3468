package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/model"
)

func int64p(n int64) *int64 { return &n }

func sampleHotels() []model.Hotel {
	return []model.Hotel{
		{HotelID: "a", HotelLocation: "Ha Noi", Price: "100 VND"},
		{HotelID: "b", HotelLocation: "Da Nang", Price: "250 VND"},
		{HotelID: "c", HotelLocation: "Ha Noi", Price: "400 VND"},
		{HotelID: "d", HotelLocation: "Hue", Price: "free"},
		{HotelID: "e", HotelLocation: "ha noi old quarter", Price: "50 VND"},
	}
}

func ids(hotels []model.Hotel) []string {
	out := make([]string, 0, len(hotels))
	for _, h := range hotels {
		out = append(out, h.HotelID)
	}
	return out
}

func TestFilterByPrice(t *testing.T) {
	hotels := sampleHotels()

	assert.Equal(t, hotels, FilterByPrice(hotels, nil, nil), "no bounds keeps the list unchanged")
	assert.Equal(t, []string{"a", "b"}, ids(FilterByPrice(hotels, int64p(100), int64p(250))))
	assert.Equal(t, []string{"b", "c"}, ids(FilterByPrice(hotels, int64p(200), nil)))
	assert.Equal(t, []string{"a", "e"}, ids(FilterByPrice(hotels, nil, int64p(100))))
	assert.Empty(t, FilterByPrice(hotels, int64p(500), int64p(600)))
}

func TestFilterByLocation(t *testing.T) {
	hotels := sampleHotels()

	assert.Equal(t, []string{"a", "c", "e"}, ids(FilterByLocation(hotels, "ha noi")))
	assert.Equal(t, []string{"a", "c", "e"}, ids(FilterByLocation(hotels, "HA NOI")))
	assert.Equal(t, []string{"b"}, ids(FilterByLocation(hotels, "nang")))
	assert.Len(t, FilterByLocation(hotels, "  "), len(hotels))
}

func TestGroupByLocation(t *testing.T) {
	hotels := sampleHotels()
	groups := GroupByLocation(hotels)

	require.Len(t, groups, 4)
	assert.Equal(t, "Ha Noi", groups[0].Location)
	assert.Equal(t, []string{"a", "c"}, ids(groups[0].Hotels))
	assert.Equal(t, "Da Nang", groups[1].Location)
	assert.Equal(t, "Hue", groups[2].Location)

	seen := map[string]int{}
	for _, g := range groups {
		for _, h := range g.Hotels {
			seen[h.HotelID]++
		}
	}
	assert.Len(t, seen, len(hotels))
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestBookingGroupKey(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	morning := time.Date(2025, 3, 7, 8, 0, 0, 0, loc)
	evening := time.Date(2025, 3, 7, 22, 30, 0, 0, loc)
	nextDay := time.Date(2025, 3, 8, 0, 10, 0, 0, loc)

	a := model.Reservation{HotelID: "h1", BookedAt: &morning}
	b := model.Reservation{HotelID: "h1", BookedAt: &evening}
	c := model.Reservation{HotelID: "h1", BookedAt: &nextDay}
	d := model.Reservation{HotelID: "h2", CreatedAt: morning}

	assert.Equal(t, "h1_3/7/2025", BookingGroupKey(a, loc))
	assert.Equal(t, BookingGroupKey(a, loc), BookingGroupKey(b, loc))
	assert.NotEqual(t, BookingGroupKey(a, loc), BookingGroupKey(c, loc))
	assert.Equal(t, "h2_3/7/2025", BookingGroupKey(d, loc))

	groups := GroupBookings([]model.BookedReservation{
		{Reservation: a}, {Reservation: d}, {Reservation: b},
	}, loc)
	require.Len(t, groups, 2)
	assert.Equal(t, "h1_3/7/2025", groups[0].Key)
	assert.Len(t, groups[0].Reservations, 2)
	assert.Equal(t, "3/7/2025", groups[1].Date)
}

func TestSelectionTotal(t *testing.T) {
	items := []model.Reservation{
		{ReservationID: "1", Price: "100 VND"},
		{ReservationID: "2", Price: "250 VND"},
		{ReservationID: "3", Price: "n/a"},
	}

	assert.Equal(t, int64(0), SelectionTotal(items, nil))
	assert.Equal(t, int64(0), SelectionTotal(items, map[string]bool{}))
	assert.Equal(t, int64(250), SelectionTotal(items, map[string]bool{"2": true, "1": false}))
	assert.Equal(t, int64(350), SelectionTotal(items, map[string]bool{"1": true, "2": true, "3": true}))
}
