package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"100 VND", 100, true},
		{"  250", 250, true},
		{"42abc", 42, true},
		{"-5 VND", -5, true},
		{"VND 100", 0, false},
		{"", 0, false},
		{"9223372036854775807 VND", 9223372036854775807, true},
		{"9223372036854775808 VND", 0, false},
		{"18446744073709551716 VND", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParsePrice(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "100 VND", FormatPrice(100))
}

func TestHotelRoundTrip(t *testing.T) {
	h := Hotel{HotelName: "Sea View", Images: []string{"a", "b"}, NumberOfPeople: 3}
	data := h.ToData()
	assert.Equal(t, "sea view", data["hotelNameLower"])

	// stores hand back ints as int64 and arrays as []interface{}
	data["numberOfPeople"] = int64(3)
	data["images"] = []interface{}{"a", "b"}
	got := HotelFromData("h1", data)
	assert.Equal(t, "h1", got.HotelID)
	assert.Equal(t, 3, got.NumberOfPeople)
	assert.Equal(t, []string{"a", "b"}, got.Images)
	assert.Equal(t, "a", got.CoverImage())
	assert.Equal(t, PlaceholderImage, Hotel{}.CoverImage())
}
