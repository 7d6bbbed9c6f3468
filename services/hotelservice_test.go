package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/dto"
	"hotelbooking/model"
)

func hotelForm(name, location, price string) dto.HotelForm {
	return dto.HotelForm{
		HotelName:      name,
		HotelLocation:  location,
		HotelNote:      "near the beach",
		Price:          price,
		NumberOfPeople: 2,
	}
}

func image(name string) File {
	return File{Name: name, ContentType: "image/jpeg", Body: strings.NewReader("jpeg-bytes")}
}

// fixedClock returns a clock that advances one minute per call.
func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func newHotelService(store Store, uploader Uploader) *HotelService {
	s := NewHotelService(store, uploader)
	s.now = fixedClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	return s
}

func TestHotelCreate(t *testing.T) {
	store := NewMemStore()
	uploader := NewMemUploader()
	hotels := newHotelService(store, uploader)
	ctx := context.Background()

	h, err := hotels.Create(ctx, "host1", hotelForm("Sea View", "Nha Trang", "100"), []File{image("front.jpg"), image("room.jpg")})
	require.NoError(t, err)
	assert.Equal(t, "100 VND", h.Price)
	assert.Equal(t, "host1", h.UserID)
	require.Len(t, h.Images, 2)
	for _, url := range h.Images {
		assert.True(t, strings.HasPrefix(url, "mem://Images/host1/"), url)
	}
	assert.Len(t, uploader.Objects, 2)

	stored, err := hotels.Get(ctx, h.HotelID)
	require.NoError(t, err)
	assert.Equal(t, h.Images, stored.Images)
	assert.Equal(t, "Sea View", stored.HotelName)

	_, err = hotels.Create(ctx, "host1", hotelForm("No Images", "Hue", "100"), nil)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = hotels.Create(ctx, "host1", hotelForm("Bad Price", "Hue", "cheap"), []File{image("x.jpg")})
	assert.True(t, errors.Is(err, ErrValidation))

	uploader.Fail = errors.New("bucket unavailable")
	_, err = hotels.Create(ctx, "host1", hotelForm("Broken", "Hue", "100"), []File{image("x.jpg")})
	assert.Error(t, err)
	all, err := hotels.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "a failed upload creates no hotel")
}

func TestHotelListAndSearch(t *testing.T) {
	store := NewMemStore()
	hotels := newHotelService(store, NewMemUploader())
	ctx := context.Background()

	first, err := hotels.Create(ctx, "host1", hotelForm("Sunrise Inn", "Ha Noi", "100"), []File{image("a.jpg")})
	require.NoError(t, err)
	second, err := hotels.Create(ctx, "host2", hotelForm("Sunset Lodge", "Hue", "200"), []File{image("b.jpg")})
	require.NoError(t, err)
	third, err := hotels.Create(ctx, "host1", hotelForm("Moon Hotel", "Ha Noi", "300"), []File{image("c.jpg")})
	require.NoError(t, err)

	all, err := hotels.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{third.HotelID, second.HotelID, first.HotelID}, ids(all))

	found, err := hotels.Search(ctx, "SUN")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.HotelID, second.HotelID}, ids(found))

	found, err = hotels.Search(ctx, "sunr")
	require.NoError(t, err)
	assert.Equal(t, []string{first.HotelID}, ids(found))

	found, err = hotels.Search(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, found)

	mine, err := hotels.ListByOwner(ctx, "host1")
	require.NoError(t, err)
	assert.Equal(t, []string{third.HotelID, first.HotelID}, ids(mine))
}

func TestHotelUpdateAndDelete(t *testing.T) {
	store := NewMemStore()
	hotels := newHotelService(store, NewMemUploader())
	ctx := context.Background()

	h, err := hotels.Create(ctx, "host1", hotelForm("Old Name", "Hue", "100"), []File{image("a.jpg"), image("b.jpg")})
	require.NoError(t, err)

	form := hotelForm("New Name", "Hue", "150 VND")
	form.KeepImages = []string{h.Images[1], "https://elsewhere/not-ours.jpg"}
	updated, err := hotels.Update(ctx, "host1", h.HotelID, form, []File{image("c.jpg")})
	require.NoError(t, err)
	assert.Equal(t, "150 VND", updated.Price)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, h.Images[1], updated.Images[0])

	found, err := hotels.Search(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, []string{h.HotelID}, ids(found), "the search key follows the new name")

	_, err = hotels.Update(ctx, "intruder", h.HotelID, form, nil)
	assert.True(t, errors.Is(err, ErrForbidden))

	err = hotels.Delete(ctx, model.User{UserID: "intruder", Role: model.RoleUser}, h.HotelID)
	assert.True(t, errors.Is(err, ErrForbidden))

	err = hotels.Delete(ctx, model.User{UserID: "someone", Role: model.RoleAdmin}, h.HotelID)
	require.NoError(t, err)
	_, err = hotels.Get(ctx, h.HotelID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHotelListWithOwners(t *testing.T) {
	store := NewMemStore()
	hotels := newHotelService(store, NewMemUploader())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, model.CollectionUsers, "host1", model.User{Username: "Lan", Email: "lan@example.com"}.ToData()))
	_, err := hotels.Create(ctx, "host1", hotelForm("Kept", "Hue", "100"), []File{image("a.jpg")})
	require.NoError(t, err)
	_, err = hotels.Create(ctx, "ghost", hotelForm("Orphan", "Hue", "100"), []File{image("b.jpg")})
	require.NoError(t, err)

	list, err := hotels.ListWithOwners(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Orphan", list[0].HotelName)
	assert.Empty(t, list[0].OwnerEmail)
	assert.Equal(t, "lan@example.com", list[1].OwnerEmail)
}
