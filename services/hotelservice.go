package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"hotelbooking/dto"
	"hotelbooking/model"
)

type HotelService struct {
	store    Store
	uploader Uploader
	now      func() time.Time
}

func NewHotelService(store Store, uploader Uploader) *HotelService {
	return &HotelService{store: store, uploader: uploader, now: time.Now}
}

// HotelWithOwner is a hotel as the admin list shows it.
type HotelWithOwner struct {
	model.Hotel
	OwnerName  string `json:"ownerName"`
	OwnerEmail string `json:"ownerEmail"`
}

func hotelsFrom(docs []Document) []model.Hotel {
	hotels := make([]model.Hotel, 0, len(docs))
	for _, d := range docs {
		hotels = append(hotels, model.HotelFromData(d.ID, d.Data))
	}
	return hotels
}

// uploadImages uploads every file under Images/{uid}/ and returns the URLs
// in order. It stops at the first failure.
func (s *HotelService) uploadImages(ctx context.Context, userID string, files []File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		name := fmt.Sprintf("%s_%s", newID(), f.Name)
		url, err := s.uploader.Upload(ctx, imagePath(userID, name), f.ContentType, f.Body)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *HotelService) Create(ctx context.Context, userID string, form dto.HotelForm, images []File) (model.Hotel, error) {
	amount, ok := model.ParsePrice(form.Price)
	if !ok || amount <= 0 {
		return model.Hotel{}, fmt.Errorf("price %q: %w", form.Price, ErrValidation)
	}
	if len(images) == 0 {
		return model.Hotel{}, fmt.Errorf("at least one image is required: %w", ErrValidation)
	}

	urls, err := s.uploadImages(ctx, userID, images)
	if err != nil {
		return model.Hotel{}, err
	}

	hotel := model.Hotel{
		HotelID:        newID(),
		HotelName:      form.HotelName,
		HotelLocation:  form.HotelLocation,
		HotelNote:      form.HotelNote,
		Images:         urls,
		Price:          model.FormatPrice(amount),
		NumberOfPeople: form.NumberOfPeople,
		UserID:         userID,
		CreatedAt:      s.now(),
	}
	if err := s.store.Set(ctx, model.CollectionHotels, hotel.HotelID, hotel.ToData()); err != nil {
		return model.Hotel{}, fmt.Errorf("create hotel: %w", err)
	}
	return hotel, nil
}

// Update replaces the hotel's fields. Images listed in form.KeepImages are
// kept if the hotel has them, new files are appended after them.
func (s *HotelService) Update(ctx context.Context, userID, hotelID string, form dto.HotelForm, images []File) (model.Hotel, error) {
	current, err := s.Get(ctx, hotelID)
	if err != nil {
		return model.Hotel{}, err
	}
	if current.UserID != userID {
		return model.Hotel{}, ErrForbidden
	}
	amount, ok := model.ParsePrice(form.Price)
	if !ok || amount <= 0 {
		return model.Hotel{}, fmt.Errorf("price %q: %w", form.Price, ErrValidation)
	}

	existing := make(map[string]bool, len(current.Images))
	for _, url := range current.Images {
		existing[url] = true
	}
	kept := make([]string, 0, len(form.KeepImages)+len(images))
	for _, url := range form.KeepImages {
		if existing[url] {
			kept = append(kept, url)
		}
	}
	if len(kept)+len(images) == 0 {
		return model.Hotel{}, fmt.Errorf("at least one image is required: %w", ErrValidation)
	}
	urls, err := s.uploadImages(ctx, userID, images)
	if err != nil {
		return model.Hotel{}, err
	}

	updated := current
	updated.HotelName = form.HotelName
	updated.HotelLocation = form.HotelLocation
	updated.HotelNote = form.HotelNote
	updated.Price = model.FormatPrice(amount)
	updated.NumberOfPeople = form.NumberOfPeople
	updated.Images = append(kept, urls...)

	err = s.store.Update(ctx, model.CollectionHotels, hotelID, map[string]interface{}{
		"hotelName":      updated.HotelName,
		"hotelNameLower": strings.ToLower(updated.HotelName),
		"hotelLocation":  updated.HotelLocation,
		"hotelNote":      updated.HotelNote,
		"price":          updated.Price,
		"numberOfPeople": updated.NumberOfPeople,
		"images":         updated.Images,
	})
	if err != nil {
		return model.Hotel{}, err
	}
	return updated, nil
}

// Delete removes a hotel. Only its owner or an admin may do so.
func (s *HotelService) Delete(ctx context.Context, user model.User, hotelID string) error {
	hotel, err := s.Get(ctx, hotelID)
	if err != nil {
		return err
	}
	if hotel.UserID != user.UserID && !user.IsAdmin() {
		return ErrForbidden
	}
	return s.store.Delete(ctx, model.CollectionHotels, hotelID)
}

func (s *HotelService) Get(ctx context.Context, hotelID string) (model.Hotel, error) {
	doc, err := s.store.Get(ctx, model.CollectionHotels, hotelID)
	if err != nil {
		return model.Hotel{}, err
	}
	return model.HotelFromData(doc.ID, doc.Data), nil
}

func listHotelsQuery() Query {
	return Query{}.Order("createdAt", true)
}

// List returns every hotel, newest first.
func (s *HotelService) List(ctx context.Context) ([]model.Hotel, error) {
	docs, err := s.store.Find(ctx, model.CollectionHotels, listHotelsQuery())
	if err != nil {
		return nil, err
	}
	return hotelsFrom(docs), nil
}

// Search is a case-insensitive prefix match on the hotel name.
func (s *HotelService) Search(ctx context.Context, query string) ([]model.Hotel, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []model.Hotel{}, nil
	}
	docs, err := s.store.Find(ctx, model.CollectionHotels, Query{}.
		Where("hotelNameLower", ">=", q).
		Where("hotelNameLower", "<=", q+"\uf8ff"))
	if err != nil {
		return nil, err
	}
	return hotelsFrom(docs), nil
}

// ListByOwner returns the hotels a host listed, newest first.
func (s *HotelService) ListByOwner(ctx context.Context, userID string) ([]model.Hotel, error) {
	docs, err := s.store.Find(ctx, model.CollectionHotels, Query{}.Where("userId", "==", userID))
	if err != nil {
		return nil, err
	}
	hotels := hotelsFrom(docs)
	sort.SliceStable(hotels, func(i, j int) bool {
		return hotels[i].CreatedAt.After(hotels[j].CreatedAt)
	})
	return hotels, nil
}

// ListWithOwners joins every hotel with its owner. A hotel whose owner is
// gone is still listed, with empty owner fields.
func (s *HotelService) ListWithOwners(ctx context.Context) ([]HotelWithOwner, error) {
	hotels, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	owners := make(map[string]*model.User)
	out := make([]HotelWithOwner, 0, len(hotels))
	for _, h := range hotels {
		owner, seen := owners[h.UserID]
		if !seen {
			doc, err := s.store.Get(ctx, model.CollectionUsers, h.UserID)
			if err != nil {
				log.Printf("hotel %s: owner %s not found: %v", h.HotelID, h.UserID, err)
			} else {
				u := model.UserFromData(doc.ID, doc.Data)
				owner = &u
			}
			owners[h.UserID] = owner
		}
		item := HotelWithOwner{Hotel: h}
		if owner != nil {
			item.OwnerName = owner.Username
			item.OwnerEmail = owner.Email
		}
		out = append(out, item)
	}
	return out, nil
}

// Listen streams the hotel list, newest first.
func (s *HotelService) Listen(ctx context.Context, fn func(Snapshot) error) error {
	return s.store.Listen(ctx, model.CollectionHotels, listHotelsQuery(), fn)
}
