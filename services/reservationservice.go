package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"hotelbooking/model"
)

// ReservationService moves a user's reservations through
// favourite -> booking -> booked. Every multi-record move runs in one
// transaction, so a reservation is never in two states or none.
type ReservationService struct {
	store    Store
	location *time.Location
	now      func() time.Time
}

func NewReservationService(store Store, location *time.Location) *ReservationService {
	if location == nil {
		location = time.Local
	}
	return &ReservationService{store: store, location: location, now: time.Now}
}

func reservationsFrom(docs []Document) []model.Reservation {
	out := make([]model.Reservation, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.ReservationFromData(d.ID, d.Data))
	}
	return out
}

func newestFirst(items []model.Reservation) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func userStatusQuery(userID, status string) Query {
	return Query{}.Where("userId", "==", userID).Where("status", "==", status)
}

// AddFavourite saves a hotel for later, copying the hotel fields the lists
// show. If the user already has the hotel as a favourite or booking, that
// reservation is returned instead.
func (s *ReservationService) AddFavourite(ctx context.Context, userID, hotelID string) (model.Reservation, error) {
	doc, err := s.store.Get(ctx, model.CollectionHotels, hotelID)
	if err != nil {
		return model.Reservation{}, err
	}
	hotel := model.HotelFromData(doc.ID, doc.Data)

	existing, err := s.store.Find(ctx, model.CollectionReservations,
		Query{}.Where("userId", "==", userID).Where("hotelId", "==", hotelID))
	if err != nil {
		return model.Reservation{}, err
	}
	for _, r := range reservationsFrom(existing) {
		if r.Status == model.StatusFavourite || r.Status == model.StatusBooking {
			return r, nil
		}
	}

	now := s.now()
	r := model.Reservation{
		ReservationID: newID(),
		UserID:        userID,
		HotelID:       hotel.HotelID,
		HotelName:     hotel.HotelName,
		HotelLocation: hotel.HotelLocation,
		Price:         hotel.Price,
		ImageURL:      hotel.CoverImage(),
		Status:        model.StatusFavourite,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Set(ctx, model.CollectionReservations, r.ReservationID, r.ToData()); err != nil {
		return model.Reservation{}, fmt.Errorf("add favourite: %w", err)
	}
	return r, nil
}

// BookFavourites turns the selected favourites into bookings.
func (s *ReservationService) BookFavourites(ctx context.Context, userID string, ids []string) ([]model.Reservation, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no favourites selected: %w", ErrValidation)
	}
	var moved []model.Reservation
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		moved = moved[:0]
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			doc, err := tx.Get(model.CollectionReservations, id)
			if err != nil {
				return err
			}
			r := model.ReservationFromData(doc.ID, doc.Data)
			if r.UserID != userID {
				return ErrForbidden
			}
			if r.Status != model.StatusFavourite {
				return fmt.Errorf("%s is %s: %w", id, r.Status, ErrInvalidTransition)
			}
			moved = append(moved, r)
		}

		now := s.now()
		for i := range moved {
			moved[i].Status = model.StatusBooking
			moved[i].UpdatedAt = now
			err := tx.Update(model.CollectionReservations, moved[i].ReservationID, map[string]interface{}{
				"status":    model.StatusBooking,
				"updatedAt": now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// CancelBookings moves all of the user's bookings back to favourites and
// returns how many moved.
func (s *ReservationService) CancelBookings(ctx context.Context, userID string) (int, error) {
	count := 0
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		docs, err := tx.Find(model.CollectionReservations, userStatusQuery(userID, model.StatusBooking))
		if err != nil {
			return err
		}
		count = len(docs)
		now := s.now()
		for _, d := range docs {
			err := tx.Update(model.CollectionReservations, d.ID, map[string]interface{}{
				"status":    model.StatusFavourite,
				"updatedAt": now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return count, err
}

// ConfirmBookings books every pending booking of the user with the given
// check-in date and party size.
func (s *ReservationService) ConfirmBookings(ctx context.Context, userID string, checkInDate time.Time, numberOfGuests int) ([]model.Reservation, error) {
	if numberOfGuests < 1 {
		return nil, fmt.Errorf("number of guests must be at least 1: %w", ErrValidation)
	}
	if checkInDate.IsZero() {
		return nil, fmt.Errorf("check-in date is required: %w", ErrValidation)
	}
	var booked []model.Reservation
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		docs, err := tx.Find(model.CollectionReservations, userStatusQuery(userID, model.StatusBooking))
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("no bookings to confirm: %w", ErrInvalidTransition)
		}
		booked = reservationsFrom(docs)

		now := s.now()
		for i := range booked {
			booked[i].Status = model.StatusBooked
			booked[i].CheckInDate = &checkInDate
			booked[i].NumberOfGuests = numberOfGuests
			booked[i].BookedAt = &now
			booked[i].UpdatedAt = now
			err := tx.Update(model.CollectionReservations, booked[i].ReservationID, map[string]interface{}{
				"status":         model.StatusBooked,
				"checkInDate":    checkInDate,
				"numberOfGuests": numberOfGuests,
				"bookedAt":       now,
				"updatedAt":      now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booked, nil
}

// Delete removes a favourite or booking. The reservation must be in
// status; booked reservations are history and stay.
func (s *ReservationService) Delete(ctx context.Context, userID, id, status string) error {
	return s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		doc, err := tx.Get(model.CollectionReservations, id)
		if err != nil {
			return err
		}
		r := model.ReservationFromData(doc.ID, doc.Data)
		if r.UserID != userID {
			return ErrForbidden
		}
		if r.Status == model.StatusBooked {
			return fmt.Errorf("%s is booked: %w", id, ErrInvalidTransition)
		}
		if r.Status != status {
			return fmt.Errorf("%s is a %s, not a %s: %w", id, r.Status, status, ErrInvalidTransition)
		}
		return tx.Delete(model.CollectionReservations, id)
	})
}

// List returns the user's reservations in one status, newest first.
func (s *ReservationService) List(ctx context.Context, userID, status string) ([]model.Reservation, error) {
	docs, err := s.store.Find(ctx, model.CollectionReservations, userStatusQuery(userID, status))
	if err != nil {
		return nil, err
	}
	items := reservationsFrom(docs)
	newestFirst(items)
	return items, nil
}

// Total sums the price of the selected reservations among the user's
// reservations in status.
func (s *ReservationService) Total(ctx context.Context, userID, status string, ids []string) (int64, error) {
	items, err := s.List(ctx, userID, status)
	if err != nil {
		return 0, err
	}
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	return SelectionTotal(items, selected), nil
}

// BookedForHost lists the booked reservations of the host's hotels joined
// with hotel and guest details, grouped by hotel and booking date.
func (s *ReservationService) BookedForHost(ctx context.Context, hostID string) ([]BookingGroup, error) {
	hotelDocs, err := s.store.Find(ctx, model.CollectionHotels, Query{}.Where("userId", "==", hostID))
	if err != nil {
		return nil, err
	}

	var items []model.BookedReservation
	guests := make(map[string]*model.User)
	for _, hotel := range hotelsFrom(hotelDocs) {
		docs, err := s.store.Find(ctx, model.CollectionReservations,
			Query{}.Where("hotelId", "==", hotel.HotelID).Where("status", "==", model.StatusBooked))
		if err != nil {
			return nil, err
		}
		for _, r := range reservationsFrom(docs) {
			item := model.BookedReservation{Reservation: r}
			item.HotelName = hotel.HotelName
			item.HotelAddress = hotel.HotelLocation

			guest, seen := guests[r.UserID]
			if !seen {
				guest = s.lookupGuest(ctx, r)
				guests[r.UserID] = guest
			}
			if guest != nil {
				item.UserName = guest.Username
				item.Phone = guest.Phone
				item.Address = guest.Location
				item.Email = guest.Email
			}
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return bookingTime(items[i].Reservation).After(bookingTime(items[j].Reservation))
	})
	return GroupBookings(items, s.location), nil
}

func (s *ReservationService) lookupGuest(ctx context.Context, r model.Reservation) *model.User {
	doc, err := s.store.Get(ctx, model.CollectionUsers, r.UserID)
	if err != nil {
		log.Printf("booked %s: guest %s not found: %v", r.ReservationID, r.UserID, err)
		return nil
	}
	u := model.UserFromData(doc.ID, doc.Data)
	return &u
}

// Listen streams the user's reservations in status. The stream is ordered
// by creation time, oldest first.
func (s *ReservationService) Listen(ctx context.Context, userID, status string, fn func(Snapshot) error) error {
	return s.store.Listen(ctx, model.CollectionReservations,
		userStatusQuery(userID, status).Order("createdAt", false), fn)
}

// SweepOrphans deletes favourites and bookings whose hotel no longer
// exists and returns how many were removed.
func (s *ReservationService) SweepOrphans(ctx context.Context) (int, error) {
	hotelExists := make(map[string]bool)
	removed := 0
	for _, status := range []string{model.StatusFavourite, model.StatusBooking} {
		docs, err := s.store.Find(ctx, model.CollectionReservations, Query{}.Where("status", "==", status))
		if err != nil {
			return removed, err
		}
		for _, r := range reservationsFrom(docs) {
			exists, seen := hotelExists[r.HotelID]
			if !seen {
				_, err := s.store.Get(ctx, model.CollectionHotels, r.HotelID)
				switch {
				case err == nil:
					exists = true
				case errors.Is(err, ErrNotFound):
					exists = false
				default:
					return removed, err
				}
				hotelExists[r.HotelID] = exists
			}
			if exists {
				continue
			}
			if err := s.store.Delete(ctx, model.CollectionReservations, r.ReservationID); err != nil {
				return removed, err
			}
			log.Printf("sweep: removed %s %s of deleted hotel %s", r.Status, r.ReservationID, r.HotelID)
			removed++
		}
	}
	return removed, nil
}
