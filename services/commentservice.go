package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotelbooking/model"
)

type CommentService struct {
	store Store
	now   func() time.Time
}

func NewCommentService(store Store) *CommentService {
	return &CommentService{store: store, now: time.Now}
}

func (s *CommentService) Add(ctx context.Context, userID, hotelID, content string) (model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Comment{}, fmt.Errorf("comment is empty: %w", ErrValidation)
	}
	if _, err := s.store.Get(ctx, model.CollectionHotels, hotelID); err != nil {
		return model.Comment{}, err
	}
	comment := model.Comment{
		CommentID: newID(),
		UserID:    userID,
		HotelID:   hotelID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.store.Set(ctx, model.CollectionComments, comment.CommentID, comment.ToData()); err != nil {
		return model.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}

func hotelCommentsQuery(hotelID string) Query {
	return Query{}.Where("hotelId", "==", hotelID).Order("createdAt", true)
}

// List returns a hotel's comments, newest first.
func (s *CommentService) List(ctx context.Context, hotelID string) ([]model.Comment, error) {
	docs, err := s.store.Find(ctx, model.CollectionComments, hotelCommentsQuery(hotelID))
	if err != nil {
		return nil, err
	}
	comments := make([]model.Comment, 0, len(docs))
	for _, d := range docs {
		comments = append(comments, model.CommentFromData(d.ID, d.Data))
	}
	return comments, nil
}

func (s *CommentService) Listen(ctx context.Context, hotelID string, fn func(Snapshot) error) error {
	return s.store.Listen(ctx, model.CollectionComments, hotelCommentsQuery(hotelID), fn)
}
