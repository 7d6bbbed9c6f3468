package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"hotelbooking/dto"
	"hotelbooking/model"
)

// Document slots of a verification request and their object names.
var verificationDocuments = []string{"frontId", "backId", "businessCertificate"}

type VerificationService struct {
	store    Store
	uploader Uploader
	now      func() time.Time
}

func NewVerificationService(store Store, uploader Uploader) *VerificationService {
	return &VerificationService{store: store, uploader: uploader, now: time.Now}
}

// Submit uploads the three documents to users/{uid}/ and files the
// request under the user's ID, replacing an earlier one.
func (s *VerificationService) Submit(ctx context.Context, userID string, form dto.VerificationForm, files map[string]File) (model.VerificationRequest, error) {
	userDoc, err := s.store.Get(ctx, model.CollectionUsers, userID)
	if err != nil {
		return model.VerificationRequest{}, err
	}
	user := model.UserFromData(userDoc.ID, userDoc.Data)
	if user.Level >= model.LevelVerified {
		return model.VerificationRequest{}, ErrAlreadyVerified
	}
	for _, slot := range verificationDocuments {
		if _, ok := files[slot]; !ok {
			return model.VerificationRequest{}, fmt.Errorf("%s is required: %w", slot, ErrValidation)
		}
	}

	urls := make(map[string]string, len(verificationDocuments))
	for _, slot := range verificationDocuments {
		f := files[slot]
		objectPath := fmt.Sprintf("users/%s/%s.jpg", userID, slot)
		url, err := s.uploader.Upload(ctx, objectPath, f.ContentType, f.Body)
		if err != nil {
			return model.VerificationRequest{}, fmt.Errorf("upload %s: %w", slot, err)
		}
		urls[slot] = url
	}

	req := model.VerificationRequest{
		RequestID:              userID,
		Fullname:               form.Fullname,
		Address:                form.Address,
		Phone:                  form.Phone,
		FrontIDURL:             urls["frontId"],
		BackIDURL:              urls["backId"],
		BusinessCertificateURL: urls["businessCertificate"],
		RequestedBy:            model.RequestedBy{UID: userID, Username: user.Username},
		CreatedAt:              s.now(),
	}
	if err := s.store.Set(ctx, model.CollectionUpdateAccount, userID, req.ToData()); err != nil {
		return model.VerificationRequest{}, fmt.Errorf("submit verification: %w", err)
	}
	return req, nil
}

func (s *VerificationService) enrich(ctx context.Context, docs []Document) []model.VerificationRequest {
	requests := make([]model.VerificationRequest, 0, len(docs))
	for _, d := range docs {
		req := model.VerificationRequestFromData(d.ID, d.Data)
		userDoc, err := s.store.Get(ctx, model.CollectionUsers, req.RequestedBy.UID)
		if err != nil {
			log.Printf("verification %s: user %s not found: %v", req.RequestID, req.RequestedBy.UID, err)
			continue
		}
		req.Email = model.UserFromData(userDoc.ID, userDoc.Data).Email
		requests = append(requests, req)
	}
	return requests
}

// List returns pending requests joined with the requester's email. A
// request whose user no longer exists is skipped.
func (s *VerificationService) List(ctx context.Context) ([]model.VerificationRequest, error) {
	docs, err := s.store.Find(ctx, model.CollectionUpdateAccount, Query{})
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, docs), nil
}

// Listen calls fn with the enriched request list after every change.
func (s *VerificationService) Listen(ctx context.Context, fn func([]model.VerificationRequest) error) error {
	return s.store.Listen(ctx, model.CollectionUpdateAccount, Query{}, func(snap Snapshot) error {
		return fn(s.enrich(ctx, snap.Docs))
	})
}

// Accept raises the requester to LevelVerified and removes the request in
// one transaction.
func (s *VerificationService) Accept(ctx context.Context, requestID string) error {
	return s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		doc, err := tx.Get(model.CollectionUpdateAccount, requestID)
		if err != nil {
			return err
		}
		req := model.VerificationRequestFromData(doc.ID, doc.Data)
		uid := req.RequestedBy.UID
		if uid == "" {
			uid = req.RequestID
		}
		if _, err := tx.Get(model.CollectionUsers, uid); err != nil {
			return err
		}
		if err := tx.Update(model.CollectionUsers, uid, map[string]interface{}{"level": model.LevelVerified}); err != nil {
			return err
		}
		return tx.Delete(model.CollectionUpdateAccount, requestID)
	})
}

func (s *VerificationService) Reject(ctx context.Context, requestID string) error {
	if _, err := s.store.Get(ctx, model.CollectionUpdateAccount, requestID); err != nil {
		return err
	}
	return s.store.Delete(ctx, model.CollectionUpdateAccount, requestID)
}
