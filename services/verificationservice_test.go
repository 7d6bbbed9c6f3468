package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/dto"
	"hotelbooking/model"
)

func verificationFiles() map[string]File {
	return map[string]File{
		"frontId":             {Name: "front.jpg", ContentType: "image/jpeg", Body: strings.NewReader("front")},
		"backId":              {Name: "back.jpg", ContentType: "image/jpeg", Body: strings.NewReader("back")},
		"businessCertificate": {Name: "cert.jpg", ContentType: "image/jpeg", Body: strings.NewReader("cert")},
	}
}

var verificationForm = dto.VerificationForm{Fullname: "Tran Van Minh", Address: "12 Le Loi", Phone: "0901"}

func TestVerificationAccept(t *testing.T) {
	store := NewMemStore()
	uploader := NewMemUploader()
	users := NewUserService(store, uploader)
	verification := NewVerificationService(store, uploader)
	ctx := context.Background()

	user, err := users.SignUp(ctx, signupRequest("minh@example.com"))
	require.NoError(t, err)
	assert.Equal(t, model.LevelBasic, user.Level)

	req, err := verification.Submit(ctx, user.UserID, verificationForm, verificationFiles())
	require.NoError(t, err)
	assert.Equal(t, user.UserID, req.RequestID)
	assert.Equal(t, "Minh", req.RequestedBy.Username)
	for _, name := range []string{"frontId.jpg", "backId.jpg", "businessCertificate.jpg"} {
		assert.True(t, uploader.Has("users/"+user.UserID+"/"+name), name)
	}

	pending, err := verification.List(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "minh@example.com", pending[0].Email)

	require.NoError(t, verification.Accept(ctx, req.RequestID))

	upgraded, err := users.GetUser(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.LevelVerified, upgraded.Level)
	_, err = store.Get(ctx, model.CollectionUpdateAccount, req.RequestID)
	assert.True(t, errors.Is(err, ErrNotFound), "the request is removed")

	_, err = verification.Submit(ctx, user.UserID, verificationForm, verificationFiles())
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerificationRejectAndMissingUser(t *testing.T) {
	store := NewMemStore()
	uploader := NewMemUploader()
	users := NewUserService(store, uploader)
	verification := NewVerificationService(store, uploader)
	ctx := context.Background()

	user, err := users.SignUp(ctx, signupRequest("minh@example.com"))
	require.NoError(t, err)

	files := verificationFiles()
	delete(files, "backId")
	_, err = verification.Submit(ctx, user.UserID, verificationForm, files)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = verification.Submit(ctx, user.UserID, verificationForm, verificationFiles())
	require.NoError(t, err)
	require.NoError(t, verification.Reject(ctx, user.UserID))

	stored, err := users.GetUser(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.LevelBasic, stored.Level, "reject leaves the level alone")
	assert.True(t, errors.Is(verification.Reject(ctx, user.UserID), ErrNotFound))

	orphan := model.VerificationRequest{RequestedBy: model.RequestedBy{UID: "ghost"}}
	require.NoError(t, store.Set(ctx, model.CollectionUpdateAccount, "ghost", orphan.ToData()))
	pending, err := verification.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "requests of vanished users are skipped")

	assert.True(t, errors.Is(verification.Accept(ctx, "ghost"), ErrNotFound))
}
