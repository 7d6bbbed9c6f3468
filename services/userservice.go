package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hotelbooking/dto"
	"hotelbooking/model"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func newID() string {
	return uuid.New().String()
}

type UserService struct {
	store    Store
	uploader Uploader
	now      func() time.Time
}

func NewUserService(store Store, uploader Uploader) *UserService {
	return &UserService{store: store, uploader: uploader, now: time.Now}
}

// normalizeEmail is the stored form of an email address. Addresses are
// matched case-insensitively.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func (s *UserService) GetUserData(ctx context.Context, email string) (model.User, error) {
	docs, err := s.store.Find(ctx, model.CollectionUsers, Query{Limit: 1}.Where("email", "==", normalizeEmail(email)))
	if err != nil {
		return model.User{}, err
	}
	if len(docs) == 0 {
		return model.User{}, ErrUserNotFound
	}
	return model.UserFromData(docs[0].ID, docs[0].Data), nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (model.User, error) {
	doc, err := s.store.Get(ctx, model.CollectionUsers, userID)
	if err != nil {
		return model.User{}, err
	}
	return model.UserFromData(doc.ID, doc.Data), nil
}

func (s *UserService) SignUp(ctx context.Context, req dto.SignupRequest) (model.User, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" || req.ConfirmPassword == "" ||
		req.Username == "" || req.Phone == "" || req.Location == "" {
		return model.User{}, ErrMissingFields
	}
	if req.Password != req.ConfirmPassword {
		return model.User{}, ErrPasswordMismatch
	}
	return s.createUser(ctx, dto.AdminUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Location: req.Location,
		Level:    model.LevelBasic,
	})
}

// CreateUser adds a user from the admin area. New users always get the
// user role.
func (s *UserService) CreateUser(ctx context.Context, req dto.AdminUserRequest) (model.User, error) {
	if req.Password == "" {
		return model.User{}, ErrMissingFields
	}
	if req.Level == 0 {
		req.Level = model.LevelBasic
	}
	return s.createUser(ctx, req)
}

// claimEmail fails with ErrEmailInUse when a user other than userID holds
// email. It only reads, so it runs before the transaction's writes.
func claimEmail(tx Tx, email, userID string) error {
	doc, err := tx.Get(model.CollectionUserEmails, email)
	switch {
	case err == nil:
		if owner, _ := doc.Data["userId"].(string); owner != userID {
			return ErrEmailInUse
		}
	case !errors.Is(err, ErrNotFound):
		return err
	}

	// users written before the reservation collection existed
	docs, err := tx.Find(model.CollectionUsers, Query{}.Where("email", "==", email))
	if err != nil {
		return err
	}
	for _, d := range docs {
		if d.ID != userID {
			return ErrEmailInUse
		}
	}
	return nil
}

func emailOwner(userID string) map[string]interface{} {
	return map[string]interface{}{"userId": userID}
}

func (s *UserService) createUser(ctx context.Context, req dto.AdminUserRequest) (model.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := isValidEmail(req.Email); err != nil {
		return model.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		UserID:    newID(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Phone:     req.Phone,
		Location:  req.Location,
		Role:      model.RoleUser,
		Level:     req.Level,
		CreatedAt: s.now(),
	}
	// การจองอีเมลกับการสร้างผู้ใช้ต้องอยู่ใน transaction เดียวกัน
	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if err := claimEmail(tx, user.Email, user.UserID); err != nil {
			return err
		}
		if err := tx.Set(model.CollectionUserEmails, user.Email, emailOwner(user.UserID)); err != nil {
			return err
		}
		return tx.Set(model.CollectionUsers, user.UserID, user.ToData())
	})
	if errors.Is(err, ErrEmailInUse) {
		return model.User{}, ErrEmailInUse
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *UserService) SignIn(ctx context.Context, email, password string) (model.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return model.User{}, ErrMissingFields
	}
	user, err := s.GetUserData(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return model.User{}, ErrWrongPassword
	}
	return user, nil
}

// IssueTokens creates an access/refresh pair and stores the hashed
// refresh token, replacing any earlier one.
func (s *UserService) IssueTokens(ctx context.Context, user model.User) (model.TokenPair, error) {
	accessToken, err := CreateAccessToken(user)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("create access token: %w", err)
	}
	refreshToken, err := CreateRefreshToken(user.UserID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("create refresh token: %w", err)
	}
	hashedRefreshToken, err := HashRefreshToken(refreshToken)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("hash refresh token: %w", err)
	}

	now := s.now()
	stored := model.RefreshToken{
		UserID:       user.UserID,
		RefreshToken: hashedRefreshToken,
		CreatedAt:    now,
		ExpiresAt:    now.Add(refreshTokenTTL),
	}
	if err := s.store.Set(ctx, model.CollectionRefreshTokens, user.UserID, stored.ToData()); err != nil {
		return model.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh checks refreshToken against the stored one and rotates both
// tokens.
func (s *UserService) Refresh(ctx context.Context, userID, refreshToken string) (model.TokenPair, error) {
	doc, err := s.store.Get(ctx, model.CollectionRefreshTokens, userID)
	if errors.Is(err, ErrNotFound) {
		return model.TokenPair{}, ErrTokenRevoked
	}
	if err != nil {
		return model.TokenPair{}, err
	}
	stored := model.RefreshTokenFromData(doc.Data)
	if stored.Revoked || !CompareRefreshToken(stored.RefreshToken, refreshToken) {
		return model.TokenPair{}, ErrTokenRevoked
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return model.TokenPair{}, err
	}
	return s.IssueTokens(ctx, user)
}

func (s *UserService) SignOut(ctx context.Context, userID string) error {
	err := s.store.Update(ctx, model.CollectionRefreshTokens, userID, map[string]interface{}{
		"revoked": true,
	})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Navigation decides where the app lands after sign-in and which menu
// entries it shows.
func Navigation(user model.User) dto.Navigation {
	route := "Main"
	if user.IsAdmin() {
		route = "Admin"
	}
	return dto.Navigation{
		Route: route,
		Menu: dto.Menu{
			Service:       user.Level != model.LevelBasic,
			UpdateAccount: user.Level < model.LevelVerified,
		},
	}
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (model.User, error) {
	var updated model.User
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		doc, err := tx.Get(model.CollectionUsers, userID)
		if err != nil {
			return err
		}
		updated = model.UserFromData(doc.ID, doc.Data)
		updated.Username = req.Username
		updated.Phone = req.Phone
		updated.Location = req.Location
		return tx.Update(model.CollectionUsers, userID, map[string]interface{}{
			"username": req.Username,
			"phone":    req.Phone,
			"location": req.Location,
		})
	})
	if err != nil {
		return model.User{}, err
	}
	return updated, nil
}

// UpdateAvatar uploads the picture to Images/{uid}/{filename} and stores
// its URL on the user.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	url, err := s.uploader.Upload(ctx, imagePath(userID, filename), contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.store.Update(ctx, model.CollectionUsers, userID, map[string]interface{}{"avatarUrl": url}); err != nil {
		return "", err
	}
	return url, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	docs, err := s.store.Find(ctx, model.CollectionUsers, Query{}.Order("createdAt", true))
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, model.UserFromData(d.ID, d.Data))
	}
	return users, nil
}

// SearchUsers is a prefix match on email.
func (s *UserService) SearchUsers(ctx context.Context, prefix string) ([]model.User, error) {
	prefix = normalizeEmail(prefix)
	q := Query{}.
		Where("email", ">=", prefix).
		Where("email", "<=", prefix+"\uf8ff")
	docs, err := s.store.Find(ctx, model.CollectionUsers, q)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, model.UserFromData(d.ID, d.Data))
	}
	return users, nil
}

func (s *UserService) AdminUpdateUser(ctx context.Context, userID string, req dto.AdminUserRequest) (model.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := isValidEmail(req.Email); err != nil {
		return model.User{}, err
	}
	fields := map[string]interface{}{
		"username": req.Username,
		"email":    req.Email,
		"phone":    req.Phone,
		"location": req.Location,
	}
	if req.Level != 0 {
		fields["level"] = req.Level
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return model.User{}, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = string(hashedPassword)
	}

	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		doc, err := tx.Get(model.CollectionUsers, userID)
		if err != nil {
			return err
		}
		current := model.UserFromData(doc.ID, doc.Data)
		if err := claimEmail(tx, req.Email, userID); err != nil {
			return err
		}
		if old := normalizeEmail(current.Email); old != req.Email {
			if err := tx.Delete(model.CollectionUserEmails, old); err != nil {
				return err
			}
		}
		if err := tx.Set(model.CollectionUserEmails, req.Email, emailOwner(userID)); err != nil {
			return err
		}
		return tx.Update(model.CollectionUsers, userID, fields)
	})
	if err != nil {
		return model.User{}, err
	}
	return s.GetUser(ctx, userID)
}

// DeleteUser removes the user record, its email reservation and its
// refresh token.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		doc, err := tx.Get(model.CollectionUsers, userID)
		if err != nil {
			return err
		}
		user := model.UserFromData(doc.ID, doc.Data)
		if err := tx.Delete(model.CollectionUsers, userID); err != nil {
			return err
		}
		if err := tx.Delete(model.CollectionUserEmails, normalizeEmail(user.Email)); err != nil {
			return err
		}
		return tx.Delete(model.CollectionRefreshTokens, userID)
	})
}

func imagePath(userID, filename string) string {
	return fmt.Sprintf("Images/%s/%s", userID, filename)
}
