package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshToken is the stored, hashed form of the refresh token handed out
// at sign-in. Keyed by user ID, so each user has one live refresh token.
type RefreshToken struct {
	UserID       string    `json:"userId"`
	RefreshToken string    `json:"refreshToken"` // sha256 + bcrypt
	CreatedAt    time.Time `json:"createdAt"`
	Revoked      bool      `json:"revoked"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (t RefreshToken) ToData() map[string]interface{} {
	return map[string]interface{}{
		"userId":       t.UserID,
		"refreshToken": t.RefreshToken,
		"createdAt":    t.CreatedAt,
		"revoked":      t.Revoked,
		"expiresAt":    t.ExpiresAt,
	}
}

func RefreshTokenFromData(data map[string]interface{}) RefreshToken {
	revoked, _ := data["revoked"].(bool)
	return RefreshToken{
		UserID:       getString(data, "userId"),
		RefreshToken: getString(data, "refreshToken"),
		CreatedAt:    getTime(data, "createdAt"),
		Revoked:      revoked,
		ExpiresAt:    getTime(data, "expiresAt"),
	}
}

type AccessClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"Role,omitempty"`
	Level  int    `json:"level"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenPair is returned by sign-in and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
