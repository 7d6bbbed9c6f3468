package services

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmailInUse        = errors.New("That email address is already in use!")
	ErrInvalidEmail      = errors.New("That email address is invalid!")
	ErrPasswordMismatch  = errors.New("Passwords do not match!")
	ErrMissingFields     = errors.New("Please fill in all fields")
	ErrUserNotFound      = errors.New("No user corresponding to the given email.")
	ErrWrongPassword     = errors.New("Wrong password.")
	ErrAlreadyVerified   = errors.New("account is already verified")
	ErrValidation        = errors.New("validation failed")
	ErrTokenRevoked      = errors.New("refresh token revoked")
)
