package models

import "errors"

// Sentinel errors for the failure classes the API distinguishes.
// Handlers map these to HTTP status codes with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrExpired         = errors.New("expired")
	ErrInvalidOTP      = errors.New("invalid OTP")
	ErrAlreadyVerified = errors.New("already verified")
	ErrAlreadyLiked    = errors.New("already liked")
)
