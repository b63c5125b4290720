package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Messaging errors
	ErrAdNotFound          = errors.New("ad not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidParticipants = errors.New("invalid conversation participants")
	ErrEmptyMessage        = errors.New("message must contain text or images")

	// Image upload errors
	ErrInvalidImage = errors.New("invalid image")
	ErrImageUpload  = errors.New("image upload failed")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
