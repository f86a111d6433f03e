package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Space related errors
	ErrSpaceNotFound = errors.New("sport space not found")
	ErrSpaceInactive = errors.New("sport space is inactive")
	ErrSportNotFound = errors.New("sport not found")

	// Booking related errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingOverlap    = errors.New("booking overlaps an existing booking")
	ErrOutsideSchedule   = errors.New("booking is outside the space schedule")
	ErrInvalidTimeWindow = errors.New("invalid time window")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
