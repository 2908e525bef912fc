package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTripNotFound indicates that no trip has the requested code
	ErrTripNotFound = errors.New("trip not found")

	// ErrTripAlreadyExists indicates that the trip code is taken
	ErrTripAlreadyExists = errors.New("trip already exists")
)
