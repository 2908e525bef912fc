package storage

import (
	"context"

	"github.com/iudanet/travlr/internal/models"
)

// TripStorage defines interface for the trip catalogue
type TripStorage interface {
	// ListTrips returns all trips ordered by code
	// Returns empty slice if there are none
	ListTrips(ctx context.Context) ([]*models.Trip, error)

	// GetTripByCode returns ErrTripNotFound if code is unknown
	GetTripByCode(ctx context.Context, code string) (*models.Trip, error)

	// CreateTrip returns ErrTripAlreadyExists if code is taken
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// UpdateTrip replaces the trip with the same code
	// Returns ErrTripNotFound if code is unknown
	UpdateTrip(ctx context.Context, trip *models.Trip) error
}

// Store is everything the server needs from a backend.
type Store interface {
	UserStorage
	TripStorage
	Ping(ctx context.Context) error
	Close() error
}
