package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/travlr/internal/models"
	"github.com/iudanet/travlr/internal/server/storage"
)

// ListTrips returns all trips ordered by code
func (s *Storage) ListTrips(ctx context.Context) ([]*models.Trip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trips := make([]*models.Trip, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		// bbolt хранит ключи отсортированными, так что порядок по коду бесплатный
		return tx.Bucket(bucketTrips).ForEach(func(k, v []byte) error {
			trip := &models.Trip{}
			if err := json.Unmarshal(v, trip); err != nil {
				return fmt.Errorf("failed to unmarshal trip %s: %w", k, err)
			}
			trips = append(trips, trip)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return trips, nil
}

// GetTripByCode retrieves a trip by its code
func (s *Storage) GetTripByCode(ctx context.Context, code string) (*models.Trip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var trip *models.Trip
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTrips).Get([]byte(code))
		if data == nil {
			return storage.ErrTripNotFound
		}

		trip = &models.Trip{}
		if err := json.Unmarshal(data, trip); err != nil {
			return fmt.Errorf("failed to unmarshal trip: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// CreateTrip stores a new trip
func (s *Storage) CreateTrip(ctx context.Context, trip *models.Trip) error {
	return s.putTrip(ctx, trip, false)
}

// UpdateTrip replaces an existing trip
func (s *Storage) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	return s.putTrip(ctx, trip, true)
}

// putTrip пишет документ; mustExist определяет, create это или update
func (s *Storage) putTrip(ctx context.Context, trip *models.Trip, mustExist bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTrips)
		key := []byte(trip.Code)
		exists := bucket.Get(key) != nil

		switch {
		case mustExist && !exists:
			return storage.ErrTripNotFound
		case !mustExist && exists:
			return storage.ErrTripAlreadyExists
		}

		data, err := json.Marshal(trip)
		if err != nil {
			return fmt.Errorf("failed to marshal trip: %w", err)
		}

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save trip: %w", err)
		}
		return nil
	})
}
