package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/travlr/internal/models"
	"github.com/iudanet/travlr/internal/server/storage"
)

const tripColumns = `id, code, name, length, start, resort, per_person, image, description, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*models.Trip, error) {
	trip := &models.Trip{}
	err := row.Scan(
		&trip.ID,
		&trip.Code,
		&trip.Name,
		&trip.Length,
		&trip.Start,
		&trip.Resort,
		&trip.PerPerson,
		&trip.Image,
		&trip.Description,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// ListTrips returns all trips ordered by code
func (s *Storage) ListTrips(ctx context.Context) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY code`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	trips := make([]*models.Trip, 0)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	return trips, nil
}

// GetTripByCode retrieves a trip by its code
func (s *Storage) GetTripByCode(ctx context.Context, code string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE code = ?`

	trip, err := scanTrip(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return trip, nil
}

// CreateTrip stores a new trip
func (s *Storage) CreateTrip(ctx context.Context, trip *models.Trip) error {
	query := `INSERT INTO trips (` + tripColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		trip.ID,
		trip.Code,
		trip.Name,
		trip.Length,
		trip.Start,
		trip.Resort,
		trip.PerPerson,
		trip.Image,
		trip.Description,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrTripAlreadyExists
		}
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	return nil
}

// UpdateTrip replaces the mutable fields of the trip with the same code
func (s *Storage) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	query := `
		UPDATE trips
		SET name = ?, length = ?, start = ?, resort = ?, per_person = ?,
		    image = ?, description = ?, updated_at = ?
		WHERE code = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		trip.Name,
		trip.Length,
		trip.Start,
		trip.Resort,
		trip.PerPerson,
		trip.Image,
		trip.Description,
		trip.UpdatedAt,
		trip.Code,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrTripNotFound
	}

	return nil
}
