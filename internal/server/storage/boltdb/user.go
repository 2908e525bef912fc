package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/travlr/internal/models"
	"github.com/iudanet/travlr/internal/server/storage"
)

// CreateUser stores a new user document.
// The email index check and both writes happen in one read-write
// transaction, which bbolt serializes.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		byEmail := tx.Bucket(bucketUsersByEmail)
		users := tx.Bucket(bucketUsers)

		if byEmail.Get([]byte(user.Email)) != nil {
			return storage.ErrUserAlreadyExists
		}

		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}

		if err := users.Put([]byte(user.ID), data); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		if err := byEmail.Put([]byte(user.Email), []byte(user.ID)); err != nil {
			return fmt.Errorf("failed to index user email: %w", err)
		}

		return nil
	})
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketUsersByEmail).Get([]byte(email))
		if id == nil {
			return storage.ErrUserNotFound
		}

		var err error
		user, err = getUser(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		user, err = getUser(tx, []byte(userID))
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func getUser(tx *bbolt.Tx, id []byte) (*models.User, error) {
	data := tx.Bucket(bucketUsers).Get(id)
	if data == nil {
		return nil, storage.ErrUserNotFound
	}

	user := &models.User{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return user, nil
}
