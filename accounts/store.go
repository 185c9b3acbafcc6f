// Package accounts manages user accounts: the raw account store and the
// signup, login and profile flows built on it.
package accounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"livwell/models"
	"livwell/store"
)

// Store is the account store. It keeps whatever it is given: it neither
// hashes passwords nor rejects duplicate emails.
type Store struct {
	repo store.UserRepository
}

func NewStore(repo store.UserRepository) *Store {
	return &Store{repo: repo}
}

// FindByEmail is an exact, case-sensitive match; nil when absent
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// Create assigns a fresh id and stores the user
func (s *Store) Create(ctx context.Context, in models.NewUser) (models.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return models.User{}, fmt.Errorf("generate user id: %w", err)
	}
	u := models.User{
		ID:       "user-" + id.String(),
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Address:  in.Address,
		Phone:    in.Phone,
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UpdateProfile merges the set fields over the stored user and returns the
// result, or nil when the id is unknown
func (s *Store) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	updated := update.Apply(*u)
	if err := s.repo.Replace(ctx, updated); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &updated, nil
}
