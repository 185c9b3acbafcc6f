// Package session is the durable per-client storage: one cart document per
// owner and one account snapshot per browser session. Every write replaces the
// whole document; concurrent writers are last-writer-wins.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"livwell/models"
)

// Store is implemented by RedisStore and MemoryStore
type Store interface {
	LoadCart(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error)
	SaveCart(ctx context.Context, owner models.CartOwner, items []models.CartItem) error
	LoadUser(ctx context.Context, sessionID string) (*models.User, error)
	SaveUser(ctx context.Context, sessionID string, user models.User) error
	DeleteUser(ctx context.Context, sessionID string) error
}

// userSnapshot is the stored account record; the password never leaves the
// account store.
type userSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

func encodeUser(u models.User) ([]byte, error) {
	return json.Marshal(userSnapshot{ID: u.ID, Name: u.Name, Email: u.Email, Address: u.Address, Phone: u.Phone})
}

func decodeUser(data []byte) (*models.User, error) {
	var s userSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode user snapshot: %w", err)
	}
	return &models.User{ID: s.ID, Name: s.Name, Email: s.Email, Address: s.Address, Phone: s.Phone}, nil
}

func encodeCart(items []models.CartItem) ([]byte, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	return json.Marshal(items)
}

func decodeCart(data []byte) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}
