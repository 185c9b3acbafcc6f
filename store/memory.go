package store

import (
	"context"
	"fmt"
	"sync"

	"livwell/models"
)

// MemoryUserRepository keeps users in insertion order
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUserRepository(seed ...models.User) *MemoryUserRepository {
	return &MemoryUserRepository{users: append([]models.User(nil), seed...)}
}

// FindByEmail returns the first user with exactly this email
func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// Insert does not check for duplicate emails
func (r *MemoryUserRepository) Insert(_ context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == user.ID {
			return fmt.Errorf("user %s already exists", user.ID)
		}
	}
	r.users = append(r.users, user)
	return nil
}

func (r *MemoryUserRepository) Replace(_ context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = user
			return nil
		}
	}
	return fmt.Errorf("user %s not found", user.ID)
}

// MemoryOrderRepository keeps orders in insertion order
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

func (r *MemoryOrderRepository) Insert(_ context.Context, order models.Order) error {
	order.Items = append([]models.CartItem(nil), order.Items...)

	r.mu.Lock()
	r.orders = append(r.orders, order)
	r.mu.Unlock()
	return nil
}

// ForUser never returns nil
func (r *MemoryOrderRepository) ForUser(_ context.Context, userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []models.Order{}
	for _, o := range r.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (r *MemoryOrderRepository) Get(_ context.Context, userID, orderID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == orderID && o.UserID == userID {
			found := o
			return &found, nil
		}
	}
	return nil, nil
}
