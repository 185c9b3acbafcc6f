package session

import (
	"context"
	"sync"

	"livwell/models"
)

// MemoryStore keeps encoded documents in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
	users map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string][]byte),
		users: make(map[string][]byte),
	}
}

func (m *MemoryStore) LoadCart(_ context.Context, owner models.CartOwner) ([]models.CartItem, error) {
	m.mu.RLock()
	data, ok := m.carts[owner.Key()]
	m.mu.RUnlock()
	if !ok {
		return []models.CartItem{}, nil
	}
	return decodeCart(data)
}

func (m *MemoryStore) SaveCart(_ context.Context, owner models.CartOwner, items []models.CartItem) error {
	data, err := encodeCart(items)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.carts[owner.Key()] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) LoadUser(_ context.Context, sessionID string) (*models.User, error) {
	m.mu.RLock()
	data, ok := m.users[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodeUser(data)
}

func (m *MemoryStore) SaveUser(_ context.Context, sessionID string, user models.User) error {
	data, err := encodeUser(user)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.users[sessionID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) DeleteUser(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.users, sessionID)
	m.mu.Unlock()
	return nil
}
