package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"livwell/models"
)

// RedisStore keeps session documents in Redis as JSON strings
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore connects to redisURL and checks the connection. A zero ttl
// keeps documents forever.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, ttl), nil
}

func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: "livwell",
		ttl:       ttl,
	}
}

func (r *RedisStore) cartKey(owner models.CartOwner) string {
	return fmt.Sprintf("%s:cart:%s", r.keyPrefix, owner.Key())
}

func (r *RedisStore) userKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s:user", r.keyPrefix, sessionID)
}

// LoadCart returns an empty cart when nothing is stored for owner
func (r *RedisStore) LoadCart(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error) {
	data, err := r.client.Get(ctx, r.cartKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return decodeCart(data)
}

func (r *RedisStore) SaveCart(ctx context.Context, owner models.CartOwner, items []models.CartItem) error {
	data, err := encodeCart(items)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.cartKey(owner), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// LoadUser returns nil when the session has no account snapshot
func (r *RedisStore) LoadUser(ctx context.Context, sessionID string) (*models.User, error) {
	data, err := r.client.Get(ctx, r.userKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return decodeUser(data)
}

func (r *RedisStore) SaveUser(ctx context.Context, sessionID string, user models.User) error {
	data, err := encodeUser(user)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.userKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session user: %w", err)
	}
	return nil
}

func (r *RedisStore) DeleteUser(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.userKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session user: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
