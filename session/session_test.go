package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livwell/models"
)

// setupTestRedis starts a miniredis instance and a client pointing at it
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func sampleItems() []models.CartItem {
	return []models.CartItem{
		{ID: "l1", JuiceID: "1", Quantity: 2, Price: decimal.RequireFromString("69.99")},
		{ID: "l2", IsCustom: true, Quantity: 1, Price: decimal.NewFromInt(45),
			CustomName: "Custom Apple Juice", CustomIngredients: []string{"Water", "Apple"}},
	}
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	guest := models.Guest("sid-1")
	user := models.Authenticated("user-1")

	items, err := s.LoadCart(ctx, guest)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	require.NoError(t, s.SaveCart(ctx, guest, sampleItems()))

	items, err = s.LoadCart(ctx, guest)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "l1", items[0].ID)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("69.99")))
	assert.Equal(t, []string{"Water", "Apple"}, items[1].CustomIngredients)

	other, err := s.LoadCart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, other, "guest and user carts are separate documents")

	require.NoError(t, s.SaveCart(ctx, guest, nil))
	items, err = s.LoadCart(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, items)

	u, err := s.LoadUser(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, s.SaveUser(ctx, "sid-1", models.User{ID: "user-1", Name: "A", Email: "a@x.com", Password: "secret"}))
	u, err = s.LoadUser(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Empty(t, u.Password)

	require.NoError(t, s.DeleteUser(ctx, "sid-1"))
	u, err = s.LoadUser(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	_, client := setupTestRedis(t)
	testStore(t, NewRedisStoreWithClient(client, 0))
}

func TestRedisStoreKeysAndTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewRedisStoreWithClient(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.SaveCart(ctx, models.Authenticated("user-9"), sampleItems()))
	assert.True(t, mr.Exists("livwell:cart:user:user-9"))
	assert.Equal(t, time.Hour, mr.TTL("livwell:cart:user:user-9"))

	mr.FastForward(2 * time.Hour)
	items, err := s.LoadCart(ctx, models.Authenticated("user-9"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRedisStoreCorruptDocument(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewRedisStoreWithClient(client, 0)
	require.NoError(t, mr.Set("livwell:cart:guest:bad", "{not json"))

	_, err := s.LoadCart(context.Background(), models.Guest("bad"))
	assert.Error(t, err)
}

func TestNewRedisStoreBadURL(t *testing.T) {
	_, err := NewRedisStore("not a url", 0)
	assert.Error(t, err)
}
