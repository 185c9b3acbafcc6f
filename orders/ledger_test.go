package orders

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livwell/cart"
	"livwell/models"
	"livwell/session"
	"livwell/store"
)

type flakyClearer struct {
	failures int
	calls    int
}

func (f *flakyClearer) Clear(context.Context, models.CartOwner) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("storage unavailable")
	}
	return nil
}

func newTestLedger(carts CartClearer) (*Ledger, *test.Hook) {
	log, hook := test.NewNullLogger()
	l := NewLedger(store.NewMemoryOrderRepository(), carts, log)
	l.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return l, hook
}

func sampleOrder(userID string) models.NewOrder {
	return models.NewOrder{
		UserID:        userID,
		Items:         []models.CartItem{{ID: "l1", JuiceID: "1", Quantity: 2, Price: decimal.RequireFromString("69.99")}},
		Total:         decimal.RequireFromString("145.97"),
		Status:        models.StatusPending,
		PaymentMethod: models.PaymentCOD,
		Address:       "1 Main St, Pune, 411001",
		Phone:         "9999999999",
	}
}

func TestCreateClearsCart(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStore()
	carts := cart.NewLedger(storage)
	l, _ := newTestLedger(carts)

	owner := models.Authenticated("user-1")
	_, err := carts.AddItem(ctx, owner, models.CartItem{JuiceID: "1", Quantity: 2, Price: decimal.RequireFromString("69.99")})
	require.NoError(t, err)

	order, err := l.Create(ctx, sampleOrder("user-1"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.ID, "order-"))
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, models.StatusPending, order.Status)

	items, err := carts.Items(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateRetriesClear(t *testing.T) {
	clearer := &flakyClearer{failures: 2}
	l, hook := newTestLedger(clearer)

	_, err := l.Create(context.Background(), sampleOrder("user-1"))
	require.NoError(t, err)
	assert.Equal(t, 3, clearer.calls)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestCreateLogsDivergence(t *testing.T) {
	clearer := &flakyClearer{failures: 100}
	l, hook := newTestLedger(clearer)

	order, err := l.Create(context.Background(), sampleOrder("user-1"))
	require.NoError(t, err, "the order is durable even when the clear fails")
	assert.Equal(t, 3, clearer.calls)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, order.ID, entry.Data["order_id"])
	assert.Equal(t, "user-1", entry.Data["user_id"])

	orders, err := l.ForUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestForUserAndGet(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(&flakyClearer{})

	first, err := l.Create(ctx, sampleOrder("user-1"))
	require.NoError(t, err)
	_, err = l.Create(ctx, sampleOrder("user-2"))
	require.NoError(t, err)
	second, err := l.Create(ctx, sampleOrder("user-1"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	orders, err := l.ForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)

	got, ok, err := l.Get(ctx, "user-1", second.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, second.ID, got.ID)

	_, ok, err = l.Get(ctx, "user-1", "order-missing")
	require.NoError(t, err)
	assert.False(t, ok)

	orders, err = l.ForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateAcceptsEmptyOrder(t *testing.T) {
	l, _ := newTestLedger(&flakyClearer{})

	order, err := l.Create(context.Background(), models.NewOrder{UserID: "user-1"})
	require.NoError(t, err)
	assert.NotNil(t, order.Items)
	assert.Empty(t, order.Items)
}
