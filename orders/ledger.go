// Package orders is the append-only order ledger
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"livwell/models"
	"livwell/store"
)

// CartClearer empties an owner's cart. Clearing must be safe to repeat.
type CartClearer interface {
	Clear(ctx context.Context, owner models.CartOwner) error
}

type Ledger struct {
	repo  store.OrderRepository
	carts CartClearer
	log   *logrus.Logger

	now        func() time.Time
	clearTries uint
	newBackOff func() backoff.BackOff
}

func NewLedger(repo store.OrderRepository, carts CartClearer, log *logrus.Logger) *Ledger {
	return &Ledger{
		repo:       repo,
		carts:      carts,
		log:        log,
		now:        time.Now,
		clearTries: 3,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
}

// Create records the order and then empties the user's cart. Items and totals
// are taken as given. Once the order is stored it is returned even if the cart
// could not be cleared; that gap is logged with both ids.
func (l *Ledger) Create(ctx context.Context, in models.NewOrder) (models.Order, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return models.Order{}, fmt.Errorf("generate order id: %w", err)
	}

	order := models.Order{
		ID:            "order-" + id.String(),
		UserID:        in.UserID,
		Items:         append([]models.CartItem{}, in.Items...),
		Subtotal:      in.Subtotal,
		Shipping:      in.Shipping,
		Discount:      in.Discount,
		PromoCode:     in.PromoCode,
		Total:         in.Total,
		Status:        in.Status,
		PaymentMethod: in.PaymentMethod,
		PaymentID:     in.PaymentID,
		Address:       in.Address,
		Phone:         in.Phone,
		CreatedAt:     l.now().UTC(),
	}

	if err := l.repo.Insert(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("record order: %w", err)
	}

	logger := l.log.WithFields(logrus.Fields{"order_id": order.ID, "user_id": order.UserID})
	if err := l.clearCart(ctx, order.UserID); err != nil {
		logger.WithError(err).Error("order recorded but cart not cleared")
		return order, nil
	}
	logger.Info("order created")
	return order, nil
}

func (l *Ledger) clearCart(ctx context.Context, userID string) error {
	// the order is already stored, so a cancelled request must not stop the clear
	ctx = context.WithoutCancel(ctx)
	owner := models.Authenticated(userID)

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, l.carts.Clear(ctx, owner)
	}, backoff.WithBackOff(l.newBackOff()), backoff.WithMaxTries(l.clearTries))
	return err
}

// ForUser returns the user's orders oldest first
func (l *Ledger) ForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := l.repo.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get reports false for orders that do not exist or belong to someone else
func (l *Ledger) Get(ctx context.Context, userID, orderID string) (models.Order, bool, error) {
	order, err := l.repo.Get(ctx, userID, orderID)
	if err != nil {
		return models.Order{}, false, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return models.Order{}, false, nil
	}
	return *order, true, nil
}
