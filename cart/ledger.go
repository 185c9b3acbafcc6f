// Package cart is the cart ledger: line items per owner, written through to
// durable storage on every change.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"livwell/models"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidItem     = errors.New("item must reference exactly one juice or dish, or be a custom blend")
)

// Storage persists whole line lists per owner
type Storage interface {
	LoadCart(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error)
	SaveCart(ctx context.Context, owner models.CartOwner, items []models.CartItem) error
}

// Ledger serialises load-modify-save for the process. Writers in other
// processes are not coordinated with.
type Ledger struct {
	storage Storage
	mu      sync.Mutex
	newID   func() string
}

func NewLedger(storage Storage) *Ledger {
	return &Ledger{
		storage: storage,
		newID:   uuid.NewString,
	}
}

// Summary holds the derived reads of a cart
type Summary struct {
	Items          []models.CartItem `json:"items"`
	TotalItemCount int               `json:"totalItems"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
}

func Summarize(items []models.CartItem) Summary {
	return Summary{Items: items, TotalItemCount: TotalItemCount(items), Subtotal: Subtotal(items)}
}

// TotalItemCount is the sum of quantities
func TotalItemCount(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Subtotal is the sum of price × quantity
func Subtotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func validate(item models.CartItem) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	refs := 0
	if item.JuiceID != "" {
		refs++
	}
	if item.DishID != "" {
		refs++
	}
	if item.IsCustom && refs != 0 || !item.IsCustom && refs != 1 {
		return ErrInvalidItem
	}
	return nil
}

func (l *Ledger) load(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error) {
	items, err := l.storage.LoadCart(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", owner, err)
	}
	return items, nil
}

func (l *Ledger) save(ctx context.Context, owner models.CartOwner, items []models.CartItem) error {
	if err := l.storage.SaveCart(ctx, owner, items); err != nil {
		return fmt.Errorf("save cart %s: %w", owner, err)
	}
	return nil
}

// Items returns the owner's lines; an owner with no cart has none
func (l *Ledger) Items(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error) {
	return l.load(ctx, owner)
}

// AddItem gives item a fresh line id and appends it, unless it is a catalog
// item already in the cart, in which case the existing line's quantity grows
// and its price stays as it was. Custom blends always get their own line.
func (l *Ledger) AddItem(ctx context.Context, owner models.CartOwner, item models.CartItem) ([]models.CartItem, error) {
	if err := validate(item); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	items, err := l.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	items = addLine(items, item, l.newID())
	if err := l.save(ctx, owner, items); err != nil {
		return nil, err
	}
	return items, nil
}

func addLine(items []models.CartItem, item models.CartItem, id string) []models.CartItem {
	if !item.IsCustom {
		for i := range items {
			if items[i].SameProduct(item) {
				items[i].Quantity += item.Quantity
				return items
			}
		}
	}
	item.ID = id
	return append(items, item)
}

// RemoveItem deletes a line. Removing an unknown line changes nothing.
func (l *Ledger) RemoveItem(ctx context.Context, owner models.CartOwner, lineID string) ([]models.CartItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	items, err := l.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	kept := items[:0:0]
	for _, it := range items {
		if it.ID != lineID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return items, nil
	}
	if err := l.save(ctx, owner, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// UpdateQuantity sets a line's quantity. Quantities below 1 are rejected with
// ErrInvalidQuantity and the cart is returned unchanged; unknown lines are a
// no-op.
func (l *Ledger) UpdateQuantity(ctx context.Context, owner models.CartOwner, lineID string, quantity int) ([]models.CartItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	items, err := l.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return items, ErrInvalidQuantity
	}
	for i := range items {
		if items[i].ID == lineID {
			items[i].Quantity = quantity
			if err := l.save(ctx, owner, items); err != nil {
				return nil, err
			}
			return items, nil
		}
	}
	return items, nil
}

// Clear empties the owner's cart. Clearing twice is the same as clearing once.
func (l *Ledger) Clear(ctx context.Context, owner models.CartOwner) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.save(ctx, owner, []models.CartItem{})
}

func (l *Ledger) Summary(ctx context.Context, owner models.CartOwner) (Summary, error) {
	items, err := l.Items(ctx, owner)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items), nil
}
