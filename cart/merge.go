package cart

import (
	"context"
	"fmt"

	"livwell/models"
)

// MergePolicy decides what happens to a guest cart when its session logs in
type MergePolicy string

const (
	// MergeNone keeps guest and user carts independent
	MergeNone MergePolicy = "none"
	// MergeAdopt re-adds every guest line into the user cart under the normal
	// add rules and then empties the guest cart
	MergeAdopt MergePolicy = "adopt"
)

func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(s) {
	case "", MergeNone:
		return MergeNone, nil
	case MergeAdopt:
		return MergeAdopt, nil
	}
	return "", fmt.Errorf("unknown cart merge policy %q", s)
}

// Merge applies policy and returns the user's lines afterwards
func (l *Ledger) Merge(ctx context.Context, guest, user models.CartOwner, policy MergePolicy) ([]models.CartItem, error) {
	if policy != MergeAdopt || guest == user {
		return l.Items(ctx, user)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	guestItems, err := l.load(ctx, guest)
	if err != nil {
		return nil, err
	}
	userItems, err := l.load(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(guestItems) == 0 {
		return userItems, nil
	}
	for _, it := range guestItems {
		userItems = addLine(userItems, it, it.ID)
	}
	if err := l.save(ctx, user, userItems); err != nil {
		return nil, err
	}
	if err := l.save(ctx, guest, []models.CartItem{}); err != nil {
		return nil, err
	}
	return userItems, nil
}
