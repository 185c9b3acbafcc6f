// Package store holds the account and order repositories. The memory
// implementations back tests and single-process runs; the Mongo ones back
// deployments.
package store

import (
	"context"

	"livwell/models"
)

// UserRepository persists accounts. Lookups of unknown ids or emails return
// nil with no error.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, user models.User) error
	Replace(ctx context.Context, user models.User) error
}

// OrderRepository is append-only
type OrderRepository interface {
	Insert(ctx context.Context, order models.Order) error
	ForUser(ctx context.Context, userID string) ([]models.Order, error)
	Get(ctx context.Context, userID, orderID string) (*models.Order, error)
}
