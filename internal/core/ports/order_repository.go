package ports

import (
	"context"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the surrounding transaction
	// ends. Every read-modify-write of the lifecycle must use it so that concurrent
	// claims on the same order serialize and re-check their preconditions.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListWithLegacyFields returns up to limit orders whose stored status is not in its
	// canonical spelling or whose availability flag is missing.
	ListWithLegacyFields(ctx context.Context, limit int) ([]*order.Order, error)
}
