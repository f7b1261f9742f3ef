// Package ports defines the contracts between the application core and its
// adapters: persistence, inventory, notification and event publication.
package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a newly placed order with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order if the stored version still equals
	// aggregate.PersistedVersion(). When another writer got there first no row
	// matches and an errs.VersionIsInvalidError is returned; nothing is written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items. Returns errs.ObjectNotFoundError
	// when no order has the id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
