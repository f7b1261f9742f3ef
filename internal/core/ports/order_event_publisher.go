package ports

import (
	"context"

	"storefront/internal/core/domain/model/order"
)

// OrderEventPublisher publishes lifecycle events to downstream consumers.
type OrderEventPublisher interface {
	Publish(ctx context.Context, event order.StatusChanged) error
}
