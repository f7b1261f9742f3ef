package ports

import (
	"context"

	"storefront/internal/core/domain/model/history"
	"storefront/internal/core/domain/model/kernel"
)

// HistoryRepository is the append-only status log.
type HistoryRepository interface {
	// Append stores entry and assigns its sequence number.
	Append(ctx context.Context, entry *history.Entry) error

	// ListForOrder returns the entries of one order, oldest first. Entries with
	// equal timestamps are ordered by sequence.
	ListForOrder(ctx context.Context, orderID kernel.UUID) ([]*history.Entry, error)
}
