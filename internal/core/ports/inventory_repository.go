package ports

import (
	"context"

	"storefront/internal/core/domain/model/inventory"
)

// InventoryRepository is the inventory collaborator.
type InventoryRepository interface {
	// ApplyMovement adjusts stock by m. It reports applied=false, without error,
	// when the same movement was already recorded for the order. A decrement that
	// would take stock below zero fails with inventory.ErrInsufficientStock.
	ApplyMovement(ctx context.Context, m inventory.Movement) (applied bool, err error)

	// GetStock returns the levels of the given products across all locations.
	GetStock(ctx context.Context, productIDs ...string) ([]inventory.StockLevel, error)

	// SetStock overwrites the on-hand quantity of one (product, location) pair.
	SetStock(ctx context.Context, level inventory.StockLevel) error
}
