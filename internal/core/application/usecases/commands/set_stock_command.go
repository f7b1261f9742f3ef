package commands

import (
	"errors"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/pkg/guard"
)

var ErrSetStockCommandIsNotConstructed = errors.New(
	"SetStockCommand must be created via NewSetStockCommand constructor",
)

// SetStockCommand overwrites the on-hand quantity at one location.
type SetStockCommand struct { //nolint:recvcheck //using for validation
	level inventory.StockLevel

	guard guard.ConstructorGuard
}

func NewSetStockCommand(productID, locationID string, quantity int) (SetStockCommand, error) {
	level, err := inventory.NewStockLevel(productID, locationID, quantity)
	if err != nil {
		return SetStockCommand{}, err
	}
	return SetStockCommand{level: level, guard: guard.NewConstructorGuard()}, nil
}

func (c SetStockCommand) Validate() error {
	return c.guard.Validate(ErrSetStockCommandIsNotConstructed)
}

func (c SetStockCommand) Level() inventory.StockLevel { return c.level }
