package inventory

import (
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

// Direction says whether a movement takes stock out or puts it back.
type Direction int

const (
	DirectionUnknown Direction = iota
	Decrement
	Increment
)

func (d Direction) String() string {
	switch d {
	case Decrement:
		return "decrement"
	case Increment:
		return "increment"
	default:
		return "unknown"
	}
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "decrement":
		return Decrement, nil
	case "increment":
		return Increment, nil
	}
	return DirectionUnknown, errs.NewValueIsInvalidErrorWithCause("direction", fmt.Errorf("%q is not a direction", s))
}

// Movement is one stock adjustment caused by an order. The tuple
// (OrderID, ProductID, LocationID, Direction) identifies it, so replaying the
// same movement has no further effect.
type Movement struct {
	OrderID    kernel.UUID
	ProductID  string
	LocationID string
	Quantity   int
	Direction  Direction
}

// MovementsFor lists one movement per (product, location) of o, summing the
// quantities of items that share both. Every item must already be allocated to
// a location.
func MovementsFor(o *order.Order, direction Direction) ([]Movement, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	type key struct{ product, location string }

	items := o.Items()
	movements := make([]Movement, 0, len(items))
	index := make(map[key]int, len(items))
	for _, item := range items {
		if !item.IsAllocated() {
			return nil, errs.NewValueIsRequiredErrorWithCause(
				"locationId",
				fmt.Errorf("item %s has no stock location", item.ProductID()),
			)
		}
		k := key{item.ProductID(), item.LocationID()}
		if i, ok := index[k]; ok {
			movements[i].Quantity += item.Quantity()
			continue
		}
		index[k] = len(movements)
		movements = append(movements, Movement{
			OrderID:    o.ID(),
			ProductID:  item.ProductID(),
			LocationID: item.LocationID(),
			Quantity:   item.Quantity(),
			Direction:  direction,
		})
	}
	return movements, nil
}
