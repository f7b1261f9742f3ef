package services

import (
	"fmt"
	"sort"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/order"
)

// StockAllocator is a domain service that picks the warehouse location each line
// item of an order is taken from.
//
// Selection rules:
//   - items that already name a location are left alone
//   - only locations whose remaining stock covers the item quantity are considered
//   - the location with the most stock wins; ties go to the lowest location id
//   - stock chosen for one item is not offered again to a later item of the same product
//
// Example usage:
//
//	allocator := services.NewStockAllocator()
//	levels, _ := inventoryService.GetStock(ctx, productIDs...)
//	if err := allocator.Allocate(o, levels); errors.Is(err, inventory.ErrInsufficientStock) {
//	    // order cannot be confirmed
//	}
type StockAllocator struct{}

func NewStockAllocator() StockAllocator {
	return StockAllocator{}
}

// Allocate assigns locations to the unallocated items of o. It either allocates
// every item or returns an error leaving o unchanged.
func (a StockAllocator) Allocate(o *order.Order, levels []inventory.StockLevel) error {
	if err := o.Validate(); err != nil {
		return err
	}

	remaining := make(map[string]map[string]int)
	for _, l := range levels {
		if remaining[l.ProductID()] == nil {
			remaining[l.ProductID()] = make(map[string]int)
		}
		remaining[l.ProductID()][l.LocationID()] += l.Quantity()
	}

	items := o.Items()
	// allocated items draw down their own location first
	for _, item := range items {
		if item.IsAllocated() && remaining[item.ProductID()] != nil {
			remaining[item.ProductID()][item.LocationID()] -= item.Quantity()
		}
	}

	picks := make(map[int]string)
	for i, item := range items {
		if item.IsAllocated() {
			continue
		}

		location, ok := a.findBestLocation(remaining[item.ProductID()], item.Quantity())
		if !ok {
			return fmt.Errorf("%w: product %s needs %d", inventory.ErrInsufficientStock, item.ProductID(), item.Quantity())
		}
		remaining[item.ProductID()][location] -= item.Quantity()
		picks[i] = location
	}

	for i, location := range picks {
		if err := o.AllocateItem(i, location); err != nil {
			return err
		}
	}
	return nil
}

func (a StockAllocator) findBestLocation(stock map[string]int, quantity int) (string, bool) {
	locations := make([]string, 0, len(stock))
	for loc := range stock {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	var (
		best    string
		bestQty = -1
		found   bool
	)
	for _, loc := range locations {
		qty := stock[loc]
		if qty < quantity {
			continue
		}
		if qty > bestQty {
			best, bestQty, found = loc, qty, true
		}
	}
	return best, found
}
