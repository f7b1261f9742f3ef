package inventory_test

import (
	"testing"
	"time"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockLevel(t *testing.T) {
	t.Run("should create level", func(t *testing.T) {
		s, err := inventory.NewStockLevel("sku-1", "wh-1", 3)

		require.NoError(t, err)
		assert.True(t, s.Covers(3))
		assert.False(t, s.Covers(4))
	})

	t.Run("should reject negative quantity", func(t *testing.T) {
		_, err := inventory.NewStockLevel("sku-1", "wh-1", -1)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should require both keys", func(t *testing.T) {
		_, err := inventory.NewStockLevel("", "", 1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "productId")
		assert.Contains(t, err.Error(), "locationId")
	})
}

func TestMovementsFor(t *testing.T) {
	price, _ := kernel.NewMoney(decimal.NewFromInt(5), "EUR")
	customer, _ := order.NewCustomer("c-1", "Grace", "", "", "")
	a, _ := order.NewLineItem("sku-a", "wh-1", "A", 2, price)
	b, _ := order.NewLineItem("sku-b", "", "B", 1, price)

	t.Run("should list one movement per item", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), customer, []order.LineItem{a}, "card", time.Now())
		require.NoError(t, err)

		movements, err := inventory.MovementsFor(o, inventory.Decrement)

		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, inventory.Movement{
			OrderID: o.ID(), ProductID: "sku-a", LocationID: "wh-1", Quantity: 2, Direction: inventory.Decrement,
		}, movements[0])
	})

	t.Run("should sum items that share product and location", func(t *testing.T) {
		again, _ := order.NewLineItem("sku-a", "wh-1", "A", 3, price)
		elsewhere, _ := order.NewLineItem("sku-a", "wh-2", "A", 4, price)
		o, err := order.NewOrder(kernel.NewUUID(), customer, []order.LineItem{a, again, elsewhere}, "card", time.Now())
		require.NoError(t, err)

		movements, err := inventory.MovementsFor(o, inventory.Decrement)

		require.NoError(t, err)
		assert.Equal(t, []inventory.Movement{
			{OrderID: o.ID(), ProductID: "sku-a", LocationID: "wh-1", Quantity: 5, Direction: inventory.Decrement},
			{OrderID: o.ID(), ProductID: "sku-a", LocationID: "wh-2", Quantity: 4, Direction: inventory.Decrement},
		}, movements)
	})

	t.Run("should fail for unallocated items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), customer, []order.LineItem{a, b}, "card", time.Now())
		require.NoError(t, err)

		_, err = inventory.MovementsFor(o, inventory.Increment)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestParseDirection(t *testing.T) {
	d, err := inventory.ParseDirection("increment")
	require.NoError(t, err)
	assert.Equal(t, inventory.Increment, d)

	_, err = inventory.ParseDirection("sideways")
	assert.Error(t, err)
}
