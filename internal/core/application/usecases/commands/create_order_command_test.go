package commands_test

import (
	"testing"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer(t *testing.T) order.Customer {
	t.Helper()
	c, err := order.NewCustomer("cust-1", "Alice", "alice@example.com", "", "1 Main St")
	require.NoError(t, err)
	return c
}

func validItems() []commands.CreateOrderItem {
	return []commands.CreateOrderItem{
		{ProductID: "sku-1", Name: "Mug", Quantity: 2, UnitPrice: decimal.RequireFromString("9.99")},
	}
}

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(id, validCustomer(t), "usd", validItems(), "card", " admin ")

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, "admin", cmd.Actor())
	require.Len(t, cmd.Items(), 1)
	assert.Equal(t, "USD", cmd.Items()[0].UnitPrice().Currency())
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.UUID{}, validCustomer(t), "USD", validItems(), "card", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_NoItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), validCustomer(t), "USD", nil, "card", "")

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewCreateOrderCommand_BadItem(t *testing.T) {
	items := []commands.CreateOrderItem{{ProductID: "sku-1", Quantity: 0, UnitPrice: decimal.NewFromInt(1)}}

	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), validCustomer(t), "USD", items, "card", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 0")
}

func TestNewCreateOrderCommand_BadCurrency(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), validCustomer(t), "dollars", validItems(), "card", "")

	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewCreateOrderCommand_MissingCustomer(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), order.Customer{}, "USD", validItems(), "card", "")

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
