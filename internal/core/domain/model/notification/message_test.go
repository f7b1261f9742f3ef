package notification_test

import (
	"errors"
	"testing"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariablesFor(t *testing.T) {
	price, _ := kernel.NewMoney(decimal.RequireFromString("3.50"), "GBP")
	customer, _ := order.NewCustomer("c-9", "Mary", "mary@example.com", "", "")
	item, _ := order.NewLineItem("sku-tea", "wh-1", "Tea", 4, price)
	o, err := order.NewOrder(kernel.NewUUID(), customer, []order.LineItem{item}, "card", time.Now())
	require.NoError(t, err)
	o.MarkPersisted()
	_, err = o.Apply(order.ActionConfirm, order.ShipmentDetails{}, time.Now())
	require.NoError(t, err)
	_, err = o.Apply(order.ActionShip, order.ShipmentDetails{TrackingNumber: "TRK1", Carrier: "DHL"}, time.Now())
	require.NoError(t, err)

	vars := notification.VariablesFor(o)

	assert.Equal(t, "Mary", vars.CustomerName)
	assert.Equal(t, o.ID().String(), vars.OrderNumber)
	assert.Equal(t, "14.00 GBP", vars.Total)
	assert.Equal(t, "Shipped", vars.Status)
	assert.Equal(t, "TRK1", vars.TrackingNumber)
	assert.Equal(t, "DHL", vars.Carrier)
	require.Len(t, vars.Items, 1)
	assert.Equal(t, notification.ItemLine{Name: "Tea", Quantity: 4, Subtotal: "14.00 GBP"}, vars.Items[0])
	assert.Equal(t, notification.Recipient{Name: "Mary", Email: "mary@example.com"}, notification.RecipientFor(o))
}

func TestMessage_Lifecycle(t *testing.T) {
	now := time.Now()

	t.Run("should start pending with the first failure recorded", func(t *testing.T) {
		m, err := notification.NewMessage(kernel.NewUUID(), "order_confirmation", notification.Variables{}, notification.Recipient{}, errors.New("smtp down"), now)

		require.NoError(t, err)
		assert.Equal(t, notification.StatusPending, m.Status())
		assert.Equal(t, 1, m.Attempts())
		assert.Equal(t, "smtp down", m.LastError())
	})

	t.Run("should park after max attempts", func(t *testing.T) {
		m, _ := notification.NewMessage(kernel.NewUUID(), "order_confirmation", notification.Variables{}, notification.Recipient{}, nil, now)

		m.MarkAttemptFailed(errors.New("again"), 3, now)
		assert.Equal(t, notification.StatusPending, m.Status())
		m.MarkAttemptFailed(errors.New("still"), 3, now)

		assert.Equal(t, notification.StatusFailed, m.Status())
		assert.Equal(t, 3, m.Attempts())
		assert.Equal(t, "still", m.LastError())
	})

	t.Run("should clear the error once sent", func(t *testing.T) {
		m, _ := notification.NewMessage(kernel.NewUUID(), "order_cancelled", notification.Variables{}, notification.Recipient{}, errors.New("x"), now)

		m.MarkSent(now)

		assert.Equal(t, notification.StatusSent, m.Status())
		assert.Empty(t, m.LastError())
	})

	t.Run("should require a template", func(t *testing.T) {
		_, err := notification.NewMessage(kernel.NewUUID(), " ", notification.Variables{}, notification.Recipient{}, nil, now)

		assert.Error(t, err)
	})
}
