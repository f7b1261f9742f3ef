package commands

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderItem is one requested line item.
type CreateOrderItem struct {
	ProductID  string
	LocationID string
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
}

// CreateOrderCommand places a new Pending order.
//
// Example:
//
//	customer, _ := order.NewCustomer("cust-42", "Ada", "ada@example.com", "", "1 Main St")
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customer, "USD", items, "card", "admin-1")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customer      order.Customer
	items         []order.LineItem
	paymentMethod string
	actor         string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request and prices every item in currency.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customer order.Customer,
	currency string,
	items []CreateOrderItem,
	paymentMethod string,
	actor string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		paymentMethod: strings.TrimSpace(paymentMethod),
		actor:         strings.TrimSpace(actor),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomer(customer),
		cmd.setItems(currency, items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

func (c CreateOrderCommand) Customer() order.Customer { return c.customer }

func (c CreateOrderCommand) Items() []order.LineItem { return c.items }

func (c CreateOrderCommand) PaymentMethod() string { return c.paymentMethod }

// Actor is the caller recorded in the history entry.
func (c CreateOrderCommand) Actor() string { return c.actor }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomer(customer order.Customer) error {
	if customer.ID() == "" {
		return errs.NewValueIsRequiredError("customer")
	}
	c.customer = customer
	return nil
}

func (c *CreateOrderCommand) setItems(currency string, items []CreateOrderItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	lineItems := make([]order.LineItem, 0, len(items))
	for i, item := range items {
		price, err := kernel.NewMoney(item.UnitPrice, currency)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		li, err := order.NewLineItem(item.ProductID, item.LocationID, item.Name, item.Quantity, price)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		lineItems = append(lineItems, li)
	}

	c.items = lineItems
	return nil
}
