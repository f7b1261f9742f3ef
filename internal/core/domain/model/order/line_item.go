package order

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// LineItem is one product row of an order. LocationID names the warehouse the
// stock is taken from; it may be empty until the order is confirmed.
type LineItem struct {
	productID  string
	locationID string
	name       string
	quantity   int
	unitPrice  kernel.Money
}

func NewLineItem(productID, locationID, name string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	item := LineItem{
		productID:  strings.TrimSpace(productID),
		locationID: strings.TrimSpace(locationID),
		name:       strings.TrimSpace(name),
		quantity:   quantity,
		unitPrice:  unitPrice,
	}

	var errProduct, errQuantity error
	if item.productID == "" {
		errProduct = errs.NewValueIsRequiredError("productId")
	}
	if quantity <= 0 {
		errQuantity = errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := errors.Join(errProduct, errQuantity, unitPrice.Validate()); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

func (i LineItem) ProductID() string { return i.productID }
func (i LineItem) LocationID() string { return i.locationID }
func (i LineItem) Name() string { return i.name }
func (i LineItem) Quantity() int { return i.quantity }
func (i LineItem) UnitPrice() kernel.Money { return i.unitPrice }
func (i LineItem) IsAllocated() bool { return i.locationID != "" }

// Subtotal is unitPrice × quantity.
func (i LineItem) Subtotal() (kernel.Money, error) {
	return i.unitPrice.Multiply(i.quantity)
}
