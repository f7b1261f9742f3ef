package inventory

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// StockLevel is the on-hand quantity of one product at one warehouse location.
type StockLevel struct {
	productID  string
	locationID string
	quantity   int
}

func NewStockLevel(productID, locationID string, quantity int) (StockLevel, error) {
	s := StockLevel{
		productID:  strings.TrimSpace(productID),
		locationID: strings.TrimSpace(locationID),
		quantity:   quantity,
	}

	var errProduct, errLocation, errQuantity error
	if s.productID == "" {
		errProduct = errs.NewValueIsRequiredError("productId")
	}
	if s.locationID == "" {
		errLocation = errs.NewValueIsRequiredError("locationId")
	}
	if quantity < 0 {
		errQuantity = errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is negative", quantity))
	}
	if err := errors.Join(errProduct, errLocation, errQuantity); err != nil {
		return StockLevel{}, err
	}
	return s, nil
}

func (s StockLevel) ProductID() string { return s.productID }

func (s StockLevel) LocationID() string { return s.locationID }

func (s StockLevel) Quantity() int { return s.quantity }

// Covers reports whether the level can serve quantity units.
func (s StockLevel) Covers(quantity int) bool {
	return s.quantity >= quantity
}
