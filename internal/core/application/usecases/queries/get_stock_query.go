package queries

import (
	"errors"
	"strings"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrGetStockQueryIsNotConstructed = errors.New(
	"GetStockQuery must be created via NewGetStockQuery constructor",
)

// GetStockQuery lists the stock of one product at every location.
type GetStockQuery struct {
	productID string

	guard guard.ConstructorGuard
}

func NewGetStockQuery(productID string) (GetStockQuery, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return GetStockQuery{}, errs.NewValueIsRequiredError("productId")
	}
	return GetStockQuery{productID: productID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStockQuery) Validate() error {
	return q.guard.Validate(ErrGetStockQueryIsNotConstructed)
}

func (q GetStockQuery) ProductID() string { return q.productID }
