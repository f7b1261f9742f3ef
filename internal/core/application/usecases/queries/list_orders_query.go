package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// OrderFilter narrows the order list. Zero values mean "no filter". From and To
// bound createdAt inclusively.
type OrderFilter struct {
	Statuses       []order.Status
	From           *time.Time
	To             *time.Time
	CustomerID     string
	PaymentStatus  *order.PaymentStatus
	DeliveryStatus *order.DeliveryStatus
}

// ListOrdersQuery pages through orders newest first.
type ListOrdersQuery struct {
	filter  OrderFilter
	page    int
	perPage int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery validates the filter. page defaults to 1 and perPage to
// DefaultPerPage; perPage above MaxPerPage is rejected.
func NewListOrdersQuery(filter OrderFilter, page, perPage int) (ListOrdersQuery, error) {
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = DefaultPerPage
	}

	var errPage, errPerPage, errRange, errStatus error
	if page < 1 {
		errPage = errs.NewValueIsOutOfRangeError("page", page, 1, "unbounded")
	}
	if perPage < 1 || perPage > MaxPerPage {
		errPerPage = errs.NewValueIsOutOfRangeError("perPage", perPage, 1, MaxPerPage)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		errRange = errs.NewValueIsInvalidErrorWithCause("from", fmt.Errorf("%s is after %s", filter.From, filter.To))
	}
	for _, s := range filter.Statuses {
		if err := s.Validate(); err != nil {
			errStatus = err
			break
		}
	}
	if err := errors.Join(errPage, errPerPage, errRange, errStatus); err != nil {
		return ListOrdersQuery{}, err
	}

	filter.CustomerID = strings.TrimSpace(filter.CustomerID)
	return ListOrdersQuery{
		filter:  filter,
		page:    page,
		perPage: perPage,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() OrderFilter { return q.filter }

func (q ListOrdersQuery) Page() int { return q.page }

func (q ListOrdersQuery) PerPage() int { return q.perPage }

// ListOrdersResponse is one page of the list plus the total match count.
type ListOrdersResponse struct {
	Items   []OrderSummaryView
	Page    int
	PerPage int
	Total   int64
}
