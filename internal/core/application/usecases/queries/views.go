// Package queries contains read-side projections for order list and detail
// screens. Handlers read the database directly and never load aggregates.
package queries

import (
	"time"

	"storefront/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemView is a line item as shown on the order detail screen.
type ItemView struct {
	ProductID  string
	LocationID string
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
}

// OrderView is the detail projection of one order.
type OrderView struct {
	ID                 uuid.UUID
	CustomerID         string
	CustomerName       string
	CustomerEmail      string
	Phone              string
	Address            string
	Items              []ItemView
	Total              decimal.Decimal
	Currency           string
	PaymentMethod      string
	PaymentStatus      string
	Status             string
	DeliveryStatus     string
	TrackingNumber     string
	Carrier            string
	Version            int64
	NextExpectedAction string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderSummaryView is one row of the order list.
type OrderSummaryView struct {
	ID                 uuid.UUID
	CustomerID         string
	CustomerName       string
	ItemCount          int
	Total              decimal.Decimal
	Currency           string
	PaymentStatus      string
	Status             string
	DeliveryStatus     string
	Version            int64
	NextExpectedAction string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HistoryEntryView is one status history row.
type HistoryEntryView struct {
	ID             uuid.UUID
	Sequence       int64
	Action         string
	Status         string
	DeliveryStatus string
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
}

// StockLevelView is the stock of one product at one location.
type StockLevelView struct {
	ProductID  string
	LocationID string
	Quantity   int
	UpdatedAt  time.Time
}

// nextExpectedAction labels stored names; unknown values yield an empty label.
func nextExpectedAction(status, delivery string) string {
	s, err := order.ParseStatus(status)
	if err != nil {
		return ""
	}
	d, err := order.ParseDeliveryStatus(delivery)
	if err != nil {
		return ""
	}
	return order.NextExpectedAction(order.State{Status: s, Delivery: d})
}
