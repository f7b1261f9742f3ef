package queries

import (
	"context"
	"time"

	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderRow struct {
	ID             uuid.UUID
	CustomerID     string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	Address        string
	Total          decimal.Decimal
	Currency       string
	PaymentMethod  string
	PaymentStatus  string
	Status         string
	DeliveryStatus *string
	TrackingNumber string
	Carrier        string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type itemRow struct {
	ProductID  string
	LocationID string
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
}

// GetOrderQueryHandler reads one order and its items.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id, customer_id, customer_name, customer_email, customer_phone, address,
			total, currency, payment_method, payment_status, status, delivery_status,
			tracking_number, carrier, version, created_at, updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Scan(&rows).Error
	if err != nil {
		return OrderView{}, err
	}
	if len(rows) == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("orderId", query.OrderID().String())
	}
	row := rows[0]

	var items []itemRow
	err = h.db.WithContext(ctx).Raw(`
		SELECT product_id, location_id, name, quantity, unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, row.ID).Scan(&items).Error
	if err != nil {
		return OrderView{}, err
	}

	delivery := stringOrEmpty(row.DeliveryStatus)
	view := OrderView{
		ID:                 row.ID,
		CustomerID:         row.CustomerID,
		CustomerName:       row.CustomerName,
		CustomerEmail:      row.CustomerEmail,
		Phone:              row.CustomerPhone,
		Address:            row.Address,
		Items:              make([]ItemView, 0, len(items)),
		Total:              row.Total,
		Currency:           row.Currency,
		PaymentMethod:      row.PaymentMethod,
		PaymentStatus:      row.PaymentStatus,
		Status:             row.Status,
		DeliveryStatus:     delivery,
		TrackingNumber:     row.TrackingNumber,
		Carrier:            row.Carrier,
		Version:            row.Version,
		NextExpectedAction: nextExpectedAction(row.Status, delivery),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	for _, it := range items {
		view.Items = append(view.Items, ItemView(it))
	}

	return view, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
