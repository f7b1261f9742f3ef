package queries

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type summaryRow struct {
	ID             uuid.UUID
	CustomerID     string
	CustomerName   string
	ItemCount      int
	Total          decimal.Decimal
	Currency       string
	PaymentStatus  string
	Status         string
	DeliveryStatus *string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ListOrdersQueryHandler serves the order list screen.
//
// Example:
//
//	query, _ := NewListOrdersQuery(OrderFilter{Statuses: []order.Status{order.Pending}}, 1, 20)
//	page, err := handler.Handle(ctx, query)
//	fmt.Printf("%d of %d pending orders\n", len(page.Items), page.Total)
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns the requested page ordered by createdAt descending, id
// descending on ties, and the number of orders matching the filter.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersResponse{}, err
	}

	where, args := buildOrderFilter(query.Filter())

	var total int64
	err := h.db.WithContext(ctx).Raw(`SELECT count(*) FROM orders o`+where, args...).Scan(&total).Error
	if err != nil {
		return ListOrdersResponse{}, err
	}

	response := ListOrdersResponse{
		Items:   make([]OrderSummaryView, 0),
		Page:    query.Page(),
		PerPage: query.PerPage(),
		Total:   total,
	}
	offset := (query.Page() - 1) * query.PerPage()
	if total == 0 || int64(offset) >= total {
		return response, nil
	}

	var rows []summaryRow
	err = h.db.WithContext(ctx).Raw(`
		SELECT
			o.id, o.customer_id, o.customer_name,
			(SELECT COALESCE(SUM(i.quantity), 0) FROM order_items i WHERE i.order_id = o.id) AS item_count,
			o.total, o.currency, o.payment_status, o.status, o.delivery_status,
			o.version, o.created_at, o.updated_at
		FROM orders o`+where+`
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT ? OFFSET ?`,
		append(args, query.PerPage(), offset)...,
	).Scan(&rows).Error
	if err != nil {
		return ListOrdersResponse{}, err
	}

	for _, r := range rows {
		delivery := stringOrEmpty(r.DeliveryStatus)
		response.Items = append(response.Items, OrderSummaryView{
			ID:                 r.ID,
			CustomerID:         r.CustomerID,
			CustomerName:       r.CustomerName,
			ItemCount:          r.ItemCount,
			Total:              r.Total,
			Currency:           r.Currency,
			PaymentStatus:      r.PaymentStatus,
			Status:             r.Status,
			DeliveryStatus:     delivery,
			Version:            r.Version,
			NextExpectedAction: nextExpectedAction(r.Status, delivery),
			CreatedAt:          r.CreatedAt,
			UpdatedAt:          r.UpdatedAt,
		})
	}

	return response, nil
}

func buildOrderFilter(f OrderFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if len(f.Statuses) > 0 {
		names := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			names = append(names, s.String())
		}
		clauses = append(clauses, "o.status = ANY(?)")
		args = append(args, pq.Array(names))
	}
	if f.From != nil {
		clauses = append(clauses, "o.created_at >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		clauses = append(clauses, "o.created_at <= ?")
		args = append(args, f.To.UTC())
	}
	if f.CustomerID != "" {
		clauses = append(clauses, "o.customer_id = ?")
		args = append(args, f.CustomerID)
	}
	if f.PaymentStatus != nil {
		clauses = append(clauses, "o.payment_status = ?")
		args = append(args, f.PaymentStatus.String())
	}
	if f.DeliveryStatus != nil {
		if f.DeliveryStatus.IsSet() {
			clauses = append(clauses, "o.delivery_status = ?")
			args = append(args, f.DeliveryStatus.String())
		} else {
			clauses = append(clauses, "o.delivery_status IS NULL")
		}
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
