package queries

import (
	"context"

	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderHistoryQueryHandler struct {
	db      *gorm.DB
	history ports.HistoryRepository
}

func NewGetOrderHistoryQueryHandler(db *gorm.DB, history ports.HistoryRepository) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db, history: history}
}

// Handle returns errs.ObjectNotFoundError for unknown orders, and an empty
// slice for orders without history.
func (h GetOrderHistoryQueryHandler) Handle(ctx context.Context, query GetOrderHistoryQuery) ([]HistoryEntryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var exists int64
	err := h.db.WithContext(ctx).
		Raw(`SELECT count(*) FROM orders WHERE id = ?`, query.OrderID().Bytes()).
		Scan(&exists).Error
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, errs.NewObjectNotFoundError("orderId", query.OrderID().String())
	}

	entries, err := h.history.ListForOrder(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	views := make([]HistoryEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, HistoryEntryView{
			ID:             e.ID().Bytes(),
			Sequence:       e.Sequence(),
			Action:         e.Action().String(),
			Status:         e.State().Status.String(),
			DeliveryStatus: e.State().Delivery.String(),
			Notes:          e.Notes(),
			CreatedBy:      e.CreatedBy(),
			CreatedAt:      e.CreatedAt(),
		})
	}
	return views, nil
}
