package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetStockQueryHandler struct {
	db *gorm.DB
}

func NewGetStockQueryHandler(db *gorm.DB) GetStockQueryHandler {
	return GetStockQueryHandler{db: db}
}

// Handle returns the product's levels ordered by location; an unknown product
// yields an empty slice.
func (h GetStockQueryHandler) Handle(ctx context.Context, query GetStockQuery) ([]StockLevelView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	levels := make([]StockLevelView, 0)
	err := h.db.WithContext(ctx).Raw(`
		SELECT product_id, location_id, quantity, updated_at
		FROM inventory_records
		WHERE product_id = ?
		ORDER BY location_id
	`, query.ProductID()).Scan(&levels).Error
	if err != nil {
		return nil, err
	}
	return levels, nil
}
