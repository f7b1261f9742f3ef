package inventoryrepo

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormInventoryRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db, now: time.Now}
}

// ApplyMovement records m and adjusts stock in one savepoint. The movement
// row is inserted first; if it already exists nothing else happens.
func (r *GormInventoryRepository) ApplyMovement(ctx context.Context, m inventory.Movement) (bool, error) {
	if err := validateMovement(m); err != nil {
		return false, err
	}

	now := r.now().UTC()
	applied := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := MovementDTO{
			OrderID:    m.OrderID.Bytes(),
			ProductID:  m.ProductID,
			LocationID: m.LocationID,
			Direction:  m.Direction.String(),
			Quantity:   m.Quantity,
			CreatedAt:  now,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		switch m.Direction {
		case inventory.Decrement:
			result = tx.Model(&StockRecordDTO{}).
				Where("product_id = ? AND location_id = ? AND quantity >= ?", m.ProductID, m.LocationID, m.Quantity).
				Updates(map[string]any{
					"quantity":   gorm.Expr("quantity - ?", m.Quantity),
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: product %s at %s needs %d",
					inventory.ErrInsufficientStock, m.ProductID, m.LocationID, m.Quantity)
			}
		case inventory.Increment:
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "product_id"}, {Name: "location_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"quantity":   gorm.Expr("inventory_records.quantity + excluded.quantity"),
					"updated_at": now,
				}),
			}).Create(&StockRecordDTO{
				ProductID:  m.ProductID,
				LocationID: m.LocationID,
				Quantity:   m.Quantity,
				UpdatedAt:  now,
			}).Error
			if err != nil {
				return err
			}
		case inventory.DirectionUnknown:
			return errs.NewValueIsInvalidError("direction")
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// GetStock lists levels ordered by product then location.
func (r *GormInventoryRepository) GetStock(ctx context.Context, productIDs ...string) ([]inventory.StockLevel, error) {
	if len(productIDs) == 0 {
		return []inventory.StockLevel{}, nil
	}

	var dtos []StockRecordDTO
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("product_id, location_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	levels := make([]inventory.StockLevel, 0, len(dtos))
	for _, dto := range dtos {
		level, err := inventory.NewStockLevel(dto.ProductID, dto.LocationID, dto.Quantity)
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func (r *GormInventoryRepository) SetStock(ctx context.Context, level inventory.StockLevel) error {
	now := r.now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "location_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&StockRecordDTO{
		ProductID:  level.ProductID(),
		LocationID: level.LocationID(),
		Quantity:   level.Quantity(),
		UpdatedAt:  now,
	}).Error
}

func validateMovement(m inventory.Movement) error {
	if err := m.OrderID.Validate(); err != nil {
		return err
	}
	if m.ProductID == "" {
		return errs.NewValueIsRequiredError("productId")
	}
	if m.LocationID == "" {
		return errs.NewValueIsRequiredError("locationId")
	}
	if m.Quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", m.Quantity, 1, "unbounded")
	}
	if m.Direction == inventory.DirectionUnknown {
		return errs.NewValueIsInvalidError("direction")
	}
	return nil
}
