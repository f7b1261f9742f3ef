// Package inventoryrepo keeps on-hand stock per (product, location) and the
// ledger of movements applied on behalf of orders.
package inventoryrepo

import (
	"time"

	"github.com/google/uuid"
)

// StockRecordDTO is the on-hand quantity of a product at one location.
type StockRecordDTO struct {
	ProductID  string    `gorm:"type:varchar(64);primaryKey"`
	LocationID string    `gorm:"type:varchar(64);primaryKey"`
	Quantity   int       `gorm:"not null;check:chk_inventory_quantity,quantity >= 0"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (StockRecordDTO) TableName() string {
	return "inventory_records"
}

// MovementDTO records that a movement was applied. The unique index makes a
// replayed movement a no-op.
type MovementDTO struct {
	ID         uint      `gorm:"primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_movement_identity"`
	ProductID  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_movement_identity"`
	LocationID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_movement_identity"`
	Direction  string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_movement_identity"`
	Quantity   int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (MovementDTO) TableName() string {
	return "inventory_movements"
}
