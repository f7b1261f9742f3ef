package postgres

import (
	"storefront/internal/adapters/out/postgres/historyrepo"
	"storefront/internal/adapters/out/postgres/inventoryrepo"
	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/adapters/out/postgres/outboxrepo"

	"gorm.io/gorm"
)

// Models lists every table the service owns, parents before children.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&historyrepo.EntryDTO{},
		&inventoryrepo.StockRecordDTO{},
		&inventoryrepo.MovementDTO{},
		&outboxrepo.MessageDTO{},
	}
}

// Migrate creates or alters the schema to match Models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Truncate empties every table; used between integration tests.
func Truncate(db *gorm.DB) error {
	return db.Exec(`TRUNCATE TABLE
		order_items, orders, order_status_history,
		inventory_records, inventory_movements, notification_outbox
		RESTART IDENTITY CASCADE`).Error
}
