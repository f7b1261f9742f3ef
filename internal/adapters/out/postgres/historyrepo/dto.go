// Package historyrepo stores the append-only order status history.
package historyrepo

import (
	"errors"
	"time"

	"storefront/internal/core/domain/model/history"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// EntryDTO is one row of order_status_history. Sequence is assigned by the
// database and breaks ties between entries written within the same instant.
type EntryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index:idx_history_order_time"`
	Sequence       int64     `gorm:"autoIncrement;uniqueIndex"`
	Action         string    `gorm:"type:varchar(32);not null"`
	Status         string    `gorm:"type:varchar(16);not null"`
	DeliveryStatus *string   `gorm:"type:varchar(24)"`
	Notes          string    `gorm:"type:text"`
	CreatedBy      string    `gorm:"type:varchar(128);not null"`
	CreatedAt      time.Time `gorm:"not null;index:idx_history_order_time"`
}

func (EntryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(e *history.Entry) EntryDTO {
	var delivery *string
	if d := e.State().Delivery; d.IsSet() {
		s := d.String()
		delivery = &s
	}

	return EntryDTO{
		ID:             e.ID().Bytes(),
		OrderID:        e.OrderID().Bytes(),
		Action:         e.Action().String(),
		Status:         e.State().Status.String(),
		DeliveryStatus: delivery,
		Notes:          e.Notes(),
		CreatedBy:      e.CreatedBy(),
		CreatedAt:      e.CreatedAt(),
	}
}

func toDomain(dto EntryDTO) (*history.Entry, error) {
	id, errID := kernel.UUIDFromBytes(dto.ID[:])
	orderID, errOrder := kernel.UUIDFromBytes(dto.OrderID[:])
	action, errAction := order.ParseHistoryAction(dto.Action)
	status, errStatus := order.ParseStatus(dto.Status)

	var delivery order.DeliveryStatus
	var errDelivery error
	if dto.DeliveryStatus != nil {
		delivery, errDelivery = order.ParseDeliveryStatus(*dto.DeliveryStatus)
	}

	if err := errors.Join(errID, errOrder, errAction, errStatus, errDelivery); err != nil {
		return nil, err
	}

	return history.RestoreEntry(
		id,
		orderID,
		dto.Sequence,
		action,
		order.State{Status: status, Delivery: delivery},
		dto.Notes,
		dto.CreatedBy,
		dto.CreatedAt,
	), nil
}
