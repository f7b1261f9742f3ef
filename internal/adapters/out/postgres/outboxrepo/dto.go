// Package outboxrepo persists notifications waiting to be retried.
package outboxrepo

import (
	"encoding/json"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// MessageDTO is one row of notification_outbox. Variables hold the template
// values captured when the send first failed, as JSON.
type MessageDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Template       string    `gorm:"type:varchar(64);not null"`
	RecipientName  string    `gorm:"type:varchar(255)"`
	RecipientEmail string    `gorm:"type:varchar(255)"`
	Variables      string    `gorm:"type:text;not null"`
	Status         string    `gorm:"type:varchar(16);not null;index:idx_outbox_pending"`
	Attempts       int       `gorm:"not null"`
	LastError      string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null;index:idx_outbox_pending"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (MessageDTO) TableName() string {
	return "notification_outbox"
}

func fromDomain(m *notification.Message) (MessageDTO, error) {
	vars, err := json.Marshal(m.Variables())
	if err != nil {
		return MessageDTO{}, err
	}

	return MessageDTO{
		ID:             m.ID().Bytes(),
		OrderID:        m.OrderID().Bytes(),
		Template:       m.Template(),
		RecipientName:  m.Recipient().Name,
		RecipientEmail: m.Recipient().Email,
		Variables:      string(vars),
		Status:         string(m.Status()),
		Attempts:       m.Attempts(),
		LastError:      m.LastError(),
		CreatedAt:      m.CreatedAt(),
		UpdatedAt:      m.UpdatedAt(),
	}, nil
}

func toDomain(dto MessageDTO) (*notification.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var vars notification.Variables
	if err := json.Unmarshal([]byte(dto.Variables), &vars); err != nil {
		return nil, err
	}

	return notification.RestoreMessage(
		id,
		orderID,
		dto.Template,
		notification.Recipient{Name: dto.RecipientName, Email: dto.RecipientEmail},
		vars,
		notification.Status(dto.Status),
		dto.Attempts,
		dto.LastError,
		dto.CreatedAt,
		dto.UpdatedAt,
	), nil
}
