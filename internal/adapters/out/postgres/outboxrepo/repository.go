package outboxrepo

import (
	"context"

	"storefront/internal/core/domain/model/notification"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Enqueue(ctx context.Context, msg *notification.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(msg)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListPending returns the oldest retryable messages first.
func (r *GormOutboxRepository) ListPending(ctx context.Context, maxAttempts, limit int) ([]*notification.Message, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND attempts < ?", string(notification.StatusPending), maxAttempts).
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*notification.Message, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *GormOutboxRepository) Save(ctx context.Context, msg *notification.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("id = ?", msg.ID().Bytes()).
		Updates(map[string]any{
			"status":     string(msg.Status()),
			"attempts":   msg.Attempts(),
			"last_error": msg.LastError(),
			"updated_at": msg.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", msg.ID().String())
	}
	return nil
}

func (r *GormOutboxRepository) CountPending(ctx context.Context, maxAttempts int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("status = ? AND attempts < ?", string(notification.StatusPending), maxAttempts).
		Count(&n).Error
	return n, err
}
