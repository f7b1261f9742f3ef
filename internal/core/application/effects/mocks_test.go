package effects_test

import (
	"context"

	"storefront/internal/core/domain/model/history"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockInventoryRepository struct{ mock.Mock }

func (m *MockInventoryRepository) ApplyMovement(ctx context.Context, mv inventory.Movement) (bool, error) {
	args := m.Called(ctx, mv)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepository) GetStock(ctx context.Context, productIDs ...string) ([]inventory.StockLevel, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockLevel), args.Error(1)
}

func (m *MockInventoryRepository) SetStock(ctx context.Context, level inventory.StockLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

type MockHistoryRepository struct{ mock.Mock }

func (m *MockHistoryRepository) Append(ctx context.Context, e *history.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListForOrder(ctx context.Context, id kernel.UUID) ([]*history.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.Entry), args.Error(1)
}

type MockTx struct {
	inventory *MockInventoryRepository
	history   *MockHistoryRepository
}

func (m *MockTx) InventoryRepository() ports.InventoryRepository { return m.inventory }

func (m *MockTx) HistoryRepository() ports.HistoryRepository { return m.history }

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Send(ctx context.Context, template string, vars notification.Variables, to notification.Recipient) (bool, error) {
	args := m.Called(ctx, template, vars, to)
	return args.Bool(0), args.Error(1)
}

type MockOutbox struct{ mock.Mock }

func (m *MockOutbox) Enqueue(ctx context.Context, msg *notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockOutbox) ListPending(ctx context.Context, maxAttempts, limit int) ([]*notification.Message, error) {
	args := m.Called(ctx, maxAttempts, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Message), args.Error(1)
}

func (m *MockOutbox) Save(ctx context.Context, msg *notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockOutbox) CountPending(ctx context.Context, maxAttempts int) (int64, error) {
	args := m.Called(ctx, maxAttempts)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, e order.StatusChanged) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
