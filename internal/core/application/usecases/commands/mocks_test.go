package commands_test

import (
	"context"
	"io"
	"log/slog"

	"storefront/internal/core/application/effects"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/history"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	if args.Error(0) == nil {
		o.MarkPersisted()
	}
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
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

type MockTxManager struct{ mock.Mock }

func (m *MockTxManager) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTxManager) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockLifecycleUoW exposes fixed repositories; only the transaction calls are
// recorded as expectations.
type MockLifecycleUoW struct {
	MockTxManager
	orders    *MockOrderRepository
	history   *MockHistoryRepository
	inventory *MockInventoryRepository
}

func newMockLifecycleUoW() *MockLifecycleUoW {
	return &MockLifecycleUoW{
		orders:    new(MockOrderRepository),
		history:   new(MockHistoryRepository),
		inventory: new(MockInventoryRepository),
	}
}

func (m *MockLifecycleUoW) OrderRepository() ports.OrderRepository { return m.orders }

func (m *MockLifecycleUoW) HistoryRepository() ports.HistoryRepository { return m.history }

func (m *MockLifecycleUoW) InventoryRepository() ports.InventoryRepository { return m.inventory }

type MockLifecycleUoWFactory struct{ mock.Mock }

func (m *MockLifecycleUoWFactory) Create() commands.LifecycleUoW {
	args := m.Called()
	return args.Get(0).(commands.LifecycleUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockInventoryUoWFactory struct{ mock.Mock }

func (m *MockInventoryUoWFactory) Create() commands.InventoryUoW {
	args := m.Called()
	return args.Get(0).(commands.InventoryUoW)
}

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

type MockTransitionMetrics struct{ mock.Mock }

func (m *MockTransitionMetrics) ObserveTransition(action, outcome string) {
	m.Called(action, outcome)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDispatcher(n *MockNotifier, o *MockOutbox, p *MockPublisher) *effects.Dispatcher {
	return effects.NewDispatcher(n, o, p, discardLogger())
}
