package http

import (
	"context"
	"sync"
	"time"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/mock"
)

type MockCreateOrderHandler struct{ mock.Mock }

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockTransitionHandler struct{ mock.Mock }

func (m *MockTransitionHandler) Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (commands.TransitionResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.TransitionResult), args.Error(1)
}

type MockPaymentHandler struct{ mock.Mock }

func (m *MockPaymentHandler) Handle(ctx context.Context, cmd commands.UpdatePaymentStatusCommand) (commands.PaymentResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.PaymentResult), args.Error(1)
}

type MockSetStockHandler struct{ mock.Mock }

func (m *MockSetStockHandler) Handle(ctx context.Context, cmd commands.SetStockCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockGetOrderHandler struct{ mock.Mock }

func (m *MockGetOrderHandler) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderView), args.Error(1)
}

type MockListOrdersHandler struct{ mock.Mock }

func (m *MockListOrdersHandler) Handle(ctx context.Context, query queries.ListOrdersQuery) (queries.ListOrdersResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.ListOrdersResponse), args.Error(1)
}

type MockHistoryHandler struct{ mock.Mock }

func (m *MockHistoryHandler) Handle(ctx context.Context, query queries.GetOrderHistoryQuery) ([]queries.HistoryEntryView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.HistoryEntryView), args.Error(1)
}

type MockGetStockHandler struct{ mock.Mock }

func (m *MockGetStockHandler) Handle(ctx context.Context, query queries.GetStockQuery) ([]queries.StockLevelView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.StockLevelView), args.Error(1)
}

// memoryIdempotencyStore is an in-process ports.IdempotencyStore.
type memoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{entries: map[string][]byte{}}
}

func (s *memoryIdempotencyStore) Lookup(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.entries[key]
	return payload, ok, nil
}

func (s *memoryIdempotencyStore) Remember(_ context.Context, key string, payload []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		s.entries[key] = payload
	}
	return nil
}
