package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/core/application/effects"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	e           *echo.Echo
	createOrder *MockCreateOrderHandler
	transition  *MockTransitionHandler
	payment     *MockPaymentHandler
	setStock    *MockSetStockHandler
	getOrder    *MockGetOrderHandler
	listOrders  *MockListOrdersHandler
	history     *MockHistoryHandler
	getStock    *MockGetStockHandler
	idempotency *memoryIdempotencyStore
}

func newTestAPI(t *testing.T, cfg RouterConfig) *testAPI {
	t.Helper()

	api := &testAPI{
		createOrder: &MockCreateOrderHandler{},
		transition:  &MockTransitionHandler{},
		payment:     &MockPaymentHandler{},
		setStock:    &MockSetStockHandler{},
		getOrder:    &MockGetOrderHandler{},
		listOrders:  &MockListOrdersHandler{},
		history:     &MockHistoryHandler{},
		getStock:    &MockGetStockHandler{},
		idempotency: newMemoryIdempotencyStore(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(Handlers{
		CreateOrder:   api.createOrder,
		Transition:    api.transition,
		UpdatePayment: api.payment,
		SetStock:      api.setStock,
		GetOrder:      api.getOrder,
		ListOrders:    api.listOrders,
		OrderHistory:  api.history,
		GetStock:      api.getStock,
	}, api.idempotency, logger)

	cfg.Logger = logger
	e, err := NewRouter(server, cfg)
	require.NoError(t, err)
	api.e = e
	return api
}

func (a *testAPI) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) Error {
	t.Helper()
	var body Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sampleView(id uuid.UUID) queries.OrderView {
	return queries.OrderView{
		ID:           id,
		CustomerID:   "cust-1",
		CustomerName: "Ada",
		Items: []queries.ItemView{
			{ProductID: "sku-1", LocationID: "wh-a", Name: "Kettle", Quantity: 2, UnitPrice: decimal.RequireFromString("20.00")},
		},
		Total:              decimal.RequireFromString("40.00"),
		Currency:           "USD",
		PaymentStatus:      "Paid",
		Status:             "Packed",
		DeliveryStatus:     "AwaitingDispatch",
		Version:            3,
		NextExpectedAction: "Ship order",
		CreatedAt:          time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:          time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func Test_GetOrder(t *testing.T) {
	t.Run("should return the order with its version as ETag", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		id := uuid.New()
		api.getOrder.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
			return q.OrderID().String() == id.String()
		})).Return(sampleView(id), nil)

		rec := api.do(http.MethodGet, "/api/v1/orders/"+id.String(), "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `"3"`, rec.Header().Get("ETag"))
		var body Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, id, body.ID)
		assert.Equal(t, "Ship order", body.NextExpectedAction)
		assert.Equal(t, "AwaitingDispatch", body.DeliveryStatus)
		require.Len(t, body.Items, 1)
		assert.True(t, decimal.RequireFromString("40").Equal(body.Total))
	})

	t.Run("should map a missing order to 404", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		id := uuid.New()
		api.getOrder.On("Handle", mock.Anything, mock.Anything).
			Return(queries.OrderView{}, errs.NewObjectNotFoundError("orderId", id))

		rec := api.do(http.MethodGet, "/api/v1/orders/"+id.String(), "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, KindNotFound, body.Kind)
		assert.Equal(t, http.StatusNotFound, body.Code)
	})

	t.Run("should reject a malformed id", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})

		rec := api.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		api.getOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should hide internal errors", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		api.getOrder.On("Handle", mock.Anything, mock.Anything).
			Return(queries.OrderView{}, errors.New("pq: connection reset"))

		rec := api.do(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), "", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, KindInternal, body.Kind)
		assert.NotContains(t, body.Message, "pq")
	})
}

func Test_TransitionOrder(t *testing.T) {
	accepted := commands.TransitionResult{
		Status:   order.Packed,
		Delivery: order.DeliveryAwaitingDispatch,
		Version:  2,
	}

	t.Run("should apply the action and report the new state", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		id := uuid.New()
		api.transition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.TransitionOrderCommand) bool {
			_, hasVersion := cmd.ExpectedVersion()
			return cmd.OrderID().String() == id.String() &&
				cmd.Action() == order.ActionConfirm &&
				cmd.Actor() == "admin-7" &&
				cmd.Notes() == "ok" &&
				!hasVersion
		})).Return(accepted, nil)

		rec := api.do(http.MethodPost, "/api/v1/orders/"+id.String()+"/transition",
			`{"action":"Confirm","notes":"ok"}`, map[string]string{"X-Actor-Id": "admin-7"})

		require.Equal(t, http.StatusOK, rec.Code)
		var body TransitionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Packed", body.NewStatus)
		assert.Equal(t, "AwaitingDispatch", body.DeliveryStatus)
		assert.Equal(t, int64(2), body.Version)
		assert.NotNil(t, body.Warnings)
		assert.Empty(t, body.Warnings)
		api.transition.AssertExpectations(t)
	})

	t.Run("should pass shipment details and warnings through", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		api.transition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.TransitionOrderCommand) bool {
			return cmd.Shipment().TrackingNumber == "TRK-9" && cmd.Shipment().Carrier == "UPS"
		})).Return(commands.TransitionResult{
			Status:   order.Shipped,
			Delivery: order.DeliveryOutForDelivery,
			Version:  4,
			Warnings: []string{"notification effect failed: smtp down"},
		}, nil)

		rec := api.do(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/transition",
			`{"action":"Ship","trackingNumber":"TRK-9","carrier":"UPS"}`, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body TransitionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, []string{"notification effect failed: smtp down"}, body.Warnings)
	})

	t.Run("should read the expected version from If-Match", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		api.transition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.TransitionOrderCommand) bool {
			v, ok := cmd.ExpectedVersion()
			return ok && v == 3
		})).Return(accepted, nil)

		rec := api.do(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/transition",
			`{"action":"Confirm"}`, map[string]string{"If-Match": `W/"3"`})

		assert.Equal(t, http.StatusOK, rec.Code)
		api.transition.AssertExpectations(t)
	})

	t.Run("should reject disagreeing versions", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})

		rec := api.do(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/transition",
			`{"action":"Confirm","expectedVersion":2}`, map[string]string{"If-Match": `"3"`})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		api.transition.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should reject unknown actions before handling", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})

		rec := api.do(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/transition",
			`{"action":"Teleport"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, KindInvalidRequest, decodeError(t, rec).Kind)
		api.transition.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	failures := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{
			name:   "terminal state",
			err:    &order.TransitionError{Kind: order.TerminalState, From: order.State{Status: order.Cancelled}, Action: order.ActionConfirm},
			status: http.StatusUnprocessableEntity,
			kind:   KindTerminalState,
		},
		{
			name:   "illegal transition",
			err:    &order.TransitionError{Kind: order.IllegalTransition, From: order.State{Status: order.Pending}, Action: order.ActionShip},
			status: http.StatusUnprocessableEntity,
			kind:   KindIllegalTransition,
		},
		{
			name:   "version conflict",
			err:    errs.NewVersionIsInvalidError("version"),
			status: http.StatusConflict,
			kind:   KindConflict,
		},
		{
			name: "insufficient stock",
			err: &effects.EffectError{
				Effect: effects.KindInventory,
				Cause:  fmt.Errorf("%w: product sku-1 at wh-a needs 3", inventory.ErrInsufficientStock),
			},
			status: http.StatusUnprocessableEntity,
			kind:   KindInsufficientStock,
		},
		{
			name:   "inventory timeout",
			err:    &effects.EffectError{Effect: effects.KindInventory, Cause: effects.ErrCollaboratorTimeout},
			status: http.StatusServiceUnavailable,
			kind:   KindUnavailable,
		},
		{
			name:   "unknown order",
			err:    errs.NewObjectNotFoundError("order", "x"),
			status: http.StatusNotFound,
			kind:   KindNotFound,
		},
	}
	for _, tc := range failures {
		t.Run("should map "+tc.name, func(t *testing.T) {
			api := newTestAPI(t, RouterConfig{})
			api.transition.On("Handle", mock.Anything, mock.Anything).Return(commands.TransitionResult{}, tc.err)

			rec := api.do(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/transition",
				`{"action":"Confirm"}`, nil)

			assert.Equal(t, tc.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tc.kind, body.Kind)
			assert.Equal(t, tc.err.Error(), body.Message)
		})
	}

	t.Run("should replay the stored response for a repeated key", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		id := uuid.NewString()
		api.transition.On("Handle", mock.Anything, mock.Anything).Return(accepted, nil).Once()
		headers := map[string]string{"Idempotency-Key": "req-1"}

		first := api.do(http.MethodPost, "/api/v1/orders/"+id+"/transition", `{"action":"Confirm"}`, headers)
		second := api.do(http.MethodPost, "/api/v1/orders/"+id+"/transition", `{"action":"Confirm"}`, headers)

		require.Equal(t, http.StatusOK, first.Code)
		require.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		api.transition.AssertNumberOfCalls(t, "Handle", 1)
	})

	t.Run("should not store rejected transitions", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		id := uuid.NewString()
		api.transition.On("Handle", mock.Anything, mock.Anything).
			Return(commands.TransitionResult{}, errs.NewVersionIsInvalidError("version")).Once()
		api.transition.On("Handle", mock.Anything, mock.Anything).Return(accepted, nil).Once()
		headers := map[string]string{"Idempotency-Key": "req-2"}

		first := api.do(http.MethodPost, "/api/v1/orders/"+id+"/transition", `{"action":"Confirm"}`, headers)
		second := api.do(http.MethodPost, "/api/v1/orders/"+id+"/transition", `{"action":"Confirm"}`, headers)

		assert.Equal(t, http.StatusConflict, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.Empty(t, second.Header().Get("Idempotent-Replayed"))
	})
}

func Test_ListOrders(t *testing.T) {
	t.Run("should translate query parameters into the filter", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		id := uuid.New()
		api.listOrders.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
			f := q.Filter()
			return len(f.Statuses) == 2 &&
				f.Statuses[0] == order.Pending &&
				f.Statuses[1] == order.Packed &&
				f.CustomerID == "cust-1" &&
				f.From != nil && f.From.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) &&
				f.DeliveryStatus != nil && *f.DeliveryStatus == order.DeliveryNone &&
				q.Page() == 2 && q.PerPage() == 5
		})).Return(queries.ListOrdersResponse{
			Items: []queries.OrderSummaryView{{ID: id, Status: "Pending", ItemCount: 3, NextExpectedAction: "Confirm within 24 hrs"}},
			Page:  2, PerPage: 5, Total: 6,
		}, nil)

		rec := api.do(http.MethodGet,
			"/api/v1/orders?status=Pending&status=Packed&customerId=cust-1&from=2026-01-01T00:00:00Z&deliveryStatus=None&page=2&perPage=5",
			"", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body OrderPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int64(6), body.Total)
		assert.Equal(t, 2, body.Page)
		require.Len(t, body.Items, 1)
		assert.Equal(t, 3, body.Items[0].ItemCount)
		api.listOrders.AssertExpectations(t)
	})

	t.Run("should return an empty list rather than null", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		api.listOrders.On("Handle", mock.Anything, mock.Anything).
			Return(queries.ListOrdersResponse{Items: []queries.OrderSummaryView{}, Page: 1, PerPage: 20}, nil)

		rec := api.do(http.MethodGet, "/api/v1/orders", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"items":[]`)
	})

	t.Run("should reject a page size over the limit", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})

		rec := api.do(http.MethodGet, "/api/v1/orders?perPage=500", "", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		api.listOrders.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should reject unknown statuses", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})

		rec := api.do(http.MethodGet, "/api/v1/orders?status=Lost", "", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_CreateOrder(t *testing.T) {
	t.Run("should create the order and return its view", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		id := uuid.New()
		api.createOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
			return cmd.OrderID().String() == id.String() &&
				cmd.Customer().ID() == "cust-1" &&
				len(cmd.Items()) == 1 &&
				cmd.Actor() == "shop"
		})).Return(nil)
		view := sampleView(id)
		view.Status, view.DeliveryStatus, view.Version = "Pending", "", 1
		api.getOrder.On("Handle", mock.Anything, mock.Anything).Return(view, nil)

		rec := api.do(http.MethodPost, "/api/v1/orders", `{
			"id": "`+id.String()+`",
			"customer": {"id": "cust-1", "name": "Ada", "email": "ada@example.com"},
			"currency": "USD",
			"items": [{"productId": "sku-1", "name": "Kettle", "quantity": 2, "unitPrice": "20.00"}]
		}`, map[string]string{"X-Actor-Id": "shop"})

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/api/v1/orders/"+id.String(), rec.Header().Get(echo.HeaderLocation))
		var body Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Pending", body.Status)
		api.createOrder.AssertExpectations(t)
	})

	t.Run("should reject an order without items", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})

		rec := api.do(http.MethodPost, "/api/v1/orders",
			`{"customer":{"id":"c","name":"n"},"currency":"USD","items":[]}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		api.createOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func Test_UpdatePaymentStatus(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})
	api.payment.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdatePaymentStatusCommand) bool {
		v, ok := cmd.ExpectedVersion()
		return cmd.Status() == order.PaymentPaid && ok && v == 1
	})).Return(commands.PaymentResult{PaymentStatus: order.PaymentPaid, Version: 2}, nil)

	rec := api.do(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/payment",
		`{"paymentStatus":"Paid","expectedVersion":1}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"paymentStatus":"Paid","version":2}`, rec.Body.String())
	assert.Equal(t, `"2"`, rec.Header().Get("ETag"))
}

func Test_History(t *testing.T) {
	api := newTestAPI(t, RouterConfig{})
	api.history.On("Handle", mock.Anything, mock.Anything).Return([]queries.HistoryEntryView{
		{ID: uuid.New(), Sequence: 1, Action: "Create", Status: "Pending", CreatedBy: "system"},
		{ID: uuid.New(), Sequence: 2, Action: "Confirm", Status: "Packed", DeliveryStatus: "AwaitingDispatch", CreatedBy: "admin"},
	}, nil)

	rec := api.do(http.MethodGet, "/api/v1/orders/"+uuid.NewString()+"/history", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []HistoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Create", body[0].Action)
	assert.Equal(t, "AwaitingDispatch", body[1].DeliveryStatus)
}

func Test_Stock(t *testing.T) {
	t.Run("should store a stock level", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		api.setStock.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.SetStockCommand) bool {
			l := cmd.Level()
			return l.ProductID() == "sku-1" && l.LocationID() == "wh-a" && l.Quantity() == 7
		})).Return(nil)

		rec := api.do(http.MethodPut, "/api/v1/inventory/sku-1/locations/wh-a", `{"quantity":7}`, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		api.setStock.AssertExpectations(t)
	})

	t.Run("should reject negative quantities", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})

		rec := api.do(http.MethodPut, "/api/v1/inventory/sku-1/locations/wh-a", `{"quantity":-1}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should list stock per location", func(t *testing.T) {
		api := newTestAPI(t, RouterConfig{})
		api.getStock.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetStockQuery) bool {
			return q.ProductID() == "sku-1"
		})).Return([]queries.StockLevelView{
			{ProductID: "sku-1", LocationID: "wh-a", Quantity: 3},
			{ProductID: "sku-1", LocationID: "wh-b", Quantity: 0},
		}, nil)

		rec := api.do(http.MethodGet, "/api/v1/inventory/sku-1", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body []StockLevel
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body, 2)
	})
}
