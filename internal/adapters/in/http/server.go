// Package http is the caller-facing JSON API: lifecycle transitions, order
// views and history, payment updates and stock administration.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// IdempotencyTTL is how long a transition response is replayed for its key.
const IdempotencyTTL = 24 * time.Hour

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	TransitionOrderHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (commands.TransitionResult, error)
	}
	UpdatePaymentStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdatePaymentStatusCommand) (commands.PaymentResult, error)
	}
	SetStockHandler interface {
		Handle(ctx context.Context, cmd commands.SetStockCommand) error
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}
	ListOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) (queries.ListOrdersResponse, error)
	}
	GetOrderHistoryHandler interface {
		Handle(ctx context.Context, query queries.GetOrderHistoryQuery) ([]queries.HistoryEntryView, error)
	}
	GetStockHandler interface {
		Handle(ctx context.Context, query queries.GetStockQuery) ([]queries.StockLevelView, error)
	}
)

// Handlers are the use cases the API exposes.
type Handlers struct {
	CreateOrder   CreateOrderHandler
	Transition    TransitionOrderHandler
	UpdatePayment UpdatePaymentStatusHandler
	SetStock      SetStockHandler
	GetOrder      GetOrderHandler
	ListOrders    ListOrdersHandler
	OrderHistory  GetOrderHistoryHandler
	GetStock      GetStockHandler
}

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	handlers    Handlers
	idempotency ports.IdempotencyStore
	logger      *slog.Logger
}

// NewServer creates the API server. idempotency may be nil, in which case
// Idempotency-Key headers are ignored.
func NewServer(handlers Handlers, idempotency ports.IdempotencyStore, logger *slog.Logger) *Server {
	return &Server{
		handlers:    handlers,
		idempotency: idempotency,
		logger:      logger.With("component", "http"),
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context, params CreateOrderParams) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	if body.ID != nil {
		id, err := kernel.UUIDFromString(body.ID.String())
		if err != nil {
			return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
		}
		orderID = id
	}

	customer, err := order.NewCustomer(body.Customer.ID, body.Customer.Name, body.Customer.Email,
		body.Customer.Phone, body.Customer.Address)
	if err != nil {
		return s.writeError(ctx, err)
	}

	items := make([]commands.CreateOrderItem, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, commands.CreateOrderItem{
			ProductID:  item.ProductID,
			LocationID: item.LocationID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, customer, body.Currency, items,
		body.PaymentMethod, deref(params.XActorId))
	if err != nil {
		return s.writeError(ctx, err)
	}

	reqCtx := ctx.Request().Context()
	if err = s.handlers.CreateOrder.Handle(reqCtx, cmd); err != nil {
		return s.writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.writeError(ctx, err)
	}
	view, err := s.handlers.GetOrder.Handle(reqCtx, query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderLocation, "/api/v1/orders/"+orderID.String())
	ctx.Response().Header().Set("ETag", etag(view.Version))
	return ctx.JSON(http.StatusCreated, toOrder(view))
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context, params ListOrdersParams) error {
	filter := queries.OrderFilter{
		From:       params.From,
		To:         params.To,
		CustomerID: deref(params.CustomerId),
	}

	if params.Status != nil {
		for _, name := range *params.Status {
			status, err := order.ParseStatus(name)
			if err != nil {
				return s.writeError(ctx, err)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if params.PaymentStatus != nil {
		ps, err := order.ParsePaymentStatus(*params.PaymentStatus)
		if err != nil {
			return s.writeError(ctx, err)
		}
		filter.PaymentStatus = &ps
	}
	if params.DeliveryStatus != nil {
		ds, err := parseDeliveryFilter(*params.DeliveryStatus)
		if err != nil {
			return s.writeError(ctx, err)
		}
		filter.DeliveryStatus = &ds
	}

	var page, perPage int
	if params.Page != nil {
		page = *params.Page
	}
	if params.PerPage != nil {
		perPage = *params.PerPage
	}

	query, err := queries.NewListOrdersQuery(filter, page, perPage)
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.handlers.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := OrderPage{
		Items:   make([]OrderSummary, len(result.Items)),
		Page:    result.Page,
		PerPage: result.PerPage,
		Total:   result.Total,
	}
	for i, item := range result.Items {
		response.Items[i] = OrderSummary{
			ID:                 item.ID,
			CustomerID:         item.CustomerID,
			CustomerName:       item.CustomerName,
			ItemCount:          item.ItemCount,
			Total:              item.Total,
			Currency:           item.Currency,
			PaymentStatus:      item.PaymentStatus,
			Status:             item.Status,
			DeliveryStatus:     item.DeliveryStatus,
			Version:            item.Version,
			NextExpectedAction: item.NextExpectedAction,
			CreatedAt:          item.CreatedAt,
			UpdatedAt:          item.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderID uuid.UUID) error {
	id, err := kernel.UUIDFromString(orderID.String())
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.writeError(ctx, err)
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	ctx.Response().Header().Set("ETag", etag(view.Version))
	return ctx.JSON(http.StatusOK, toOrder(view))
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transition.
func (s *Server) TransitionOrder(ctx echo.Context, orderID uuid.UUID, params TransitionOrderParams) error {
	id, err := kernel.UUIDFromString(orderID.String())
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	var body TransitionRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	action, err := order.ParseAction(body.Action)
	if err != nil {
		return s.writeError(ctx, err)
	}

	expected, err := expectedVersion(body.ExpectedVersion, params.IfMatch)
	if err != nil {
		return s.writeError(ctx, err)
	}

	reqCtx := ctx.Request().Context()
	key := ""
	if params.IdempotencyKey != nil && s.idempotency != nil {
		key = "transition:" + id.String() + ":" + strings.TrimSpace(*params.IdempotencyKey)
		if replayed, ok := s.replay(reqCtx, key); ok {
			ctx.Response().Header().Set("Idempotent-Replayed", "true")
			return ctx.JSONBlob(http.StatusOK, replayed)
		}
	}

	cmd, err := commands.NewTransitionOrderCommand(
		id,
		action,
		body.Notes,
		order.ShipmentDetails{TrackingNumber: body.TrackingNumber, Carrier: body.Carrier},
		expected,
		deref(params.XActorId),
	)
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.handlers.Transition.Handle(reqCtx, cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := TransitionResponse{
		NewStatus: result.Status.String(),
		Version:   result.Version,
		Warnings:  result.Warnings,
	}
	if response.Warnings == nil {
		response.Warnings = []string{}
	}
	if result.Delivery.IsSet() {
		response.DeliveryStatus = result.Delivery.String()
	}

	if key != "" {
		s.remember(reqCtx, key, response)
	}

	ctx.Response().Header().Set("ETag", etag(result.Version))
	return ctx.JSON(http.StatusOK, response)
}

// GetOrderHistory handles GET /api/v1/orders/{orderId}/history.
func (s *Server) GetOrderHistory(ctx echo.Context, orderID uuid.UUID) error {
	id, err := kernel.UUIDFromString(orderID.String())
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	query, err := queries.NewGetOrderHistoryQuery(id)
	if err != nil {
		return s.writeError(ctx, err)
	}

	entries, err := s.handlers.OrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]HistoryEntry, len(entries))
	for i, entry := range entries {
		response[i] = HistoryEntry{
			ID:             entry.ID,
			Sequence:       entry.Sequence,
			Action:         entry.Action,
			Status:         entry.Status,
			DeliveryStatus: entry.DeliveryStatus,
			Notes:          entry.Notes,
			CreatedBy:      entry.CreatedBy,
			CreatedAt:      entry.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// UpdatePaymentStatus handles POST /api/v1/orders/{orderId}/payment.
func (s *Server) UpdatePaymentStatus(ctx echo.Context, orderID uuid.UUID, params UpdatePaymentStatusParams) error {
	id, err := kernel.UUIDFromString(orderID.String())
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}

	var body PaymentRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := order.ParsePaymentStatus(body.PaymentStatus)
	if err != nil {
		return s.writeError(ctx, err)
	}

	expected, err := expectedVersion(body.ExpectedVersion, params.IfMatch)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewUpdatePaymentStatusCommand(id, status, expected)
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.handlers.UpdatePayment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	ctx.Response().Header().Set("ETag", etag(result.Version))
	return ctx.JSON(http.StatusOK, PaymentResponse{
		PaymentStatus: result.PaymentStatus.String(),
		Version:       result.Version,
	})
}

// SetStock handles PUT /api/v1/inventory/{productId}/locations/{locationId}.
func (s *Server) SetStock(ctx echo.Context, productID, locationID string) error {
	var body StockUpdate
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetStockCommand(productID, locationID, body.Quantity)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.handlers.SetStock.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetStock handles GET /api/v1/inventory/{productId}.
func (s *Server) GetStock(ctx echo.Context, productID string) error {
	query, err := queries.NewGetStockQuery(productID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	levels, err := s.handlers.GetStock.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]StockLevel, len(levels))
	for i, level := range levels {
		response[i] = StockLevel{
			ProductID:  level.ProductID,
			LocationID: level.LocationID,
			Quantity:   level.Quantity,
			UpdatedAt:  level.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// replay returns the stored response for key. Store failures are logged and
// treated as a miss so an unavailable store never blocks transitions.
func (s *Server) replay(ctx context.Context, key string) ([]byte, bool) {
	payload, found, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "Idempotency lookup failed", "key", key, "error", err)
		return nil, false
	}
	return payload, found
}

func (s *Server) remember(ctx context.Context, key string, response TransitionResponse) {
	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err = s.idempotency.Remember(ctx, key, payload, IdempotencyTTL); err != nil {
		s.logger.WarnContext(ctx, "Idempotency store failed", "key", key, "error", err)
	}
}

func toOrder(view queries.OrderView) Order {
	items := make([]OrderItem, len(view.Items))
	for i, item := range view.Items {
		items[i] = OrderItem{
			ProductID:  item.ProductID,
			LocationID: item.LocationID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
	}

	return Order{
		ID: view.ID,
		Customer: Customer{
			ID:      view.CustomerID,
			Name:    view.CustomerName,
			Email:   view.CustomerEmail,
			Phone:   view.Phone,
			Address: view.Address,
		},
		Items:              items,
		Total:              view.Total,
		Currency:           view.Currency,
		PaymentMethod:      view.PaymentMethod,
		PaymentStatus:      view.PaymentStatus,
		Status:             view.Status,
		DeliveryStatus:     view.DeliveryStatus,
		TrackingNumber:     view.TrackingNumber,
		Carrier:            view.Carrier,
		Version:            view.Version,
		NextExpectedAction: view.NextExpectedAction,
		CreatedAt:          view.CreatedAt,
		UpdatedAt:          view.UpdatedAt,
	}
}

func etag(version int64) string {
	return strconv.Quote(strconv.FormatInt(version, 10))
}

// parseIfMatch reads a version from an If-Match value such as "3" or W/"3".
// "*" matches any version and yields nil.
func parseIfMatch(value string) (*int64, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "*" {
		return nil, nil
	}
	value = strings.TrimPrefix(value, "W/")
	value = strings.Trim(value, `"`)

	version, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("If-Match", fmt.Errorf("%q is not an order version", value))
	}
	return &version, nil
}

// expectedVersion merges the body field and the If-Match header; when both are
// given they must agree.
func expectedVersion(fromBody *int64, ifMatch *string) (*int64, error) {
	if ifMatch == nil {
		return fromBody, nil
	}
	fromHeader, err := parseIfMatch(*ifMatch)
	if err != nil {
		return nil, err
	}
	if fromHeader == nil {
		return fromBody, nil
	}
	if fromBody != nil && *fromBody != *fromHeader {
		return nil, errs.NewValueIsInvalidErrorWithCause("expectedVersion",
			fmt.Errorf("body says %d, If-Match says %d", *fromBody, *fromHeader))
	}
	return fromHeader, nil
}

func parseDeliveryFilter(value string) (order.DeliveryStatus, error) {
	if value == "None" {
		return order.DeliveryNone, nil
	}
	ds, err := order.ParseDeliveryStatus(value)
	if err != nil {
		return order.DeliveryNone, err
	}
	if !ds.IsSet() {
		return order.DeliveryNone, errs.NewValueIsInvalidError("deliveryStatus")
	}
	return ds, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
