package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ListOrdersParams are the query parameters of GET /orders.
type ListOrdersParams struct {
	Status         *[]string
	From           *time.Time
	To             *time.Time
	CustomerId     *string //nolint:revive // matches the query parameter name
	PaymentStatus  *string
	DeliveryStatus *string
	Page           *int
	PerPage        *int
}

type CreateOrderParams struct {
	XActorId *string //nolint:revive // matches the header name
}

type TransitionOrderParams struct {
	XActorId       *string //nolint:revive // matches the header name
	IfMatch        *string
	IdempotencyKey *string
}

type UpdatePaymentStatusParams struct {
	IfMatch *string
}

// ServerInterface lists the operations of openapi.yaml with their parameters
// already bound.
type ServerInterface interface {
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	CreateOrder(ctx echo.Context, params CreateOrderParams) error
	GetOrder(ctx echo.Context, orderID uuid.UUID) error
	TransitionOrder(ctx echo.Context, orderID uuid.UUID, params TransitionOrderParams) error
	GetOrderHistory(ctx echo.Context, orderID uuid.UUID) error
	UpdatePaymentStatus(ctx echo.Context, orderID uuid.UUID, params UpdatePaymentStatusParams) error
	GetStock(ctx echo.Context, productID string) error
	SetStock(ctx echo.Context, productID, locationID string) error
}

// ServerWrapper binds path, query and header parameters and calls the handler.
type ServerWrapper struct {
	Handler ServerInterface
}

// RegisterHandlers mounts every operation on router.
func RegisterHandlers(router *echo.Group, si ServerInterface) {
	w := &ServerWrapper{Handler: si}

	router.GET("/orders", w.ListOrders)
	router.POST("/orders", w.CreateOrder)
	router.GET("/orders/:orderId", w.GetOrder)
	router.POST("/orders/:orderId/transition", w.TransitionOrder)
	router.GET("/orders/:orderId/history", w.GetOrderHistory)
	router.POST("/orders/:orderId/payment", w.UpdatePaymentStatus)
	router.GET("/inventory/:productId", w.GetStock)
	router.PUT("/inventory/:productId/locations/:locationId", w.SetStock)
}

func (w *ServerWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams
	query := ctx.QueryParams()

	bindings := []struct {
		name    string
		explode bool
		dest    any
	}{
		{"status", true, &params.Status},
		{"from", true, &params.From},
		{"to", true, &params.To},
		{"customerId", true, &params.CustomerId},
		{"paymentStatus", true, &params.PaymentStatus},
		{"deliveryStatus", true, &params.DeliveryStatus},
		{"page", true, &params.Page},
		{"perPage", true, &params.PerPage},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", b.explode, false, b.name, query, b.dest); err != nil {
			return badRequest(ctx, fmt.Sprintf("Invalid format for parameter %s: %s", b.name, err))
		}
	}

	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerWrapper) CreateOrder(ctx echo.Context) error {
	var params CreateOrderParams
	actor, err := bindHeader(ctx, "X-Actor-Id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	params.XActorId = actor

	return w.Handler.CreateOrder(ctx, params)
}

func (w *ServerWrapper) GetOrder(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	return w.Handler.GetOrder(ctx, orderID)
}

func (w *ServerWrapper) TransitionOrder(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var params TransitionOrderParams
	if params.XActorId, err = bindHeader(ctx, "X-Actor-Id"); err != nil {
		return badRequest(ctx, err.Error())
	}
	if params.IfMatch, err = bindHeader(ctx, "If-Match"); err != nil {
		return badRequest(ctx, err.Error())
	}
	if params.IdempotencyKey, err = bindHeader(ctx, "Idempotency-Key"); err != nil {
		return badRequest(ctx, err.Error())
	}

	return w.Handler.TransitionOrder(ctx, orderID, params)
}

func (w *ServerWrapper) GetOrderHistory(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	return w.Handler.GetOrderHistory(ctx, orderID)
}

func (w *ServerWrapper) UpdatePaymentStatus(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var params UpdatePaymentStatusParams
	if params.IfMatch, err = bindHeader(ctx, "If-Match"); err != nil {
		return badRequest(ctx, err.Error())
	}

	return w.Handler.UpdatePaymentStatus(ctx, orderID, params)
}

func (w *ServerWrapper) GetStock(ctx echo.Context) error {
	productID, err := bindPathString(ctx, "productId")
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	return w.Handler.GetStock(ctx, productID)
}

func (w *ServerWrapper) SetStock(ctx echo.Context) error {
	productID, err := bindPathString(ctx, "productId")
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	locationID, err := bindPathString(ctx, "locationId")
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	return w.Handler.SetStock(ctx, productID, locationID)
}

func bindOrderID(ctx echo.Context) (uuid.UUID, error) {
	var orderID uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid format for parameter orderId: %w", err)
	}
	return orderID, nil
}

func bindPathString(ctx echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return value, nil
}

// bindHeader returns nil when the header is absent.
func bindHeader(ctx echo.Context, name string) (*string, error) {
	values, found := ctx.Request().Header[http.CanonicalHeaderKey(name)]
	if !found {
		return nil, nil
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("expected one value for %s, got %d", name, len(values))
	}

	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, values[0], &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: false})
	if err != nil {
		return nil, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return &value, nil
}
