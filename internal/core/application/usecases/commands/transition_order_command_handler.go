package commands

import (
	"context"
	"errors"
	"time"

	"storefront/internal/core/application/effects"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TransitionResult is what a caller learns after an accepted transition.
type TransitionResult struct {
	Status   order.Status
	Delivery order.DeliveryStatus
	Version  int64
	Warnings []string
}

// TransitionMetrics receives one outcome per handled transition.
type TransitionMetrics interface {
	ObserveTransition(action, outcome string)
}

type noopTransitionMetrics struct{}

func (noopTransitionMetrics) ObserveTransition(string, string) {}

// TransitionOrderCommandHandler runs a lifecycle action end to end:
//
//  1. load the order and check the caller's expected version
//  2. validate the action (pure) and allocate stock locations if needed
//  3. compare-and-set the order row on its stored version
//  4. apply inventory movements and append history in the same transaction
//  5. commit, then notify and publish; failures there become warnings
//
// A failure in steps 1-4 rolls everything back and leaves the order untouched.
type TransitionOrderCommandHandler struct {
	uowFactory LifecycleUoWFactory
	dispatcher *effects.Dispatcher
	metrics    TransitionMetrics
	now        func() time.Time
}

func NewTransitionOrderCommandHandler(
	uowFactory LifecycleUoWFactory,
	dispatcher *effects.Dispatcher,
	metrics TransitionMetrics,
) TransitionOrderCommandHandler {
	if metrics == nil {
		metrics = noopTransitionMetrics{}
	}
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (TransitionResult, error) {
	ctx, span := otel.Tracer("storefront/commands").Start(ctx, "TransitionOrder")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", cmd.OrderID().String()),
		attribute.String("order.action", cmd.Action().String()),
	)

	result, err := h.handle(ctx, cmd)
	h.metrics.ObserveTransition(cmd.Action().String(), outcome(err))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TransitionResult{}, err
	}
	span.SetAttributes(attribute.String("order.status", result.Status.String()))
	return result, nil
}

func (h *TransitionOrderCommandHandler) handle(ctx context.Context, cmd TransitionOrderCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return TransitionResult{}, err
	}

	if expected, ok := cmd.ExpectedVersion(); ok {
		if err = o.ExpectVersion(expected); err != nil {
			return TransitionResult{}, err
		}
	}

	t, err := o.Apply(cmd.Action(), cmd.Shipment(), h.now())
	if err != nil {
		return TransitionResult{}, err
	}

	if err = h.dispatcher.Prepare(ctx, uow, o, t); err != nil {
		return TransitionResult{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return TransitionResult{}, err
	}

	if err = h.dispatcher.Apply(ctx, uow, o, t, cmd.Notes(), cmd.Actor()); err != nil {
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	warnings := h.dispatcher.AfterCommit(ctx, o, t)

	return TransitionResult{
		Status:   o.Status(),
		Delivery: o.DeliveryStatus(),
		Version:  o.Version(),
		Warnings: warnings,
	}, nil
}

func outcome(err error) string {
	var terr *order.TransitionError
	switch {
	case err == nil:
		return "accepted"
	case errors.As(err, &terr):
		return "rejected_" + terr.Kind.String()
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return "conflict"
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, inventory.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "failed"
	}
}
