package commands

import (
	"context"
	"time"

	"storefront/internal/core/application/effects"
	"storefront/internal/core/domain/model/order"
)

// CreateOrderCommandHandler places orders. The order row and its first history
// entry (action Create) are written in one transaction.
type CreateOrderCommandHandler struct {
	uowFactory LifecycleUoWFactory
	dispatcher *effects.Dispatcher
	now        func() time.Time
}

func NewCreateOrderCommandHandler(uowFactory LifecycleUoWFactory, dispatcher *effects.Dispatcher) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.Customer(), cmd.Items(), cmd.PaymentMethod(), h.now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = h.dispatcher.AppendHistory(ctx, uow, o, order.ActionCreate, "", cmd.Actor()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
