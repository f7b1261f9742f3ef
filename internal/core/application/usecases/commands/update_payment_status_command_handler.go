package commands

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/order"
)

// PaymentResult is the order's payment status and version after the update.
type PaymentResult struct {
	PaymentStatus order.PaymentStatus
	Version       int64
}

type UpdatePaymentStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

func NewUpdatePaymentStatusCommandHandler(uowFactory OrderUoWFactory) UpdatePaymentStatusCommandHandler {
	return UpdatePaymentStatusCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle applies the payment move with the same compare-and-set guard as
// lifecycle transitions.
func (h *UpdatePaymentStatusCommandHandler) Handle(ctx context.Context, cmd UpdatePaymentStatusCommand) (PaymentResult, error) {
	if err := cmd.Validate(); err != nil {
		return PaymentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PaymentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return PaymentResult{}, err
	}

	if expected, ok := cmd.ExpectedVersion(); ok {
		if err = o.ExpectVersion(expected); err != nil {
			return PaymentResult{}, err
		}
	}

	if err = o.UpdatePaymentStatus(cmd.Status(), h.now()); err != nil {
		return PaymentResult{}, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return PaymentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PaymentResult{}, err
	}

	return PaymentResult{PaymentStatus: o.PaymentStatus(), Version: o.Version()}, nil
}
