package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrUpdatePaymentStatusCommandIsNotConstructed = errors.New(
	"UpdatePaymentStatusCommand must be created via NewUpdatePaymentStatusCommand constructor",
)

// UpdatePaymentStatusCommand moves the payment dimension of an order.
type UpdatePaymentStatusCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	status          order.PaymentStatus
	expectedVersion *int64

	guard guard.ConstructorGuard
}

func NewUpdatePaymentStatusCommand(orderID kernel.UUID, status order.PaymentStatus, expectedVersion *int64) (UpdatePaymentStatusCommand, error) {
	var errVersion error
	if expectedVersion != nil && *expectedVersion < 1 {
		errVersion = errs.NewValueIsOutOfRangeError("expectedVersion", *expectedVersion, 1, "unbounded")
	}
	if err := errors.Join(orderID.Validate(), status.Validate(), errVersion); err != nil {
		return UpdatePaymentStatusCommand{}, err
	}

	return UpdatePaymentStatusCommand{
		orderID:         orderID,
		status:          status,
		expectedVersion: expectedVersion,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c UpdatePaymentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePaymentStatusCommandIsNotConstructed)
}

func (c UpdatePaymentStatusCommand) OrderID() kernel.UUID { return c.orderID }

func (c UpdatePaymentStatusCommand) Status() order.PaymentStatus { return c.status }

func (c UpdatePaymentStatusCommand) ExpectedVersion() (int64, bool) {
	if c.expectedVersion == nil {
		return 0, false
	}
	return *c.expectedVersion, true
}
