package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/history"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand asks for one lifecycle action on one order.
// ExpectedVersion, when set, makes the command fail with a conflict if the order
// changed since the caller read it.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	action          order.Action
	notes           string
	shipment        order.ShipmentDetails
	expectedVersion *int64
	actor           string

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(
	orderID kernel.UUID,
	action order.Action,
	notes string,
	shipment order.ShipmentDetails,
	expectedVersion *int64,
	actor string,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		orderID:         orderID,
		action:          action,
		notes:           strings.TrimSpace(notes),
		shipment:        shipment,
		expectedVersion: expectedVersion,
		actor:           strings.TrimSpace(actor),
		guard:           guard.NewConstructorGuard(),
	}
	if cmd.actor == "" {
		cmd.actor = history.DefaultActor
	}

	var errAction, errVersion error
	if _, err := order.ParseAction(action.String()); err != nil {
		errAction = err
	}
	if expectedVersion != nil && *expectedVersion < 1 {
		errVersion = errs.NewValueIsOutOfRangeError("expectedVersion", *expectedVersion, 1, "unbounded")
	}
	if err := errors.Join(orderID.Validate(), errAction, errVersion); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID { return c.orderID }

func (c TransitionOrderCommand) Action() order.Action { return c.action }

func (c TransitionOrderCommand) Notes() string { return c.notes }

func (c TransitionOrderCommand) Shipment() order.ShipmentDetails { return c.shipment }

// ExpectedVersion returns the caller's version and whether one was given.
func (c TransitionOrderCommand) ExpectedVersion() (int64, bool) {
	if c.expectedVersion == nil {
		return 0, false
	}
	return *c.expectedVersion, true
}

func (c TransitionOrderCommand) Actor() string { return c.actor }
