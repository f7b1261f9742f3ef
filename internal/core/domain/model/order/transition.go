package order

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrTerminalState     = errors.New("order is in a terminal state")
	ErrIllegalTransition = errors.New("illegal transition")
)

// TransitionErrorKind classifies why Attempt refused an action.
type TransitionErrorKind int

const (
	TerminalState TransitionErrorKind = iota + 1
	IllegalTransition
)

func (k TransitionErrorKind) String() string {
	switch k {
	case TerminalState:
		return "TerminalState"
	case IllegalTransition:
		return "IllegalTransition"
	default:
		return "Unknown"
	}
}

// TransitionError is returned by Attempt. It unwraps to ErrTerminalState or
// ErrIllegalTransition.
type TransitionError struct {
	Kind   TransitionErrorKind
	From   State
	Action Action
}

func (e *TransitionError) Error() string {
	if e.Kind == TerminalState {
		return fmt.Sprintf("%s: %s orders accept no further actions (got %s)", ErrTerminalState, e.From, e.Action)
	}
	return fmt.Sprintf("%s: cannot %s an order in %s", ErrIllegalTransition, e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	if e.Kind == TerminalState {
		return ErrTerminalState
	}
	return ErrIllegalTransition
}

// State is the pair of lifecycle dimensions the validator reads.
type State struct {
	Status   Status
	Delivery DeliveryStatus
}

func (s State) String() string {
	if s.Delivery.IsSet() {
		return s.Status.String() + "/" + s.Delivery.String()
	}
	return s.Status.String()
}

// Validate enforces that a delivery status is present exactly when the stage
// tracks delivery.
func (s State) Validate() error {
	if err := errors.Join(s.Status.Validate(), s.Delivery.Validate()); err != nil {
		return err
	}
	if s.Status.TracksDelivery() != s.Delivery.IsSet() {
		return fmt.Errorf("%w: delivery status %q is inconsistent with %s", ErrIllegalTransition, s.Delivery, s.Status)
	}
	return nil
}

// Effect is a side effect a transition asks the dispatcher to execute. The
// history append is implied by every transition and is not listed.
type Effect int

const (
	EffectDecrementInventory Effect = iota + 1
	EffectReleaseInventory
	EffectNotify
)

func (e Effect) String() string {
	switch e {
	case EffectDecrementInventory:
		return "DecrementInventory"
	case EffectReleaseInventory:
		return "ReleaseInventory"
	case EffectNotify:
		return "Notify"
	default:
		return "Unknown"
	}
}

// Notification template names understood by the notification collaborator.
const (
	TemplateOrderConfirmation    = "order_confirmation"
	TemplateShippingConfirmation = "shipping_confirmation"
	TemplateOrderCancelled       = "order_cancelled"
	TemplateOrderDelivered       = "order_delivered"
	TemplateDeliveryFailed       = "delivery_failed"
)

// Transition is a validated move plus the effects it requires.
type Transition struct {
	Action   Action
	From     State
	To       State
	Effects  []Effect
	Template string
}

// Has reports whether the transition requires e.
func (t Transition) Has(e Effect) bool {
	return slices.Contains(t.Effects, e)
}

// StatusChanged is false for delivery-only moves such as MarkFailedDelivery.
func (t Transition) StatusChanged() bool {
	return t.From.Status != t.To.Status
}

type rule struct {
	from     Status
	delivery []DeliveryStatus // nil matches any delivery status
	action   Action
	to       State
	effects  []Effect
	template string
}

func getTransitionTable() []rule {
	return []rule{
		{
			from: Pending, action: ActionConfirm,
			to:       State{Packed, DeliveryAwaitingDispatch},
			effects:  []Effect{EffectDecrementInventory, EffectNotify},
			template: TemplateOrderConfirmation,
		},
		{
			from: Pending, action: ActionCancel,
			to:       State{Cancelled, DeliveryNone},
			effects:  []Effect{EffectNotify},
			template: TemplateOrderCancelled,
		},
		{
			from: Packed, action: ActionShip,
			to:       State{Shipped, DeliveryOutForDelivery},
			effects:  []Effect{EffectNotify},
			template: TemplateShippingConfirmation,
		},
		{
			from: Packed, action: ActionCancel,
			to:       State{Cancelled, DeliveryNone},
			effects:  []Effect{EffectReleaseInventory, EffectNotify},
			template: TemplateOrderCancelled,
		},
		{
			from: Shipped, action: ActionMarkDelivered,
			to:       State{Delivered, DeliveryDelivered},
			effects:  []Effect{EffectNotify},
			template: TemplateOrderDelivered,
		},
		{
			from: Shipped, delivery: []DeliveryStatus{DeliveryOutForDelivery}, action: ActionMarkFailedDelivery,
			to:       State{Shipped, DeliveryFailed},
			effects:  []Effect{EffectNotify},
			template: TemplateDeliveryFailed,
		},
		{
			from: Shipped, delivery: []DeliveryStatus{DeliveryFailed}, action: ActionMarkOutForDelivery,
			to: State{Shipped, DeliveryOutForDelivery},
		},
		{
			from: Delivered, action: ActionExchange,
			to: State{Exchanged, DeliveryNone},
		},
	}
}

func (r rule) matches(current State, action Action) bool {
	if r.from != current.Status || r.action != action {
		return false
	}
	return r.delivery == nil || slices.Contains(r.delivery, current.Delivery)
}

// Attempt decides whether action is legal from current. It is a pure function:
// it either returns the target state with the effects to execute, or a
// *TransitionError, and never mutates anything.
func Attempt(current State, action Action) (Transition, error) {
	if current.Status.IsTerminal() {
		return Transition{}, &TransitionError{Kind: TerminalState, From: current, Action: action}
	}

	for _, r := range getTransitionTable() {
		if !r.matches(current, action) {
			continue
		}
		return Transition{
			Action:   action,
			From:     current,
			To:       r.to,
			Effects:  slices.Clone(r.effects),
			Template: r.template,
		}, nil
	}

	return Transition{}, &TransitionError{Kind: IllegalTransition, From: current, Action: action}
}
