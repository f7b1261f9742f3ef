package order

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// Action is a caller request to move an order through its lifecycle.
type Action int

const (
	ActionUnknown Action = iota
	ActionConfirm
	ActionShip
	ActionMarkOutForDelivery
	ActionMarkDelivered
	ActionCancel
	ActionMarkFailedDelivery
	ActionExchange

	// ActionCreate labels the history entry written when an order is placed.
	// Attempt never accepts it.
	ActionCreate
)

func getActionStrings() map[Action]string {
	return map[Action]string{
		ActionUnknown:            "Unknown",
		ActionConfirm:            "Confirm",
		ActionShip:               "Ship",
		ActionMarkOutForDelivery: "MarkOutForDelivery",
		ActionMarkDelivered:      "MarkDelivered",
		ActionCancel:             "Cancel",
		ActionMarkFailedDelivery: "MarkFailedDelivery",
		ActionExchange:           "Exchange",
		ActionCreate:             "Create",
	}
}

// CallerActions lists the actions accepted by Attempt.
func CallerActions() []Action {
	return []Action{
		ActionConfirm,
		ActionShip,
		ActionMarkOutForDelivery,
		ActionMarkDelivered,
		ActionCancel,
		ActionMarkFailedDelivery,
		ActionExchange,
	}
}

// ParseAction accepts only caller actions; "Create" is rejected.
func ParseAction(s string) (Action, error) {
	for _, a := range CallerActions() {
		if a.String() == s {
			return a, nil
		}
	}
	return ActionUnknown, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a valid action", s))
}

// ParseHistoryAction also accepts "Create", for rows read back from the history log.
func ParseHistoryAction(s string) (Action, error) {
	if s == ActionCreate.String() {
		return ActionCreate, nil
	}
	return ParseAction(s)
}

func (a Action) String() string {
	if str, ok := getActionStrings()[a]; ok {
		return str
	}
	return "Unknown"
}
