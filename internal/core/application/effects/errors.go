package effects

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/inventory"
)

// ErrCollaboratorTimeout marks a collaborator call cut off by the effect timeout.
var ErrCollaboratorTimeout = errors.New("collaborator timed out")

// Kind names the side effect that failed.
type Kind string

const (
	KindInventory    Kind = "inventory"
	KindHistory      Kind = "history"
	KindNotification Kind = "notification"
	KindEvents       Kind = "events"
)

// EffectError reports a failed side effect. Inventory and history failures abort
// the transition; notification and event failures only ever become warnings.
type EffectError struct {
	Effect Kind
	Cause  error
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("%s effect failed: %s", e.Effect, e.Cause)
}

func (e *EffectError) Unwrap() error {
	return e.Cause
}

// IsUnavailable reports whether err is a collaborator outage rather than a
// business rejection such as insufficient stock.
func IsUnavailable(err error) bool {
	if errors.Is(err, inventory.ErrInsufficientStock) {
		return false
	}
	return errors.Is(err, ErrCollaboratorTimeout) || errors.Is(err, context.DeadlineExceeded)
}

func newEffectError(kind Kind, cause error) error {
	return &EffectError{Effect: kind, Cause: cause}
}
