package order

import (
	"time"

	"storefront/internal/core/domain/model/kernel"
)

// StatusChanged is published after a transition commits.
type StatusChanged struct {
	OrderID    kernel.UUID
	CustomerID string
	Action     Action
	From       State
	To         State
	Version    int64
	OccurredAt time.Time
}

// NewStatusChanged describes t having been applied to o.
func NewStatusChanged(o *Order, t Transition) StatusChanged {
	return StatusChanged{
		OrderID:    o.ID(),
		CustomerID: o.Customer().ID(),
		Action:     t.Action,
		From:       t.From,
		To:         t.To,
		Version:    o.Version(),
		OccurredAt: o.UpdatedAt(),
	}
}
