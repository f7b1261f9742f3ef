package history

import (
	"errors"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

// DefaultActor is recorded when a request does not identify its caller.
const DefaultActor = "system"

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Entry is one append-only row of an order's status history. It records the state
// the order reached, not the state it left.
type Entry struct {
	id        kernel.UUID
	orderID   kernel.UUID
	sequence  int64
	action    order.Action
	state     order.State
	notes     string
	createdBy string
	createdAt time.Time

	isConstructed bool
}

// NewEntry builds the entry for an action that moved the order to state. The
// sequence is zero until the store assigns it.
func NewEntry(orderID kernel.UUID, action order.Action, state order.State, notes, createdBy string, now time.Time) (*Entry, error) {
	e := &Entry{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		action:        action,
		state:         state,
		notes:         strings.TrimSpace(notes),
		createdBy:     strings.TrimSpace(createdBy),
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	var errActor error
	if e.createdBy == "" {
		errActor = errs.NewValueIsRequiredError("createdBy")
	}
	if err := errors.Join(orderID.Validate(), state.Validate(), errActor); err != nil {
		return nil, err
	}
	return e, nil
}

// RestoreEntry rebuilds an entry read back from storage.
func RestoreEntry(
	id, orderID kernel.UUID,
	sequence int64,
	action order.Action,
	state order.State,
	notes, createdBy string,
	createdAt time.Time,
) *Entry {
	return &Entry{
		id:            id,
		orderID:       orderID,
		sequence:      sequence,
		action:        action,
		state:         state,
		notes:         notes,
		createdBy:     createdBy,
		createdAt:     createdAt,
		isConstructed: true,
	}
}

func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

func (e *Entry) ID() kernel.UUID { return e.id }
func (e *Entry) OrderID() kernel.UUID { return e.orderID }
func (e *Entry) Sequence() int64 { return e.sequence }
func (e *Entry) Action() order.Action { return e.action }
func (e *Entry) State() order.State { return e.state }
func (e *Entry) Notes() string { return e.notes }
func (e *Entry) CreatedBy() string { return e.createdBy }
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

// AssignSequence is called by the repository once the row is written.
func (e *Entry) AssignSequence(seq int64) {
	e.sequence = seq
}
