// Package effects executes the side effects a validated transition asks for:
// inventory adjustment and the history append inside the order's transaction,
// and customer notification plus event publication after it commits.
package effects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"storefront/internal/core/domain/model/history"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/notification"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// DefaultTimeout bounds each collaborator call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Tx is the part of a unit of work the in-transaction effects need.
type Tx interface {
	InventoryRepository() ports.InventoryRepository
	HistoryRepository() ports.HistoryRepository
}

// Metrics receives notification outcomes.
type Metrics interface {
	ObserveNotification(template, outcome string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveNotification(string, string) {}

// Dispatcher runs transition side effects.
//
// In-transaction effects (Prepare, Apply) fail the whole transition. After-commit
// effects (AfterCommit) never fail it: they are reported back as warnings, and
// failed notifications are parked in the outbox for the retry job.
type Dispatcher struct {
	allocator services.StockAllocator
	notifier  ports.Notifier
	outbox    ports.NotificationOutbox
	publisher ports.OrderEventPublisher
	metrics   Metrics
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

func WithTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithClock replaces time.Now; used by tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func NewDispatcher(
	notifier ports.Notifier,
	outbox ports.NotificationOutbox,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		allocator: services.NewStockAllocator(),
		notifier:  notifier,
		outbox:    outbox,
		publisher: publisher,
		metrics:   noopMetrics{},
		timeout:   DefaultTimeout,
		logger:    logger.With("component", "effects_dispatcher"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Prepare allocates stock locations for a transition that decrements inventory.
// It only reads stock; nothing is reserved until Apply.
func (d *Dispatcher) Prepare(ctx context.Context, tx Tx, o *order.Order, t order.Transition) error {
	if !t.Has(order.EffectDecrementInventory) {
		return nil
	}

	var productIDs []string
	for _, item := range o.Items() {
		if !item.IsAllocated() && !slices.Contains(productIDs, item.ProductID()) {
			productIDs = append(productIDs, item.ProductID())
		}
	}
	if len(productIDs) == 0 {
		return nil
	}

	var levels []inventory.StockLevel
	err := d.call(ctx, func(ctx context.Context) error {
		var err error
		levels, err = tx.InventoryRepository().GetStock(ctx, productIDs...)
		return err
	})
	if err != nil {
		return newEffectError(KindInventory, err)
	}

	if err = d.allocator.Allocate(o, levels); err != nil {
		return newEffectError(KindInventory, err)
	}
	return nil
}

// Apply runs the in-transaction effects of t: one inventory movement per
// product and location of o, then one history entry for the state o reached.
// Movements already recorded for the order are skipped.
func (d *Dispatcher) Apply(ctx context.Context, tx Tx, o *order.Order, t order.Transition, notes, actor string) error {
	direction := inventory.DirectionUnknown
	switch {
	case t.Has(order.EffectDecrementInventory):
		direction = inventory.Decrement
	case t.Has(order.EffectReleaseInventory):
		direction = inventory.Increment
	}

	if direction != inventory.DirectionUnknown {
		if err := d.moveStock(ctx, tx, o, direction); err != nil {
			return err
		}
	}

	return d.AppendHistory(ctx, tx, o, t.Action, notes, actor)
}

// AppendHistory records that action moved o to its current state.
func (d *Dispatcher) AppendHistory(ctx context.Context, tx Tx, o *order.Order, action order.Action, notes, actor string) error {
	if actor == "" {
		actor = history.DefaultActor
	}

	entry, err := history.NewEntry(o.ID(), action, o.State(), notes, actor, d.now())
	if err != nil {
		return newEffectError(KindHistory, err)
	}

	err = d.call(ctx, func(ctx context.Context) error {
		return tx.HistoryRepository().Append(ctx, entry)
	})
	if err != nil {
		return newEffectError(KindHistory, err)
	}
	return nil
}

func (d *Dispatcher) moveStock(ctx context.Context, tx Tx, o *order.Order, direction inventory.Direction) error {
	movements, err := inventory.MovementsFor(o, direction)
	if err != nil {
		return newEffectError(KindInventory, err)
	}

	for _, m := range movements {
		var applied bool
		err = d.call(ctx, func(ctx context.Context) error {
			var err error
			applied, err = tx.InventoryRepository().ApplyMovement(ctx, m)
			return err
		})
		if err != nil {
			return newEffectError(KindInventory, fmt.Errorf("%s %s at %s: %w", direction, m.ProductID, m.LocationID, err))
		}
		if !applied {
			d.logger.InfoContext(ctx, "Inventory movement already applied",
				"order_id", o.ID().String(), "product_id", m.ProductID, "direction", direction.String())
		}
	}
	return nil
}

// AfterCommit sends the transition's notification and publishes the status
// change. It returns one warning per failed effect.
func (d *Dispatcher) AfterCommit(ctx context.Context, o *order.Order, t order.Transition) []string {
	var warnings []string

	if t.Has(order.EffectNotify) {
		if w := d.notify(ctx, o, t.Template); w != "" {
			warnings = append(warnings, w)
		}
	}

	if d.publisher != nil {
		event := order.NewStatusChanged(o, t)
		err := d.call(ctx, func(ctx context.Context) error {
			return d.publisher.Publish(ctx, event)
		})
		if err != nil {
			d.logger.WarnContext(ctx, "Failed to publish order status change",
				"order_id", o.ID().String(), "error", err)
			warnings = append(warnings, newEffectError(KindEvents, err).Error())
		}
	}

	return warnings
}

func (d *Dispatcher) notify(ctx context.Context, o *order.Order, template string) string {
	vars := notification.VariablesFor(o)
	to := notification.RecipientFor(o)

	var sent bool
	err := d.call(ctx, func(ctx context.Context) error {
		var err error
		sent, err = d.notifier.Send(ctx, template, vars, to)
		return err
	})
	if err == nil && !sent {
		err = errors.New("notifier did not accept the message")
	}
	if err == nil {
		d.metrics.ObserveNotification(template, "sent")
		return ""
	}

	d.metrics.ObserveNotification(template, "failed")
	d.logger.WarnContext(ctx, "Notification failed",
		"order_id", o.ID().String(), "template", template, "error", err)

	warning := newEffectError(KindNotification, fmt.Errorf("%s: %w", template, err)).Error()

	msg, qerr := notification.NewMessage(o.ID(), template, vars, to, err, d.now())
	if qerr == nil {
		qerr = d.call(ctx, func(ctx context.Context) error {
			return d.outbox.Enqueue(ctx, msg)
		})
	}
	if qerr != nil {
		d.logger.ErrorContext(ctx, "Failed to queue notification for retry",
			"order_id", o.ID().String(), "template", template, "error", qerr)
		return warning
	}
	return warning + " (queued for retry)"
}

// call bounds fn by the effect timeout.
func (d *Dispatcher) call(ctx context.Context, fn func(context.Context) error) error {
	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := fn(cctx)
	if err != nil && errors.Is(cctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrCollaboratorTimeout) {
		return fmt.Errorf("%w after %s: %w", ErrCollaboratorTimeout, d.timeout, err)
	}
	return err
}
