package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was built as a struct
	// literal instead of through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// ShipmentDetails are the optional carrier fields recorded by the Ship action.
type ShipmentDetails struct {
	TrackingNumber string
	Carrier        string
}

// Order is the aggregate root of the lifecycle. It holds the primary status, the
// delivery sub-status and the payment status, and maintains these invariants:
//   - a delivery status is present exactly while the order is Packed, Shipped or Delivered
//   - customer and items are fixed once the order is placed
//   - total is derived from the items and always uses a single currency
//   - version increases by one for each persisted change
type Order struct {
	id             kernel.UUID
	customer       Customer
	items          []LineItem
	total          kernel.Money
	paymentMethod  string
	paymentStatus  PaymentStatus
	status         Status
	delivery       DeliveryStatus
	trackingNumber string
	carrier        string

	// version is the value the next write stores; persistedVersion is the value
	// the store currently holds and is used as the compare-and-set guard.
	version          int64
	persistedVersion int64

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder places a Pending order with unpaid payment status and version 1.
//
// Example:
//
//	price, _ := kernel.NewMoney(decimal.RequireFromString("19.99"), "USD")
//	item, _ := order.NewLineItem("sku-1", "", "Mug", 2, price)
//	customer, _ := order.NewCustomer("cust-42", "Ada", "ada@example.com", "", "1 Main St")
//	o, err := order.NewOrder(kernel.NewUUID(), customer, []order.LineItem{item}, "card", time.Now())
func NewOrder(id kernel.UUID, customer Customer, items []LineItem, paymentMethod string, now time.Time) (*Order, error) {
	o := &Order{
		paymentMethod: strings.TrimSpace(paymentMethod),
		paymentStatus: PaymentPending,
		status:        Pending,
		delivery:      DeliveryNone,
		version:       1,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomer(customer),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot carries persisted state into RestoreOrder.
type Snapshot struct {
	ID             kernel.UUID
	Customer       Customer
	Items          []LineItem
	Total          kernel.Money
	PaymentMethod  string
	PaymentStatus  PaymentStatus
	Status         Status
	Delivery       DeliveryStatus
	TrackingNumber string
	Carrier        string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RestoreOrder rebuilds an order read back from storage. The snapshot is trusted:
// only the lifecycle state is checked so that a corrupt row surfaces early.
func RestoreOrder(s Snapshot) (*Order, error) {
	state := State{Status: s.Status, Delivery: s.Delivery}
	if err := errors.Join(s.ID.Validate(), state.Validate(), s.PaymentStatus.Validate()); err != nil {
		return nil, err
	}

	return &Order{
		id:               s.ID,
		customer:         s.Customer,
		items:            append([]LineItem(nil), s.Items...),
		total:            s.Total,
		paymentMethod:    s.PaymentMethod,
		paymentStatus:    s.PaymentStatus,
		status:           s.Status,
		delivery:         s.Delivery,
		trackingNumber:   s.TrackingNumber,
		carrier:          s.Carrier,
		version:          s.Version,
		persistedVersion: s.Version,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		isConstructed:    true,
	}, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID { return o.id }

func (o *Order) Customer() Customer { return o.customer }

// Items returns a copy of the line items.
func (o *Order) Items() []LineItem {
	return append([]LineItem(nil), o.items...)
}

func (o *Order) Total() kernel.Money { return o.total }

func (o *Order) PaymentMethod() string { return o.paymentMethod }

func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

func (o *Order) Status() Status { return o.status }

func (o *Order) DeliveryStatus() DeliveryStatus { return o.delivery }

func (o *Order) TrackingNumber() string { return o.trackingNumber }

func (o *Order) Carrier() string { return o.carrier }

func (o *Order) Version() int64 { return o.version }

// PersistedVersion is the version the store holds for this order.
func (o *Order) PersistedVersion() int64 { return o.persistedVersion }

func (o *Order) CreatedAt() time.Time { return o.createdAt }

func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// State returns the (status, delivery status) pair fed to the transition validator.
func (o *Order) State() State {
	return State{Status: o.status, Delivery: o.delivery}
}

// IsNew reports whether the order has never been written.
func (o *Order) IsNew() bool {
	return o.persistedVersion == 0
}

// IsDirty reports whether there are changes not yet written.
func (o *Order) IsDirty() bool {
	return o.version != o.persistedVersion
}

// ExpectVersion fails with a VersionIsInvalidError when the caller's view of the
// order is stale.
func (o *Order) ExpectVersion(expected int64) error {
	if expected != o.version {
		return errs.NewVersionIsInvalidErrorWithCause(
			"version",
			fmt.Errorf("expected %d, current is %d", expected, o.version),
		)
	}
	return nil
}

// Apply validates action against the current state and, when legal, moves the
// order to the target state. Ship records the optional shipment details. The
// returned Transition lists the effects the caller must run; the order itself
// performs none of them.
func (o *Order) Apply(action Action, shipment ShipmentDetails, now time.Time) (Transition, error) {
	if err := o.Validate(); err != nil {
		return Transition{}, err
	}

	t, err := Attempt(o.State(), action)
	if err != nil {
		return Transition{}, err
	}

	o.status = t.To.Status
	o.delivery = t.To.Delivery
	if action == ActionShip {
		o.trackingNumber = strings.TrimSpace(shipment.TrackingNumber)
		o.carrier = strings.TrimSpace(shipment.Carrier)
	}
	o.touch(now)

	return t, nil
}

// UpdatePaymentStatus moves the payment dimension. It is independent of the
// lifecycle status.
func (o *Order) UpdatePaymentStatus(target PaymentStatus, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	next, err := o.paymentStatus.TransitionTo(target)
	if err != nil {
		return err
	}

	o.paymentStatus = next
	o.touch(now)
	return nil
}

// AllocateItem records the warehouse location the i-th item is taken from.
// Re-allocating to the same location is a no-op; moving an allocated item is not
// allowed.
func (o *Order) AllocateItem(i int, locationID string) error {
	if i < 0 || i >= len(o.items) {
		return errs.NewValueIsOutOfRangeError("item", i, 0, len(o.items)-1)
	}
	locationID = strings.TrimSpace(locationID)
	if locationID == "" {
		return errs.NewValueIsRequiredError("locationId")
	}

	item := o.items[i]
	if item.locationID == locationID {
		return nil
	}
	if item.IsAllocated() {
		return errs.NewValueIsInvalidErrorWithCause(
			"locationId",
			fmt.Errorf("item %s is already allocated to %s", item.productID, item.locationID),
		)
	}

	item.locationID = locationID
	o.items[i] = item
	return nil
}

// MarkPersisted is called by repositories once the current version is stored.
func (o *Order) MarkPersisted() {
	o.persistedVersion = o.version
}

// touch bumps the version at most once between two writes.
func (o *Order) touch(now time.Time) {
	if o.version == o.persistedVersion {
		o.version++
	}
	o.updatedAt = now.UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(c Customer) error {
	if c.id == "" {
		return errs.NewValueIsRequiredError("customer")
	}
	o.customer = c
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	total, err := kernel.ZeroMoney(items[0].unitPrice.Currency())
	if err != nil {
		return err
	}
	for _, item := range items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return err
		}
		if total, err = total.Add(subtotal); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("items", err)
		}
	}

	o.items = append([]LineItem(nil), items...)
	o.total = total
	return nil
}
