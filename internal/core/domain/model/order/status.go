package order

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// Status is the primary lifecycle stage of an order.
//
// State transitions (see transition.go for the full table):
//
//	Pending ──> Packed ──> Shipped ──> Delivered ──> Exchanged
//	   │          │
//	   └──────────┴──> Cancelled
//
// Cancelled and Exchanged are terminal.
type Status int

const (
	// StatusUnknown catches uninitialised values; it is never valid.
	StatusUnknown Status = iota
	Pending
	Packed
	Shipped
	Delivered
	Cancelled
	Exchanged
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		Pending:       "Pending",
		Packed:        "Packed",
		Shipped:       "Shipped",
		Delivered:     "Delivered",
		Cancelled:     "Cancelled",
		Exchanged:     "Exchanged",
	}
}

// AllStatuses lists the valid statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Packed, Shipped, Delivered, Cancelled, Exchanged}
}

// ParseStatus maps the canonical name ("Pending", "Packed", ...) back to a Status.
func ParseStatus(s string) (Status, error) {
	for _, status := range AllStatuses() {
		if status.String() == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects StatusUnknown and out-of-range values read from storage.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > Exchanged {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == Cancelled || s == Exchanged
}

// TracksDelivery reports whether a delivery status is meaningful in this stage.
func (s Status) TracksDelivery() bool {
	return s == Packed || s == Shipped || s == Delivered
}
