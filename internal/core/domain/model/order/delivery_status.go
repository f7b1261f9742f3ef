package order

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// DeliveryStatus tracks physical fulfilment once an order is packed. DeliveryNone
// stands for "no delivery status" and is the only value allowed while the order
// is Pending, Cancelled or Exchanged.
type DeliveryStatus int

const (
	DeliveryNone DeliveryStatus = iota
	DeliveryAwaitingDispatch
	DeliveryOutForDelivery
	DeliveryDelivered
	DeliveryFailed
)

func getDeliveryStatusStrings() map[DeliveryStatus]string {
	return map[DeliveryStatus]string{
		DeliveryNone:             "",
		DeliveryAwaitingDispatch: "AwaitingDispatch",
		DeliveryOutForDelivery:   "OutForDelivery",
		DeliveryDelivered:        "Delivered",
		DeliveryFailed:           "FailedDelivery",
	}
}

// ParseDeliveryStatus accepts the canonical names; the empty string is DeliveryNone.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	for ds, str := range getDeliveryStatusStrings() {
		if str == s {
			return ds, nil
		}
	}
	return DeliveryNone, errs.NewValueIsInvalidErrorWithCause(
		"deliveryStatus",
		fmt.Errorf("%q is not a valid delivery status", s),
	)
}

func (d DeliveryStatus) Validate() error {
	if _, ok := getDeliveryStatusStrings()[d]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("deliveryStatus", fmt.Errorf("%d is not a valid delivery status", d))
	}
	return nil
}

// String returns the canonical name, or "" for DeliveryNone.
func (d DeliveryStatus) String() string {
	return getDeliveryStatusStrings()[d]
}

// IsSet reports whether d carries a value.
func (d DeliveryStatus) IsSet() bool {
	return d != DeliveryNone
}
