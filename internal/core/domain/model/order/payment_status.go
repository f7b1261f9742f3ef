package order

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// PaymentStatus moves independently of Status.
//
//	Pending ──> Paid ──> Refunded
//	   │  ▲      ▲
//	   ▼  │      │
//	  Failed ────┘
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentFailed
	PaymentRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown:  "Unknown",
		PaymentPending:  "Pending",
		PaymentPaid:     "Paid",
		PaymentFailed:   "Failed",
		PaymentRefunded: "Refunded",
	}
}

func getPaymentTransitions() map[PaymentStatus][]PaymentStatus {
	return map[PaymentStatus][]PaymentStatus{
		PaymentPending: {PaymentPaid, PaymentFailed},
		PaymentFailed:  {PaymentPaid, PaymentPending},
		PaymentPaid:    {PaymentRefunded},
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for ps, str := range getPaymentStatusStrings() {
		if ps != PaymentUnknown && str == s {
			return ps, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"paymentStatus",
		fmt.Errorf("%q is not a valid payment status", s),
	)
}

func (p PaymentStatus) Validate() error {
	if p <= PaymentUnknown || p > PaymentRefunded {
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "Unknown"
}

// TransitionTo returns target if the move from p is allowed.
func (p PaymentStatus) TransitionTo(target PaymentStatus) (PaymentStatus, error) {
	if err := target.Validate(); err != nil {
		return PaymentUnknown, err
	}
	for _, allowed := range getPaymentTransitions()[p] {
		if allowed == target {
			return target, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"paymentStatus",
		fmt.Errorf("cannot move payment from %s to %s", p, target),
	)
}
