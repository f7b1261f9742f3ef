package order

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
)

// Customer is the snapshot of the buyer taken when the order is placed.
// Later profile edits do not reach existing orders.
type Customer struct {
	id      string
	name    string
	email   string
	phone   string
	address string
}

func NewCustomer(id, name, email, phone, address string) (Customer, error) {
	c := Customer{
		id:      strings.TrimSpace(id),
		name:    strings.TrimSpace(name),
		email:   strings.TrimSpace(email),
		phone:   strings.TrimSpace(phone),
		address: strings.TrimSpace(address),
	}

	var errID, errName, errEmail error
	if c.id == "" {
		errID = errs.NewValueIsRequiredError("customerId")
	}
	if c.name == "" {
		errName = errs.NewValueIsRequiredError("customerName")
	}
	if c.email != "" && !strings.Contains(c.email, "@") {
		errEmail = errs.NewValueIsInvalidErrorWithCause("customerEmail", fmt.Errorf("%q is not an email address", c.email))
	}
	if err := errors.Join(errID, errName, errEmail); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (c Customer) ID() string { return c.id }
func (c Customer) Name() string { return c.name }
func (c Customer) Email() string { return c.email }
func (c Customer) Phone() string { return c.phone }
func (c Customer) Address() string { return c.address }
