package notification

import (
	"errors"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

// Recipient is who a notification goes to.
type Recipient struct {
	Name  string
	Email string
}

// ItemLine is a line item as rendered in templates.
type ItemLine struct {
	Name     string
	Quantity int
	Subtotal string
}

// Variables are the values a template may reference.
type Variables struct {
	CustomerName   string
	OrderNumber    string
	Items          []ItemLine
	Total          string
	Status         string
	TrackingNumber string
	Carrier        string
}

// VariablesFor builds the template variables from the order's current state.
func VariablesFor(o *order.Order) Variables {
	items := o.Items()
	lines := make([]ItemLine, 0, len(items))
	for _, item := range items {
		line := ItemLine{Name: item.Name(), Quantity: item.Quantity()}
		if subtotal, err := item.Subtotal(); err == nil {
			line.Subtotal = subtotal.String()
		}
		lines = append(lines, line)
	}

	return Variables{
		CustomerName:   o.Customer().Name(),
		OrderNumber:    o.ID().String(),
		Items:          lines,
		Total:          o.Total().String(),
		Status:         o.Status().String(),
		TrackingNumber: o.TrackingNumber(),
		Carrier:        o.Carrier(),
	}
}

// RecipientFor returns the order's customer snapshot as a recipient.
func RecipientFor(o *order.Order) Recipient {
	return Recipient{Name: o.Customer().Name(), Email: o.Customer().Email()}
}

// Status of an outbox message.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

var ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage constructor")

// Message is a notification waiting in the outbox for another delivery attempt.
type Message struct {
	id        kernel.UUID
	orderID   kernel.UUID
	template  string
	recipient Recipient
	variables Variables
	status    Status
	attempts  int
	lastError string
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewMessage queues a send that failed once with cause.
func NewMessage(orderID kernel.UUID, template string, vars Variables, to Recipient, cause error, now time.Time) (*Message, error) {
	var errTemplate error
	if strings.TrimSpace(template) == "" {
		errTemplate = errs.NewValueIsRequiredError("template")
	}
	if err := errors.Join(orderID.Validate(), errTemplate); err != nil {
		return nil, err
	}

	m := &Message{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		template:      template,
		recipient:     to,
		variables:     vars,
		status:        StatusPending,
		attempts:      1,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}
	if cause != nil {
		m.lastError = cause.Error()
	}
	return m, nil
}

// RestoreMessage rebuilds a message read back from the outbox.
func RestoreMessage(
	id, orderID kernel.UUID,
	template string,
	to Recipient,
	vars Variables,
	status Status,
	attempts int,
	lastError string,
	createdAt, updatedAt time.Time,
) *Message {
	return &Message{
		id:            id,
		orderID:       orderID,
		template:      template,
		recipient:     to,
		variables:     vars,
		status:        status,
		attempts:      attempts,
		lastError:     lastError,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}
}

func (m *Message) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

func (m *Message) ID() kernel.UUID { return m.id }

func (m *Message) OrderID() kernel.UUID { return m.orderID }

func (m *Message) Template() string { return m.template }

func (m *Message) Recipient() Recipient { return m.recipient }

func (m *Message) Variables() Variables { return m.variables }

func (m *Message) Status() Status { return m.status }

func (m *Message) Attempts() int { return m.attempts }

func (m *Message) LastError() string { return m.lastError }

func (m *Message) CreatedAt() time.Time { return m.createdAt }

func (m *Message) UpdatedAt() time.Time { return m.updatedAt }

// MarkSent records a successful delivery.
func (m *Message) MarkSent(now time.Time) {
	m.attempts++
	m.status = StatusSent
	m.lastError = ""
	m.updatedAt = now.UTC()
}

// MarkAttemptFailed records a failed retry. Once maxAttempts is reached the
// message is parked as failed and no longer retried.
func (m *Message) MarkAttemptFailed(cause error, maxAttempts int, now time.Time) {
	m.attempts++
	if cause != nil {
		m.lastError = cause.Error()
	}
	if m.attempts >= maxAttempts {
		m.status = StatusFailed
	}
	m.updatedAt = now.UTC()
}
