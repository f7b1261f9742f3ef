package ports

import (
	"context"

	"storefront/internal/core/domain/model/notification"
)

// Notifier sends a rendered template to a customer. sent=false with a nil error
// means nothing was sent, for example because the recipient has no email
// address.
type Notifier interface {
	Send(ctx context.Context, template string, vars notification.Variables, to notification.Recipient) (sent bool, err error)
}

// NotificationOutbox stores notifications that failed after a transition so the
// retry job can send them later.
type NotificationOutbox interface {
	// Enqueue stores a pending message.
	Enqueue(ctx context.Context, msg *notification.Message) error

	// ListPending returns up to limit pending messages with fewer than
	// maxAttempts attempts, oldest first.
	ListPending(ctx context.Context, maxAttempts, limit int) ([]*notification.Message, error)

	// Save writes the attempt count, status and last error of msg.
	Save(ctx context.Context, msg *notification.Message) error

	// CountPending counts messages still waiting to be sent.
	CountPending(ctx context.Context, maxAttempts int) (int64, error)
}
