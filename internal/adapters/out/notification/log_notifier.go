package notification

import (
	"context"
	"log/slog"

	"storefront/internal/core/domain/model/notification"
)

// LogNotifier renders the email and writes it to the log. It stands in for a
// transport in development.
type LogNotifier struct {
	catalogue *Catalogue
	logger    *slog.Logger
}

func NewLogNotifier(catalogue *Catalogue, logger *slog.Logger) *LogNotifier {
	return &LogNotifier{
		catalogue: catalogue,
		logger:    logger.With("component", "log_notifier"),
	}
}

func (n *LogNotifier) Send(ctx context.Context, template string, vars notification.Variables, to notification.Recipient) (bool, error) {
	email, err := n.catalogue.Render(template, vars)
	if err != nil {
		return false, err
	}

	n.logger.InfoContext(ctx, "notification rendered",
		"template", template,
		"order", vars.OrderNumber,
		"to", to.Email,
		"subject", email.Subject,
	)
	return true, nil
}
