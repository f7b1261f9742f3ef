package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"storefront/internal/core/ports"
)

// RetryReport summarises one retry pass.
type RetryReport struct {
	Sent   int
	Failed int
}

// RetryNotificationsCommandHandler drains the notification outbox. It never
// reads or writes order state.
type RetryNotificationsCommandHandler struct {
	outbox   ports.NotificationOutbox
	notifier ports.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewRetryNotificationsCommandHandler(
	outbox ports.NotificationOutbox,
	notifier ports.Notifier,
	logger *slog.Logger,
) RetryNotificationsCommandHandler {
	return RetryNotificationsCommandHandler{
		outbox:   outbox,
		notifier: notifier,
		logger:   logger.With("component", "notification_retry"),
		now:      time.Now,
	}
}

func (h *RetryNotificationsCommandHandler) Handle(ctx context.Context, cmd RetryNotificationsCommand) (RetryReport, error) {
	if err := cmd.Validate(); err != nil {
		return RetryReport{}, err
	}

	pending, err := h.outbox.ListPending(ctx, cmd.MaxAttempts(), cmd.BatchSize())
	if err != nil {
		return RetryReport{}, err
	}

	var report RetryReport
	for _, msg := range pending {
		sent, sendErr := h.notifier.Send(ctx, msg.Template(), msg.Variables(), msg.Recipient())
		if sendErr == nil && !sent {
			sendErr = errors.New("notifier did not accept the message")
		}

		if sendErr != nil {
			msg.MarkAttemptFailed(sendErr, cmd.MaxAttempts(), h.now())
			report.Failed++
			h.logger.WarnContext(ctx, "Notification retry failed",
				"message_id", msg.ID().String(), "attempts", msg.Attempts(), "error", sendErr)
		} else {
			msg.MarkSent(h.now())
			report.Sent++
		}

		if err = h.outbox.Save(ctx, msg); err != nil {
			return report, err
		}
	}

	return report, nil
}
