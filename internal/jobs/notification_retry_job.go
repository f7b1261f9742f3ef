package jobs

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultRetrySchedule runs the retry pass at the start of every minute.
const DefaultRetrySchedule = "0 * * * * *"

type retryHandler interface {
	Handle(ctx context.Context, cmd commands.RetryNotificationsCommand) (commands.RetryReport, error)
}

// PendingCounter reports how many notifications still wait in the outbox.
type PendingCounter interface {
	CountPending(ctx context.Context, maxAttempts int) (int64, error)
}

// PendingGauge receives the outbox backlog after each run.
type PendingGauge interface {
	SetOutboxPending(n int64)
}

// NotificationRetryJob re-sends notifications parked in the outbox. It never
// touches order state.
type NotificationRetryJob struct {
	handler  retryHandler
	counter  PendingCounter
	gauge    PendingGauge
	cmd      commands.RetryNotificationsCommand
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewNotificationRetryJob creates the job. counter and gauge may be nil, in
// which case the backlog is not reported.
func NewNotificationRetryJob(
	handler retryHandler,
	cmd commands.RetryNotificationsCommand,
	schedule string,
	counter PendingCounter,
	gauge PendingGauge,
	logger *slog.Logger,
) *NotificationRetryJob {
	if schedule == "" {
		schedule = DefaultRetrySchedule
	}
	return &NotificationRetryJob{
		handler:  handler,
		counter:  counter,
		gauge:    gauge,
		cmd:      cmd,
		schedule: schedule,
		timeout:  30 * time.Second,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "notification_retry_job"),
	}
}

// Start schedules the job. An invalid schedule is reported here.
func (j *NotificationRetryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		j.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification retry job started", "schedule", j.schedule)
	return nil
}

// RunOnce performs a single retry pass and refreshes the backlog gauge.
func (j *NotificationRetryJob) RunOnce(ctx context.Context) {
	report, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification retry failed", "error", err)
	} else if report.Sent > 0 || report.Failed > 0 {
		j.logger.InfoContext(ctx, "Notification retry finished", "sent", report.Sent, "failed", report.Failed)
	}

	if j.counter == nil || j.gauge == nil {
		return
	}
	pending, err := j.counter.CountPending(ctx, j.cmd.MaxAttempts())
	if err != nil {
		j.logger.WarnContext(ctx, "Failed to count pending notifications", "error", err)
		return
	}
	j.gauge.SetOutboxPending(pending)
}

// Stop unschedules the job and waits for a running pass to finish.
func (j *NotificationRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification retry job stopped")
}
