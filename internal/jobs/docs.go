// Package jobs provides scheduled background tasks for the storefront.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. NotificationRetryJob - re-sends customer notifications that failed after a
// transition and were parked in the outbox, until they are sent or run out of
// attempts
//
// # Usage
//
// Jobs are managed through JobManager:
//
//	retry := jobs.NewNotificationRetryJob(handler, cmd, "0 * * * * *", outbox, metrics, logger)
//	jobManager := jobs.NewJobManager(retry)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six-field cron expressions (seconds first). Runs never overlap:
// a run that is still going when the next one is due makes the next one skip.
//
// # Error Handling
//
// Jobs log failures and carry on at the next tick; a failed start stops the
// jobs already running.
package jobs
