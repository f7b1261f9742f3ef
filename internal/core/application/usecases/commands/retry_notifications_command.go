package commands

import (
	"errors"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrRetryNotificationsCommandIsNotConstructed = errors.New(
	"RetryNotificationsCommand must be created via NewRetryNotificationsCommand constructor",
)

// RetryNotificationsCommand re-sends up to BatchSize pending outbox messages.
// Messages reaching MaxAttempts are parked as failed.
type RetryNotificationsCommand struct {
	batchSize   int
	maxAttempts int

	guard guard.ConstructorGuard
}

func NewRetryNotificationsCommand(batchSize, maxAttempts int) (RetryNotificationsCommand, error) {
	var errBatch, errAttempts error
	if batchSize < 1 {
		errBatch = errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}
	if maxAttempts < 1 {
		errAttempts = errs.NewValueIsOutOfRangeError("maxAttempts", maxAttempts, 1, "unbounded")
	}
	if err := errors.Join(errBatch, errAttempts); err != nil {
		return RetryNotificationsCommand{}, err
	}
	return RetryNotificationsCommand{
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RetryNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrRetryNotificationsCommandIsNotConstructed)
}

func (c RetryNotificationsCommand) BatchSize() int { return c.batchSize }

func (c RetryNotificationsCommand) MaxAttempts() int { return c.maxAttempts }
