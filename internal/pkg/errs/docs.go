// Package errs provides the typed errors shared by the order lifecycle service.
//
// Every error type pairs a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ...)
// with a struct carrying the details, and unwraps to the sentinel so callers can
// classify failures with errors.Is while still formatting a precise message:
//   - ObjectNotFoundError: an order, product or outbox entry does not exist
//   - ValueIsInvalidError / ValueIsRequiredError / ValueIsOutOfRangeError: input
//     rejected by a constructor or command
//   - VersionIsInvalidError: an optimistic-concurrency check failed and the caller
//     must re-fetch before retrying
package errs
