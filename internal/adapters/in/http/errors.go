package http

import (
	"errors"
	"net/http"

	"storefront/internal/core/application/effects"
	"storefront/internal/core/domain/model/inventory"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error kinds returned to callers.
const (
	KindNotFound          = "not_found"
	KindInvalidRequest    = "invalid_request"
	KindConflict          = "conflict"
	KindTerminalState     = "terminal_state"
	KindIllegalTransition = "illegal_transition"
	KindInsufficientStock = "insufficient_stock"
	KindUnavailable       = "collaborator_unavailable"
	KindRateLimited       = "rate_limited"
	KindInternal          = "internal"
)

// classify maps a core error to an HTTP status and error kind.
func classify(err error) (int, string) {
	var terr *order.TransitionError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, KindNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict, KindConflict
	case errors.As(err, &terr):
		if terr.Kind == order.TerminalState {
			return http.StatusUnprocessableEntity, KindTerminalState
		}
		return http.StatusUnprocessableEntity, KindIllegalTransition
	case errors.Is(err, order.ErrIllegalTransition):
		return http.StatusUnprocessableEntity, KindIllegalTransition
	case errors.Is(err, inventory.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, KindInsufficientStock
	case effects.IsUnavailable(err):
		return http.StatusServiceUnavailable, KindUnavailable
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, KindInvalidRequest
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

// writeError renders err as an Error body. Internal errors are logged and
// reported without their cause.
func (s *Server) writeError(c echo.Context, err error) error {
	status, kind := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "Request failed",
			"method", c.Request().Method, "route", c.Path(), "error", err)
		message = http.StatusText(status)
	}
	return c.JSON(status, Error{Code: status, Message: message, Kind: kind})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
		Kind:    KindInvalidRequest,
	})
}

// errorHandler renders echo's own errors (unknown route, wrong method, rate
// limits) in the same body shape as handler errors.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}

	kind := KindInternal
	switch {
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	case status < http.StatusInternalServerError:
		kind = KindInvalidRequest
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, Error{Code: status, Message: message, Kind: kind})
}
