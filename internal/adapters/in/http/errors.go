package http

import (
	"errors"
	"net/http"

	"partnerdelivery/internal/core/application/auth"
	"partnerdelivery/internal/core/application/feed"
	"partnerdelivery/internal/core/application/lifecycle"
	"partnerdelivery/internal/core/application/usecases/commands"
	"partnerdelivery/internal/core/application/usecases/queries"
	"partnerdelivery/internal/core/domain/model/order"
	"partnerdelivery/internal/core/domain/model/partner"
	"partnerdelivery/internal/core/ports"
	"partnerdelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps application errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ports.ErrInvalidSession),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrNotAPartner),
		errors.Is(err, partner.ErrPartnerCannotOperate),
		errors.Is(err, order.ErrOrderOwnedByAnotherPartner):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, partner.ErrSavedLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrOrderUnavailable),
		errors.Is(err, order.ErrOrderAlreadyCompleted),
		errors.Is(err, order.ErrOrderIsTerminal),
		errors.Is(err, order.ErrOrderCannotBeReopened),
		errors.Is(err, order.ErrOrderCannotBeCancelled),
		errors.Is(err, lifecycle.ErrActiveOrderCapReached),
		errors.Is(err, order.ErrOrderNotClaimed),
		errors.Is(err, partner.ErrSavedLocationExists),
		errors.Is(err, ports.ErrEmailTaken),
		errors.Is(err, ports.ErrTransactionConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, commands.ErrPickupIsRequired),
		errors.Is(err, commands.ErrDropIsRequired),
		errors.Is(err, queries.ErrOrderHasNoCoordinates),
		errors.Is(err, feed.ErrUnknownView):
		return http.StatusUnprocessableEntity
	case errors.Is(err, queries.ErrRoutingUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		message = http.StatusText(code)
	} else {
		message = lifecycle.Describe(err)
	}
	return c.JSON(code, Error{Code: code, Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
