package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
	"github.com/iliyamo/cinema-ticket-booking/internal/validation"
)

// requestTimeout bounds the store calls of one request.
const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// decode binds the JSON body into req and runs the registered validator.
// On failure it returns the message for the 400 response.
func decode(c echo.Context, req interface{}) (string, bool) {
	if err := c.Bind(req); err != nil {
		return "invalid body", false
	}
	if err := c.Validate(req); err != nil {
		return validation.Reason(err), false
	}
	return "", true
}

// writeError maps domain errors to status codes.  Anything unrecognised is
// a storage or infrastructure fault and is reported as retryable.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	var verr *service.ValidationError
	var taken *service.SeatsTakenError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Reason})
	case errors.As(err, &taken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seats already taken", "seats": taken.Seats})
	case errors.Is(err, repository.ErrUsernameTaken), errors.Is(err, repository.ErrMovieExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, service.ErrAccessDenied):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	case errors.Is(err, service.ErrMovieNotFound),
		errors.Is(err, service.ErrUnknownShowing),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"})
}
