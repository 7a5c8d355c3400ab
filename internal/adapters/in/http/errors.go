package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"dispatch/internal/pkg/errs"
)

// respondError translates domain errors into HTTP status codes. Unknown
// errors become a generic 500 so internals never leak to clients.
func respondError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, errs.ErrConflict):
		code = http.StatusConflict
		message = err.Error()
	case errors.Is(err, errs.ErrInvalidTransition):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, errs.ErrInvalidState):
		code = http.StatusConflict
		message = err.Error()
	case errors.Is(err, errs.ErrForbidden):
		code = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
		message = err.Error()
	}

	return ctx.JSON(code, errorResponse{Code: code, Message: message})
}
