package http

import (
	"errors"
	"log/slog"
	"net/http"

	"collateral-lending/internal/domain/lending"

	"github.com/labstack/echo/v4"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, lending.ErrAccountNotFound), errors.Is(err, lending.ErrLoanNotFound):
		return http.StatusNotFound
	case errors.Is(err, lending.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, lending.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, lending.ErrInvalidPrice):
		return http.StatusServiceUnavailable
	case lending.Code(err) == "internal":
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}

// writeError maps a usecase error onto the response. Ledger errors keep
// their message and code; anything else is logged and hidden.
func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "err", err)
		return c.JSON(status, ErrorResponse{Error: "internal error", Code: "internal"})
	}
	return c.JSON(status, ErrorResponse{Error: err.Error(), Code: lending.Code(err)})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationFailed(c echo.Context, details []FieldError) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: details})
}
