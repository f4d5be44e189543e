package http

import (
	"net/http"
	"strconv"

	"collateral-lending/pkg/amount"
	"collateral-lending/pkg/id"

	"github.com/labstack/echo/v4"
)

func ownerParam(c echo.Context) (string, bool) {
	owner := c.Param("owner_id")
	return owner, id.IsID32(owner)
}

func loanParam(c echo.Context) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param("loan_id"), 10, 64)
	return n, err == nil && n > 0
}

func badParam(c echo.Context, name string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name + " path param"})
}

// parseAmount converts a validated decimal string into base units of an
// asset with the given decimals. Too many decimal places or an out of range
// value is reported against field.
func parseAmount(field, raw string, decimals uint8) (uint64, []FieldError) {
	v, err := amount.Parse(raw, decimals)
	if err != nil {
		return 0, []FieldError{{Field: field, Message: err.Error()}}
	}
	return v, nil
}
