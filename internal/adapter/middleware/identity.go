package middleware

import (
	"net/http"
	"strings"

	"collateral-lending/pkg/id"

	"github.com/labstack/echo/v4"
)

// HeaderBorrowerID carries the caller identity, already authenticated by the
// gateway in front of this service.
const HeaderBorrowerID = "Ax-Borrower-Id"

const callerKey = "caller_id"

// Identity requires a well-formed Ax-Borrower-Id and exposes it through
// CallerID.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := strings.TrimSpace(c.Request().Header.Get(HeaderBorrowerID))
			if caller == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderBorrowerID})
			}
			if !id.IsID32(caller) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderBorrowerID})
			}
			c.Set(callerKey, caller)
			return next(c)
		}
	}
}

// CallerID is the identity Identity stored, or "".
func CallerID(c echo.Context) string {
	s, _ := c.Get(callerKey).(string)
	return s
}
