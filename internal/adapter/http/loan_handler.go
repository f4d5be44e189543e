package http

import (
	"net/http"
	"strconv"

	"collateral-lending/internal/adapter/middleware"
	"collateral-lending/internal/usecase/loan"
	"collateral-lending/internal/usecase/view"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	uc    *loan.Usecase
	units view.Units
}

func NewLoanHandler(uc *loan.Usecase, units view.Units) *LoanHandler {
	return &LoanHandler{uc: uc, units: units}
}

type borrowReq struct {
	Principal  string  `json:"principal"  validate:"required,amount"`
	RateBps    *uint16 `json:"rate_bps"   validate:"required,lte=10000"`
	Collateral string  `json:"collateral" validate:"required,amount"`
}

func (h *LoanHandler) Borrow(c echo.Context) error {
	owner, ok := ownerParam(c)
	if !ok {
		return badParam(c, "owner_id")
	}
	var req borrowReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, ToFieldErrors(err))
	}
	principal, fe := parseAmount("principal", req.Principal, h.units.Stable)
	if fe != nil {
		return validationFailed(c, fe)
	}
	collateral, fe := parseAmount("collateral", req.Collateral, h.units.Collateral)
	if fe != nil {
		return validationFailed(c, fe)
	}

	dto, err := h.uc.Borrow(c.Request().Context(), loan.BorrowInput{
		Caller:     middleware.CallerID(c),
		OwnerID:    owner,
		Principal:  principal,
		RateBps:    *req.RateBps,
		Collateral: collateral,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	owner, ok := ownerParam(c)
	if !ok {
		return badParam(c, "owner_id")
	}
	loanID, ok := loanParam(c)
	if !ok {
		return badParam(c, "loan_id")
	}
	dto, err := h.uc.Get(c.Request().Context(), middleware.CallerID(c), owner, loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	owner, ok := ownerParam(c)
	if !ok {
		return badParam(c, "owner_id")
	}
	out, err := h.uc.List(c.Request().Context(), middleware.CallerID(c), owner)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Tiers(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Tiers())
}

// Quote answers GET /quote?principal=1500.5&rate_bps=250.
func (h *LoanHandler) Quote(c echo.Context) error {
	var details []FieldError
	rate, err := strconv.ParseUint(c.QueryParam("rate_bps"), 10, 16)
	if err != nil {
		details = append(details, FieldError{Field: "rate_bps", Message: "must be an integer in basis points"})
	}
	principal, fe := parseAmount("principal", c.QueryParam("principal"), h.units.Stable)
	details = append(details, fe...)
	if len(details) > 0 {
		return validationFailed(c, details)
	}

	dto, err := h.uc.Quote(c.Request().Context(), principal, uint16(rate))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
