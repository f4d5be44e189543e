package http

import (
	"net/http"

	"collateral-lending/internal/adapter/middleware"
	"collateral-lending/internal/usecase/repayment"
	"collateral-lending/internal/usecase/view"

	"github.com/labstack/echo/v4"
)

type RepaymentHandler struct {
	uc    *repayment.Usecase
	units view.Units
}

func NewRepaymentHandler(uc *repayment.Usecase, units view.Units) *RepaymentHandler {
	return &RepaymentHandler{uc: uc, units: units}
}

type repayReq struct {
	Amount string `json:"amount" validate:"required,amount"`
}

// Repay settles part or all of a loan from the owner's stable balance.
// "0" is accepted and changes nothing.
func (h *RepaymentHandler) Repay(c echo.Context) error {
	owner, ok := ownerParam(c)
	if !ok {
		return badParam(c, "owner_id")
	}
	loanID, ok := loanParam(c)
	if !ok {
		return badParam(c, "loan_id")
	}
	var req repayReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, ToFieldErrors(err))
	}
	amt, fe := parseAmount("amount", req.Amount, h.units.Stable)
	if fe != nil {
		return validationFailed(c, fe)
	}

	dto, err := h.uc.Repay(c.Request().Context(), repayment.RepayInput{
		Caller:  middleware.CallerID(c),
		OwnerID: owner,
		LoanID:  loanID,
		Amount:  amt,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
