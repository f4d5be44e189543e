package http

import (
	"context"
	"net/http"

	"collateral-lending/internal/adapter/middleware"
	"collateral-lending/internal/domain/transfer"
	"collateral-lending/internal/usecase/account"
	"collateral-lending/internal/usecase/view"

	"github.com/labstack/echo/v4"
)

type AccountHandler struct {
	uc    *account.Usecase
	units view.Units
}

func NewAccountHandler(uc *account.Usecase, units view.Units) *AccountHandler {
	return &AccountHandler{uc: uc, units: units}
}

type movementReq struct {
	Amount string `json:"amount" validate:"required,amount"`
}

// OpenAccount creates the caller's own account.
func (h *AccountHandler) OpenAccount(c echo.Context) error {
	dto, err := h.uc.Open(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AccountHandler) GetAccount(c echo.Context) error {
	owner, ok := ownerParam(c)
	if !ok {
		return badParam(c, "owner_id")
	}
	dto, err := h.uc.Get(c.Request().Context(), middleware.CallerID(c), owner)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) ListTransfers(c echo.Context) error {
	owner, ok := ownerParam(c)
	if !ok {
		return badParam(c, "owner_id")
	}
	out, err := h.uc.Transfers(c.Request().Context(), middleware.CallerID(c), owner)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Deposit and Withdraw return the handler moving asset in or out of the
// owner's free balance.
func (h *AccountHandler) Deposit(asset transfer.Asset) echo.HandlerFunc {
	return h.move(asset, h.uc.Deposit)
}

func (h *AccountHandler) Withdraw(asset transfer.Asset) echo.HandlerFunc {
	return h.move(asset, h.uc.Withdraw)
}

type moveFunc func(ctx context.Context, in account.MoveInput) (*view.AccountDTO, error)

func (h *AccountHandler) move(asset transfer.Asset, apply moveFunc) echo.HandlerFunc {
	decimals := h.units.Stable
	if asset == transfer.AssetCollateral {
		decimals = h.units.Collateral
	}
	return func(c echo.Context) error {
		owner, ok := ownerParam(c)
		if !ok {
			return badParam(c, "owner_id")
		}
		var req movementReq
		if err := c.Bind(&req); err != nil {
			return invalidBody(c)
		}
		if err := c.Validate(&req); err != nil {
			return validationFailed(c, ToFieldErrors(err))
		}
		units, fe := parseAmount("amount", req.Amount, decimals)
		if fe != nil {
			return validationFailed(c, fe)
		}
		dto, err := apply(c.Request().Context(), account.MoveInput{
			Caller:  middleware.CallerID(c),
			OwnerID: owner,
			Asset:   asset,
			Amount:  units,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, dto)
	}
}
