package http

import (
	"collateral-lending/internal/domain/transfer"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health     *Handler
	Accounts   *AccountHandler
	Loans      *LoanHandler
	Repayments *RepaymentHandler
}

// RegisterRoutes mounts the public routes on e and the borrower routes
// under /accounts behind guard (identity, idempotency).
func RegisterRoutes(e *echo.Echo, h Handlers, guard ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)
	e.GET("/tiers", h.Loans.Tiers)
	e.GET("/quote", h.Loans.Quote)

	g := e.Group("/accounts", guard...)
	g.POST("", h.Accounts.OpenAccount)
	g.GET("/:owner_id", h.Accounts.GetAccount)
	g.GET("/:owner_id/transfers", h.Accounts.ListTransfers)
	g.POST("/:owner_id/collateral/deposit", h.Accounts.Deposit(transfer.AssetCollateral))
	g.POST("/:owner_id/collateral/withdraw", h.Accounts.Withdraw(transfer.AssetCollateral))
	g.POST("/:owner_id/stable/deposit", h.Accounts.Deposit(transfer.AssetStable))
	g.POST("/:owner_id/stable/withdraw", h.Accounts.Withdraw(transfer.AssetStable))

	g.POST("/:owner_id/loans", h.Loans.Borrow)
	g.GET("/:owner_id/loans", h.Loans.ListLoans)
	g.GET("/:owner_id/loans/:loan_id", h.Loans.GetLoan)
	g.POST("/:owner_id/loans/:loan_id/repayments", h.Repayments.Repay)
}
