package uow

import (
	"context"

	"collateral-lending/internal/domain/account"
	"collateral-lending/internal/domain/loan"
	"collateral-lending/internal/domain/transfer"
)

// Repos are bound to one transaction.
type Repos struct {
	Accounts  account.Repository
	Loans     loan.Repository
	Transfers transfer.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the owner's account row first, then pass it in with its open loans
	WithinAccountTx(ctx context.Context, ownerID string, fn func(r Repos, a *account.BorrowerAccount) error) error
}
