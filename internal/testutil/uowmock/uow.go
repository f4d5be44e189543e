package uowmock

import (
	"context"
	"errors"

	"collateral-lending/internal/domain/account"
	"collateral-lending/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinAccountTxFn func(ctx context.Context, ownerID string, fn func(r uow.Repos, a *account.BorrowerAccount) error) error
}

func New() *UoW { return &UoW{} }

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}

func (m *UoW) WithWithinAccountTx(fn func(context.Context, string, func(uow.Repos, *account.BorrowerAccount) error) error) *UoW {
	m.WithinAccountTxFn = fn
	return m
}

func (m *UoW) Reset() { *m = UoW{} }

// Over runs every transaction against repos. WithinAccountTx loads the
// account through repos.Accounts.GetByOwnerIDForUpdate like the real one.
func Over(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinAccountTxFn: func(ctx context.Context, ownerID string, fn func(uow.Repos, *account.BorrowerAccount) error) error {
			a, err := repos.Accounts.GetByOwnerIDForUpdate(ctx, ownerID)
			if err != nil {
				return err
			}
			return fn(repos, a)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinAccountTx(ctx context.Context, ownerID string, fn func(r uow.Repos, a *account.BorrowerAccount) error) error {
	if m.WithinAccountTxFn != nil {
		return m.WithinAccountTxFn(ctx, ownerID, fn)
	}
	return errUnimplemented
}
