package loanmock

import (
	"context"

	domain "collateral-lending/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to success, reads to context.Canceled.
type Repo struct {
	CreateFn              func(ctx context.Context, l *domain.Loan) error
	SaveFn                func(ctx context.Context, l *domain.Loan) error
	CloseFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn         func(ctx context.Context, accountID, loanID uint64) (*domain.Loan, error)
	ListOpenByAccountIDFn func(ctx context.Context, accountID uint64) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) Close(ctx context.Context, l *domain.Loan) error {
	if m.CloseFn != nil {
		return m.CloseFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, accountID, loanID uint64) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, accountID, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListOpenByAccountID(ctx context.Context, accountID uint64) ([]domain.Loan, error) {
	if m.ListOpenByAccountIDFn != nil {
		return m.ListOpenByAccountIDFn(ctx, accountID)
	}
	return nil, context.Canceled
}
