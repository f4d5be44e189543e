package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "collateral-lending/internal/domain/loan"
)

func TestRepo_UsesProvidedFuncs(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{LoanID: 1}
	wantErr := errors.New("boom")

	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Loan) error {
			if gotCtx != ctx || got != l {
				t.Fatalf("Create args not forwarded")
			}
			return wantErr
		},
		CloseFn: func(_ context.Context, got *domain.Loan) error { return wantErr },
		GetByLoanIDFn: func(_ context.Context, accountID, loanID uint64) (*domain.Loan, error) {
			if accountID != 9 || loanID != 1 {
				t.Fatalf("GetByLoanID args = %d/%d", accountID, loanID)
			}
			return l, nil
		},
	}
	if err := m.Create(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if err := m.Close(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Close: want %v, got %v", wantErr, err)
	}
	got, err := m.GetByLoanID(ctx, 9, 1)
	if err != nil || got != l {
		t.Fatalf("GetByLoanID: got %+v, %v", got, err)
	}
}

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	if err := m.Create(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
	if err := m.Save(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Save default: want nil, got %v", err)
	}
	if err := m.Close(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Close default: want nil, got %v", err)
	}
	if _, err := m.GetByLoanID(ctx, 1, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByLoanID default: want context.Canceled, got %v", err)
	}
	if _, err := m.ListOpenByAccountID(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("ListOpenByAccountID default: want context.Canceled, got %v", err)
	}
}
