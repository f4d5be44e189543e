package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error

	// Close marks the loan closed and soft-deletes it; the row is kept so
	// its sequence id is never handed out again.
	Close(ctx context.Context, l *Loan) error

	GetByLoanID(ctx context.Context, accountID, loanID uint64) (*Loan, error)
	ListOpenByAccountID(ctx context.Context, accountID uint64) ([]Loan, error)
}
