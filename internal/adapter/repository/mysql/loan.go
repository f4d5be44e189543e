package mysql

import (
	"context"

	loanDomain "collateral-lending/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) Close(ctx context.Context, l *loanDomain.Loan) error {
	l.State = loanDomain.StateClosed
	db := r.db.WithContext(ctx)
	if err := db.Save(l).Error; err != nil {
		return err
	}
	return db.Delete(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, accountID, loanID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND loan_id = ?", accountID, loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListOpenByAccountID(ctx context.Context, accountID uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND state = ?", accountID, loanDomain.StateOpen).
		Order("loan_id ASC").
		Find(&out)
	return out, res.Error
}

// CountOpen counts open loans across all accounts; it seeds the open loans
// gauge at startup.
func (r *LoanRepository) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("state = ?", loanDomain.StateOpen).
		Count(&n)
	return n, res.Error
}
