package account

import (
	"time"

	"collateral-lending/internal/domain/loan"
)

// BorrowerAccount is the per-owner ledger record: free balances held by the
// ledger, the loan sequence counter and the open loans in creation order.
type BorrowerAccount struct {
	ID                uint64      `gorm:"primaryKey;column:id" json:"-"`
	OwnerID           string      `gorm:"column:owner_id;size:32;not null;uniqueIndex:ux_accounts_owner" json:"owner_id"`
	CollateralBalance uint64      `gorm:"column:collateral_balance;not null;default:0" json:"collateral_balance"`
	StableBalance     uint64      `gorm:"column:stable_balance;not null;default:0" json:"stable_balance"`
	LoanSeq           uint64      `gorm:"column:loan_seq;not null;default:0" json:"loan_seq"`
	Loans             []loan.Loan `gorm:"foreignKey:AccountID" json:"loans"`
	CreatedAt         time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BorrowerAccount) TableName() string { return "accounts" }

// FindLoan returns the open loan with the given sequence id, or nil.
func (a *BorrowerAccount) FindLoan(loanID uint64) *loan.Loan {
	for i := range a.Loans {
		if a.Loans[i].LoanID == loanID {
			return &a.Loans[i]
		}
	}
	return nil
}
