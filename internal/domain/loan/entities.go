package loan

import (
	"time"

	"gorm.io/gorm"
)

type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Loan is one borrowing position of a borrower account. LoanID is the
// per-account sequence number; ID is the storage key. UnpaidInterest is
// interest accrued before AccruedFrom that a partial repayment did not cover.
type Loan struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"-"`
	AccountID      uint64         `gorm:"column:account_id;not null;uniqueIndex:ux_loans_account_seq" json:"-"`
	LoanID         uint64         `gorm:"column:loan_id;not null;uniqueIndex:ux_loans_account_seq" json:"loan_id"`
	BorrowerID     string         `gorm:"column:borrower_id;size:32;not null;index:idx_loans_borrower" json:"borrower_id"`
	Principal      uint64         `gorm:"column:principal;not null" json:"principal"`
	RateBps        uint16         `gorm:"column:rate_bps;not null" json:"rate_bps"`
	Collateral     uint64         `gorm:"column:collateral;not null" json:"collateral"`
	AccruedFrom    time.Time      `gorm:"column:accrued_from;not null" json:"accrued_from"`
	UnpaidInterest uint64         `gorm:"column:unpaid_interest;not null;default:0" json:"unpaid_interest"`
	State          State          `gorm:"column:state;size:16;not null;default:open" json:"state"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

func (l *Loan) IsOpen() bool { return l.State == StateOpen }
