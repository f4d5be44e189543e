package transfer

import "time"

type Asset string

const (
	AssetCollateral Asset = "collateral"
	AssetStable     Asset = "stable"
)

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

type Reason string

const (
	ReasonDeposit    Reason = "deposit"
	ReasonWithdrawal Reason = "withdrawal"
	ReasonPledge     Reason = "pledge"
	ReasonDisbursal  Reason = "disbursal"
	ReasonRepayment  Reason = "repayment"
	ReasonRelease    Reason = "release"
)

// Transfer is a journal row for one balance movement, written in the same
// transaction as the ledger mutation. Deposits and withdrawals are the
// movements the custody service must execute; the rest are internal and
// carry the LoanID that caused them.
type Transfer struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	TransferID string    `gorm:"column:transfer_id;type:char(32);not null;uniqueIndex:ux_transfers_transfer_id" json:"transfer_id"`
	OwnerID    string    `gorm:"column:owner_id;size:32;not null;index:idx_transfers_owner" json:"owner_id"`
	Asset      Asset     `gorm:"column:asset;size:16;not null" json:"asset"`
	Direction  Direction `gorm:"column:direction;size:8;not null" json:"direction"`
	Amount     uint64    `gorm:"column:amount;not null" json:"amount"`
	LoanID     uint64    `gorm:"column:loan_id;not null;default:0" json:"loan_id,omitempty"`
	Reason     Reason    `gorm:"column:reason;size:32;not null" json:"reason"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Transfer) TableName() string { return "transfers" }
