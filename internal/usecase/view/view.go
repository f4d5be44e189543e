// Package view shapes ledger records into the JSON bodies returned by the
// usecases. Amounts are integer base units with a rendered decimal string
// next to them.
package view

import (
	"time"

	"collateral-lending/internal/domain/account"
	"collateral-lending/internal/domain/lending"
	"collateral-lending/internal/domain/loan"
	"collateral-lending/internal/domain/transfer"
	"collateral-lending/pkg/amount"
)

// Units are the decimal places of the two assets.
type Units struct {
	Collateral uint8
	Stable     uint8
}

func (u Units) C(v uint64) string { return amount.Format(v, u.Collateral) }
func (u Units) S(v uint64) string { return amount.Format(v, u.Stable) }

type LoanDTO struct {
	LoanID            uint64    `json:"loan_id"`
	BorrowerID        string    `json:"borrower_id"`
	State             string    `json:"state"`
	Principal         uint64    `json:"principal"`
	PrincipalDisplay  string    `json:"principal_display"`
	RateBps           uint16    `json:"rate_bps"`
	Collateral        uint64    `json:"collateral"`
	CollateralDisplay string    `json:"collateral_display"`
	AccruedFrom       time.Time `json:"accrued_from"`
	UnpaidInterest    uint64    `json:"unpaid_interest"`
	CreatedAt         time.Time `json:"created_at"`
	Owed              *OwedDTO  `json:"owed,omitempty"`
}

type OwedDTO struct {
	Interest       uint64    `json:"interest"`
	Total          uint64    `json:"total"`
	TotalDisplay   string    `json:"total_display"`
	ElapsedSeconds uint64    `json:"elapsed_seconds"`
	AsOf           time.Time `json:"as_of"`
}

func Loan(l loan.Loan, u Units) LoanDTO {
	return LoanDTO{
		LoanID:            l.LoanID,
		BorrowerID:        l.BorrowerID,
		State:             string(l.State),
		Principal:         l.Principal,
		PrincipalDisplay:  u.S(l.Principal),
		RateBps:           l.RateBps,
		Collateral:        l.Collateral,
		CollateralDisplay: u.C(l.Collateral),
		AccruedFrom:       l.AccruedFrom,
		UnpaidInterest:    l.UnpaidInterest,
		CreatedAt:         l.CreatedAt,
	}
}

// LoanOwed is Loan plus what settles it at now.
func LoanOwed(l loan.Loan, u Units, now time.Time) (LoanDTO, error) {
	owed, err := lending.LoanOwed(l, now)
	if err != nil {
		return LoanDTO{}, err
	}
	dto := Loan(l, u)
	dto.Owed = &OwedDTO{
		Interest:       owed.Interest,
		Total:          owed.Total,
		TotalDisplay:   u.S(owed.Total),
		ElapsedSeconds: owed.Elapsed,
		AsOf:           now.UTC(),
	}
	return dto, nil
}

type AccountDTO struct {
	OwnerID                  string    `json:"owner_id"`
	CollateralBalance        uint64    `json:"collateral_balance"`
	CollateralBalanceDisplay string    `json:"collateral_balance_display"`
	StableBalance            uint64    `json:"stable_balance"`
	StableBalanceDisplay     string    `json:"stable_balance_display"`
	LoanSeq                  uint64    `json:"loan_seq"`
	Loans                    []LoanDTO `json:"loans"`
	CreatedAt                time.Time `json:"created_at"`
}

func Account(a *account.BorrowerAccount, u Units) AccountDTO {
	loans := make([]LoanDTO, 0, len(a.Loans))
	for _, l := range a.Loans {
		loans = append(loans, Loan(l, u))
	}
	return AccountDTO{
		OwnerID:                  a.OwnerID,
		CollateralBalance:        a.CollateralBalance,
		CollateralBalanceDisplay: u.C(a.CollateralBalance),
		StableBalance:            a.StableBalance,
		StableBalanceDisplay:     u.S(a.StableBalance),
		LoanSeq:                  a.LoanSeq,
		Loans:                    loans,
		CreatedAt:                a.CreatedAt,
	}
}

type TransferDTO struct {
	TransferID    string    `json:"transfer_id"`
	Asset         string    `json:"asset"`
	Direction     string    `json:"direction"`
	Amount        uint64    `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	Reason        string    `json:"reason"`
	LoanID        uint64    `json:"loan_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func Transfer(t transfer.Transfer, u Units) TransferDTO {
	display := u.S(t.Amount)
	if t.Asset == transfer.AssetCollateral {
		display = u.C(t.Amount)
	}
	return TransferDTO{
		TransferID:    t.TransferID,
		Asset:         string(t.Asset),
		Direction:     string(t.Direction),
		Amount:        t.Amount,
		AmountDisplay: display,
		Reason:        string(t.Reason),
		LoanID:        t.LoanID,
		CreatedAt:     t.CreatedAt,
	}
}
