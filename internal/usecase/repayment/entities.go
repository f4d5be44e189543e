package repayment

import (
	"time"

	"collateral-lending/internal/usecase/view"
)

type RepayInput struct {
	Caller  string
	OwnerID string
	LoanID  uint64
	Amount  uint64
}

type RepaymentDTO struct {
	Settlement         string       `json:"settlement"`
	Payment            uint64       `json:"payment"`
	OwedBefore         uint64       `json:"owed_before"`
	InterestPaid       uint64       `json:"interest_paid"`
	PrincipalPaid      uint64       `json:"principal_paid"`
	CollateralReleased uint64       `json:"collateral_released"`
	CollateralDisplay  string       `json:"collateral_released_display"`
	Loan               view.LoanDTO `json:"loan"`
	RepaidAt           time.Time    `json:"repaid_at"`
}
