package lending

import (
	"time"

	"collateral-lending/internal/domain/loan"
)

type Settlement string

const (
	PartialSettlement Settlement = "partial"
	FullSettlement    Settlement = "full"
)

// RepaymentOutcome is the resolution of one payment against an open loan.
// For a full settlement the caller closes the loan and releases
// CollateralToRelease; for a partial one it reduces the principal to
// NewPrincipal, carries UnpaidInterest and moves the accrual baseline to
// Baseline.
type RepaymentOutcome struct {
	Settlement          Settlement `json:"settlement"`
	Payment             uint64     `json:"payment"`
	Owed                Owed       `json:"owed"`
	InterestPaid        uint64     `json:"interest_paid"`
	PrincipalPaid       uint64     `json:"principal_paid"`
	NewPrincipal        uint64     `json:"new_principal"`
	UnpaidInterest      uint64     `json:"unpaid_interest"`
	Baseline            time.Time  `json:"baseline"`
	CollateralToRelease uint64     `json:"collateral_to_release"`
}

// LoanOwed values ln at now: its principal, the interest carried from
// earlier partial repayments and the interest accrued since AccruedFrom.
func LoanOwed(ln loan.Loan, now time.Time) (Owed, error) {
	owed, err := TotalOwed(ln.Principal, ln.RateBps, ln.AccruedFrom, now)
	if err != nil {
		return Owed{}, err
	}
	if ln.UnpaidInterest == 0 {
		return owed, nil
	}
	if owed.Interest, err = addChecked(owed.Interest, ln.UnpaidInterest); err != nil {
		return Owed{}, err
	}
	if owed.Total, err = addChecked(owed.Total, ln.UnpaidInterest); err != nil {
		return Owed{}, err
	}
	owed.Carried = ln.UnpaidInterest
	return owed, nil
}

// ResolveRepayment applies payment to ln interest-first. It never mutates ln.
// A non-zero partial payment resets the baseline to now and carries whatever
// interest it left unpaid, so the debt drops by exactly the payment. A zero
// payment changes nothing.
func ResolveRepayment(ln loan.Loan, payment uint64, now time.Time) (RepaymentOutcome, error) {
	owed, err := LoanOwed(ln, now)
	if err != nil {
		return RepaymentOutcome{}, err
	}
	if payment > owed.Total {
		return RepaymentOutcome{}, ErrRepaymentExceedsOwed
	}

	out := RepaymentOutcome{Payment: payment, Owed: owed}
	if payment == owed.Total {
		out.Settlement = FullSettlement
		out.InterestPaid = owed.Interest
		out.PrincipalPaid = owed.Principal
		out.CollateralToRelease = ln.Collateral
		out.Baseline = now.UTC()
		return out, nil
	}

	out.Settlement = PartialSettlement
	if payment == 0 {
		out.NewPrincipal = ln.Principal
		out.UnpaidInterest = ln.UnpaidInterest
		out.Baseline = ln.AccruedFrom
		return out, nil
	}
	out.InterestPaid = min(payment, owed.Interest)
	out.PrincipalPaid = payment - out.InterestPaid
	out.NewPrincipal = ln.Principal - out.PrincipalPaid
	out.UnpaidInterest = owed.Interest - out.InterestPaid
	out.Baseline = now.UTC()
	return out, nil
}
