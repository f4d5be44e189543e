package lending

import (
	"fmt"
	"time"

	"collateral-lending/internal/domain/account"
	"collateral-lending/internal/domain/loan"
)

// Ledger holds the admission parameters for loan mutations. Every method
// either applies all of its changes to the account or none of them.
type Ledger struct {
	rates              RateTable
	collateralDecimals uint8
	maxOpenLoans       int
}

func NewLedger(rates RateTable, collateralDecimals uint8, maxOpenLoans int) *Ledger {
	return &Ledger{rates: rates, collateralDecimals: collateralDecimals, maxOpenLoans: maxOpenLoans}
}

func (l *Ledger) Rates() RateTable { return l.rates }

func (l *Ledger) CollateralDecimals() uint8 { return l.collateralDecimals }

// Quote returns the required collateral for a borrow at price.
func (l *Ledger) Quote(principal uint64, rateBps uint16, price uint64) (uint64, error) {
	if principal == 0 {
		return 0, ErrInvalidAmount
	}
	return l.rates.CollateralFor(principal, rateBps, price, l.collateralDecimals)
}

type OpenRequest struct {
	Caller     string
	Principal  uint64
	RateBps    uint16
	Collateral uint64
}

// OpenLoan admits a borrow against acct. The pledged collateral moves out of
// the free collateral balance into the loan and the principal is credited to
// the stable balance.
func (l *Ledger) OpenLoan(acct *account.BorrowerAccount, req OpenRequest, price uint64, now time.Time) (*loan.Loan, error) {
	if err := AuthorizeOwner(acct, req.Caller); err != nil {
		return nil, err
	}
	required, err := l.Quote(req.Principal, req.RateBps, price)
	if err != nil {
		return nil, err
	}
	if req.Collateral < required {
		return nil, fmt.Errorf("%w: pledged %d, required %d", ErrInsufficientCollateral, req.Collateral, required)
	}
	if l.maxOpenLoans > 0 && len(acct.Loans) >= l.maxOpenLoans {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManyOpenLoans, l.maxOpenLoans)
	}
	if acct.CollateralBalance < req.Collateral {
		return nil, fmt.Errorf("%w: collateral balance %d, pledged %d", ErrInsufficientBalance, acct.CollateralBalance, req.Collateral)
	}
	stable, err := addChecked(acct.StableBalance, req.Principal)
	if err != nil {
		return nil, err
	}
	seq, err := addChecked(acct.LoanSeq, 1)
	if err != nil {
		return nil, err
	}

	acct.CollateralBalance -= req.Collateral
	acct.StableBalance = stable
	acct.LoanSeq = seq
	acct.Loans = append(acct.Loans, loan.Loan{
		AccountID:   acct.ID,
		LoanID:      seq,
		BorrowerID:  acct.OwnerID,
		Principal:   req.Principal,
		RateBps:     req.RateBps,
		Collateral:  req.Collateral,
		AccruedFrom: now.UTC(),
		State:       loan.StateOpen,
	})
	return &acct.Loans[len(acct.Loans)-1], nil
}

// CloseLoan removes the loan from acct and credits released to the
// collateral balance. The removed loan is returned in the closed state.
func (l *Ledger) CloseLoan(acct *account.BorrowerAccount, loanID, released uint64) (loan.Loan, error) {
	idx := indexOf(acct, loanID)
	if idx < 0 {
		return loan.Loan{}, ErrLoanNotFound
	}
	collateral, err := addChecked(acct.CollateralBalance, released)
	if err != nil {
		return loan.Loan{}, err
	}

	closed := acct.Loans[idx]
	closed.State = loan.StateClosed
	acct.CollateralBalance = collateral
	acct.Loans = append(acct.Loans[:idx:idx], acct.Loans[idx+1:]...)
	return closed, nil
}

// ReduceLoan sets a loan's principal and carried interest and resets its
// accrual baseline.
func (l *Ledger) ReduceLoan(acct *account.BorrowerAccount, loanID, newPrincipal, unpaidInterest uint64, baseline time.Time) (*loan.Loan, error) {
	idx := indexOf(acct, loanID)
	if idx < 0 {
		return nil, ErrLoanNotFound
	}
	ln := &acct.Loans[idx]
	if newPrincipal == 0 || newPrincipal > ln.Principal {
		return nil, fmt.Errorf("%w: new principal %d, current %d", ErrInvalidAmount, newPrincipal, ln.Principal)
	}
	ln.Principal = newPrincipal
	ln.UnpaidInterest = unpaidInterest
	ln.AccruedFrom = baseline.UTC()
	return ln, nil
}

type RepayRequest struct {
	Caller string
	LoanID uint64
	Amount uint64
}

// Repayment is the applied result of a repayment: the resolver outcome and
// the loan as it stands afterwards (closed for a full settlement).
type Repayment struct {
	Outcome RepaymentOutcome
	Loan    loan.Loan
}

// Repay resolves a payment against one of acct's loans and applies it. The
// payment is drawn from the stable balance.
func (l *Ledger) Repay(acct *account.BorrowerAccount, req RepayRequest, now time.Time) (Repayment, error) {
	ln := acct.FindLoan(req.LoanID)
	if ln == nil {
		return Repayment{}, ErrLoanNotFound
	}
	if err := Authorize(ln, req.Caller); err != nil {
		return Repayment{}, err
	}
	outcome, err := ResolveRepayment(*ln, req.Amount, now)
	if err != nil {
		return Repayment{}, err
	}
	if acct.StableBalance < req.Amount {
		return Repayment{}, fmt.Errorf("%w: stable balance %d, payment %d", ErrInsufficientBalance, acct.StableBalance, req.Amount)
	}

	if outcome.Settlement == FullSettlement {
		closed, err := l.CloseLoan(acct, req.LoanID, outcome.CollateralToRelease)
		if err != nil {
			return Repayment{}, err
		}
		acct.StableBalance -= req.Amount
		return Repayment{Outcome: outcome, Loan: closed}, nil
	}

	if req.Amount == 0 {
		return Repayment{Outcome: outcome, Loan: *ln}, nil
	}
	reduced, err := l.ReduceLoan(acct, req.LoanID, outcome.NewPrincipal, outcome.UnpaidInterest, outcome.Baseline)
	if err != nil {
		return Repayment{}, err
	}
	acct.StableBalance -= req.Amount
	return Repayment{Outcome: outcome, Loan: *reduced}, nil
}

// Authorize checks that caller is the loan's recorded borrower.
func Authorize(ln *loan.Loan, caller string) error {
	if caller == "" || ln.BorrowerID != caller {
		return ErrUnauthorized
	}
	return nil
}

// AuthorizeOwner checks that caller owns acct.
func AuthorizeOwner(acct *account.BorrowerAccount, caller string) error {
	if caller == "" || acct.OwnerID != caller {
		return ErrUnauthorized
	}
	return nil
}

func DepositCollateral(acct *account.BorrowerAccount, amount uint64) error {
	return credit(&acct.CollateralBalance, amount)
}

func WithdrawCollateral(acct *account.BorrowerAccount, amount uint64) error {
	return debit(&acct.CollateralBalance, amount)
}

func DepositStable(acct *account.BorrowerAccount, amount uint64) error {
	return credit(&acct.StableBalance, amount)
}

func WithdrawStable(acct *account.BorrowerAccount, amount uint64) error {
	return debit(&acct.StableBalance, amount)
}

func credit(balance *uint64, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	sum, err := addChecked(*balance, amount)
	if err != nil {
		return err
	}
	*balance = sum
	return nil
}

func debit(balance *uint64, amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if *balance < amount {
		return fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientBalance, *balance, amount)
	}
	*balance -= amount
	return nil
}

func indexOf(acct *account.BorrowerAccount, loanID uint64) int {
	for i := range acct.Loans {
		if acct.Loans[i].LoanID == loanID {
			return i
		}
	}
	return -1
}
