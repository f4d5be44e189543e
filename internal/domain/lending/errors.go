package lending

import "errors"

var (
	ErrUnknownRate            = errors.New("lending: unknown rate tier")
	ErrInvalidPrice           = errors.New("lending: invalid collateral price")
	ErrOverflow               = errors.New("lending: arithmetic overflow")
	ErrInsufficientCollateral = errors.New("lending: insufficient collateral")
	ErrLoanNotFound           = errors.New("lending: loan not found")
	ErrUnauthorized           = errors.New("lending: caller is not the borrower")
	ErrRepaymentExceedsOwed   = errors.New("lending: repayment exceeds amount owed")
	ErrTooManyOpenLoans       = errors.New("lending: too many open loans")

	ErrInvalidAmount       = errors.New("lending: amount must be positive")
	ErrInsufficientBalance = errors.New("lending: insufficient balance")
	ErrAccountNotFound     = errors.New("lending: account not found")
	ErrAccountExists       = errors.New("lending: account already exists")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrUnknownRate, "unknown_rate"},
	{ErrInvalidPrice, "invalid_price"},
	{ErrOverflow, "overflow"},
	{ErrInsufficientCollateral, "insufficient_collateral"},
	{ErrLoanNotFound, "loan_not_found"},
	{ErrUnauthorized, "unauthorized"},
	{ErrRepaymentExceedsOwed, "repayment_exceeds_owed"},
	{ErrTooManyOpenLoans, "too_many_open_loans"},
	{ErrInvalidAmount, "invalid_amount"},
	{ErrInsufficientBalance, "insufficient_balance"},
	{ErrAccountNotFound, "account_not_found"},
	{ErrAccountExists, "account_exists"},
}

// Code returns the stable machine-readable kind of err, or "internal" when
// err is not one of the ledger errors.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}
