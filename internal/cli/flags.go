package cli

import (
	"fmt"
	"time"

	"collateral-lending/internal/domain/loan"
	"collateral-lending/pkg/amount"
)

// loanFlags are the loan terms shared by owed and repay.
type loanFlags struct {
	principal string
	unpaid    string
	rateBps   uint16
	since     string
	at        string
}

// loan builds the loan those flags describe.
func (o *RootOptions) loan(f loanFlags) (ln loan.Loan, at time.Time, err error) {
	if ln.Principal, err = o.stable("principal", f.principal); err != nil {
		return ln, at, err
	}
	if ln.UnpaidInterest, err = o.stable("unpaid-interest", f.unpaid); err != nil {
		return ln, at, err
	}
	ln.RateBps = f.rateBps
	ln.AccruedFrom, at, err = o.window(f)
	return ln, at, err
}

func (o *RootOptions) stable(flag, raw string) (uint64, error) {
	v, err := amount.Parse(raw, o.StableDecimals)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", flag, err)
	}
	return v, nil
}

func (o *RootOptions) collateral(flag, raw string) (uint64, error) {
	v, err := amount.Parse(raw, o.CollateralDecimals)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", flag, err)
	}
	return v, nil
}

// window parses --since and --at; --at defaults to now.
func (o *RootOptions) window(f loanFlags) (since, at time.Time, err error) {
	since, err = time.Parse(time.RFC3339, f.since)
	if err != nil {
		return since, at, fmt.Errorf("--since: %w", err)
	}
	at = o.now().UTC()
	if f.at != "" {
		if at, err = time.Parse(time.RFC3339, f.at); err != nil {
			return since, at, fmt.Errorf("--at: %w", err)
		}
	}
	return since, at, nil
}
