package lending

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"collateral-lending/internal/domain/loan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fivePercentLoan() loan.Loan {
	return loan.Loan{
		LoanID:      1,
		BorrowerID:  "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		Principal:   1000,
		RateBps:     500,
		Collateral:  31,
		AccruedFrom: epoch,
		State:       loan.StateOpen,
	}
}

func TestResolveRepayment_FullAfterOneYear(t *testing.T) {
	ln := fivePercentLoan()
	now := epoch.Add(oneYear)

	out, err := ResolveRepayment(ln, 1050, now)
	require.NoError(t, err)
	assert.Equal(t, FullSettlement, out.Settlement)
	assert.Equal(t, ln.Collateral, out.CollateralToRelease)
	assert.Equal(t, uint64(50), out.InterestPaid)
	assert.Equal(t, uint64(1000), out.PrincipalPaid)
	assert.Equal(t, uint64(1050), out.Owed.Total)
}

func TestResolveRepayment_PartialIsInterestFirst(t *testing.T) {
	ln := fivePercentLoan()
	now := epoch.Add(oneYear)

	out, err := ResolveRepayment(ln, 1049, now)
	require.NoError(t, err)
	assert.Equal(t, PartialSettlement, out.Settlement)
	assert.Equal(t, uint64(50), out.InterestPaid)
	assert.Equal(t, uint64(999), out.PrincipalPaid)
	assert.Equal(t, uint64(1), out.NewPrincipal)
	assert.Zero(t, out.CollateralToRelease)
	assert.True(t, out.Baseline.Equal(now))
}

func TestResolveRepayment_ExceedsOwed(t *testing.T) {
	ln := fivePercentLoan()
	_, err := ResolveRepayment(ln, 1051, epoch.Add(oneYear))
	assert.ErrorIs(t, err, ErrRepaymentExceedsOwed)

	// right after opening only the principal is owed
	_, err = ResolveRepayment(ln, 1001, epoch)
	assert.ErrorIs(t, err, ErrRepaymentExceedsOwed)
}

func TestResolveRepayment_TotalOwedAlwaysSettlesFully(t *testing.T) {
	ln := fivePercentLoan()
	for _, d := range []time.Duration{0, time.Second, time.Hour, 24 * time.Hour, oneYear, 3 * oneYear} {
		now := epoch.Add(d)
		owed, err := TotalOwed(ln.Principal, ln.RateBps, ln.AccruedFrom, now)
		require.NoError(t, err)

		out, err := ResolveRepayment(ln, owed.Total, now)
		require.NoError(t, err)
		assert.Equal(t, FullSettlement, out.Settlement, "after %s", d)
		assert.Equal(t, ln.Collateral, out.CollateralToRelease, "after %s", d)
	}
}

func TestResolveRepayment_ZeroPaymentIsNoop(t *testing.T) {
	ln := fivePercentLoan()

	// with interest outstanding
	out, err := ResolveRepayment(ln, 0, epoch.Add(oneYear))
	require.NoError(t, err)
	assert.Equal(t, PartialSettlement, out.Settlement)
	assert.Equal(t, ln.Principal, out.NewPrincipal)
	assert.Zero(t, out.CollateralToRelease)
	assert.True(t, out.Baseline.Equal(ln.AccruedFrom))

	// with nothing accrued
	out, err = ResolveRepayment(ln, 0, epoch)
	require.NoError(t, err)
	assert.Equal(t, PartialSettlement, out.Settlement)
	assert.Equal(t, ln.Principal, out.NewPrincipal)
	assert.True(t, out.Baseline.Equal(ln.AccruedFrom))
}

func TestResolveRepayment_InterestOnlyPaymentCarriesTheRest(t *testing.T) {
	ln := fivePercentLoan()
	now := epoch.Add(oneYear)

	out, err := ResolveRepayment(ln, 25, now)
	require.NoError(t, err)
	assert.Equal(t, PartialSettlement, out.Settlement)
	assert.Equal(t, uint64(25), out.InterestPaid)
	assert.Zero(t, out.PrincipalPaid)
	assert.Equal(t, ln.Principal, out.NewPrincipal)
	assert.Equal(t, uint64(25), out.UnpaidInterest)
	assert.True(t, out.Baseline.Equal(now))
}

func TestResolveRepayment_SubSecondInterestPaymentStillCounts(t *testing.T) {
	ln := loan.Loan{LoanID: 1, BorrowerID: owner, Principal: 1_000_000_000_000, RateBps: 800, AccruedFrom: epoch}
	now := epoch.Add(time.Second)

	before, err := LoanOwed(ln, now)
	require.NoError(t, err)
	require.Equal(t, uint64(2536), before.Interest)

	out, err := ResolveRepayment(ln, 845, now)
	require.NoError(t, err)
	ln.Principal, ln.UnpaidInterest, ln.AccruedFrom = out.NewPrincipal, out.UnpaidInterest, out.Baseline

	after, err := LoanOwed(ln, now)
	require.NoError(t, err)
	assert.Equal(t, before.Total-845, after.Total)

	rest, err := ResolveRepayment(ln, after.Total, now)
	require.NoError(t, err)
	assert.Equal(t, FullSettlement, rest.Settlement)
}

func TestResolveRepayment_PartialPaymentReducesDebtByPayment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rates := []uint16{0, 100, 500, 800}
	for i := 0; i < 500; i++ {
		ln := loan.Loan{
			LoanID:      1,
			BorrowerID:  owner,
			Principal:   1 + uint64(rng.Int63n(1_000_000_000_000)),
			RateBps:     rates[rng.Intn(len(rates))],
			AccruedFrom: epoch,
		}
		if rng.Intn(2) == 0 {
			ln.UnpaidInterest = uint64(rng.Int63n(1_000_000))
		}
		now := epoch.Add(time.Duration(rng.Int63n(int64(3 * oneYear))))
		before, err := LoanOwed(ln, now)
		require.NoError(t, err)
		payment := uint64(rng.Int63n(int64(before.Total)))

		out, err := ResolveRepayment(ln, payment, now)
		require.NoError(t, err)
		require.Equal(t, PartialSettlement, out.Settlement)
		ln.Principal, ln.UnpaidInterest, ln.AccruedFrom = out.NewPrincipal, out.UnpaidInterest, out.Baseline

		after, err := LoanOwed(ln, now)
		require.NoError(t, err)
		require.Equal(t, before.Total-payment, after.Total, "loan %+v paying %d", ln, payment)
		require.Equal(t, out.InterestPaid+out.PrincipalPaid, payment)
	}
}

func TestLoanOwed_AddsCarriedInterest(t *testing.T) {
	ln := fivePercentLoan()
	ln.UnpaidInterest = 7

	owed, err := LoanOwed(ln, epoch.Add(oneYear))
	require.NoError(t, err)
	assert.Equal(t, uint64(57), owed.Interest)
	assert.Equal(t, uint64(7), owed.Carried)
	assert.Equal(t, uint64(1057), owed.Total)

	ln.UnpaidInterest = math.MaxUint64
	_, err = LoanOwed(ln, epoch.Add(oneYear))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestResolveRepayment_DoesNotMutateLoan(t *testing.T) {
	ln := fivePercentLoan()
	before := ln
	_, err := ResolveRepayment(ln, 500, epoch.Add(oneYear))
	require.NoError(t, err)
	assert.Equal(t, before, ln)
}

func TestResolveRepayment_ZeroRateTierOwesOnlyPrincipal(t *testing.T) {
	ln := fivePercentLoan()
	ln.RateBps = 0

	out, err := ResolveRepayment(ln, 1000, epoch.Add(5*oneYear))
	require.NoError(t, err)
	assert.Equal(t, FullSettlement, out.Settlement)
	assert.Zero(t, out.InterestPaid)
}
