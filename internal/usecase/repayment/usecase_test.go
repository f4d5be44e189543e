package repayment

import (
	"context"
	"errors"
	"testing"
	"time"

	"collateral-lending/internal/domain/account"
	"collateral-lending/internal/domain/event"
	"collateral-lending/internal/domain/lending"
	"collateral-lending/internal/domain/loan"
	"collateral-lending/internal/domain/transfer"
	"collateral-lending/internal/domain/uow"
	"collateral-lending/internal/infrastructure/events"
	"collateral-lending/internal/infrastructure/metrics"
	"collateral-lending/internal/testutil/accountmock"
	"collateral-lending/internal/testutil/loanmock"
	"collateral-lending/internal/testutil/transfermock"
	"collateral-lending/internal/testutil/uowmock"
	"collateral-lending/internal/usecase/view"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

const (
	owner    = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	stranger = "cccccccccccccccccccccccccccccccc"
)

var (
	opened = time.Date(2024, 9, 6, 10, 0, 0, 0, time.UTC)
	now    = opened.Add(31_536_000 * time.Second)
)

type fixture struct {
	acct      *account.BorrowerAccount
	saved     []loan.Loan
	closed    []loan.Loan
	transfers *transfermock.Repo
	rec       *events.Recorder
	reg       *prometheus.Registry
	uc        *Usecase
}

// newFixture holds one account with a 1000 unit loan at 500 bps opened a
// year before now, so 1050 settles it.
func newFixture(stable uint64) *fixture {
	f := &fixture{
		acct: &account.BorrowerAccount{
			ID: 7, OwnerID: owner, StableBalance: stable, LoanSeq: 1,
			Loans: []loan.Loan{{
				ID: 70, AccountID: 7, LoanID: 1, BorrowerID: owner,
				Principal: 1000, RateBps: 500, Collateral: 31,
				AccruedFrom: opened, State: loan.StateOpen,
			}},
		},
		transfers: &transfermock.Repo{},
		rec:       &events.Recorder{},
		reg:       prometheus.NewRegistry(),
	}
	accounts := &accountmock.Repo{
		GetByOwnerIDForUpdateFn: func(_ context.Context, ownerID string) (*account.BorrowerAccount, error) {
			if ownerID != f.acct.OwnerID {
				return nil, gorm.ErrRecordNotFound
			}
			cp := *f.acct
			cp.Loans = append([]loan.Loan(nil), f.acct.Loans...)
			return &cp, nil
		},
		SaveFn: func(_ context.Context, a *account.BorrowerAccount) error {
			cp := *a
			f.acct = &cp
			return nil
		},
	}
	loans := &loanmock.Repo{
		SaveFn: func(_ context.Context, l *loan.Loan) error {
			f.saved = append(f.saved, *l)
			return nil
		},
		CloseFn: func(_ context.Context, l *loan.Loan) error {
			f.closed = append(f.closed, *l)
			return nil
		},
	}
	tx := uowmock.Over(uow.Repos{Accounts: accounts, Loans: loans, Transfers: f.transfers})
	ledger := lending.NewLedger(lending.DefaultRateTable(), 0, 10)
	f.uc = NewUsecase(tx, ledger, f.rec, metrics.NewLending(f.reg), view.Units{}).WithClock(func() time.Time { return now })
	return f
}

func TestUsecase_Repay_Full(t *testing.T) {
	f := newFixture(1050)

	dto, err := f.uc.Repay(context.Background(), RepayInput{Caller: owner, OwnerID: owner, LoanID: 1, Amount: 1050})
	if err != nil {
		t.Fatalf("Repay: %v", err)
	}
	if dto.Settlement != "full" || dto.CollateralReleased != 31 || dto.InterestPaid != 50 || dto.Loan.State != "closed" {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if len(f.closed) != 1 || f.closed[0].ID != 70 || len(f.saved) != 0 {
		t.Fatalf("loan not closed: closed=%+v saved=%+v", f.closed, f.saved)
	}
	if f.acct.StableBalance != 0 || f.acct.CollateralBalance != 31 || len(f.acct.Loans) != 0 {
		t.Fatalf("account not settled: %+v", f.acct)
	}

	tr := f.transfers.Created
	if len(tr) != 2 || tr[0].Reason != transfer.ReasonRepayment || tr[1].Reason != transfer.ReasonRelease || tr[1].Amount != 31 {
		t.Fatalf("unexpected transfers: %+v", tr)
	}
	ev := f.rec.Events()
	if len(ev) != 1 || ev[0].Type != event.LoanClosed || ev[0].Collateral != 31 {
		t.Fatalf("unexpected events: %+v", ev)
	}
}

func TestUsecase_Repay_Partial(t *testing.T) {
	f := newFixture(1050)

	dto, err := f.uc.Repay(context.Background(), RepayInput{Caller: owner, OwnerID: owner, LoanID: 1, Amount: 1049})
	if err != nil {
		t.Fatalf("Repay: %v", err)
	}
	if dto.Settlement != "partial" || dto.CollateralReleased != 0 || dto.PrincipalPaid != 999 {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if dto.Loan.Owed == nil || dto.Loan.Owed.Total != 1 {
		t.Fatalf("remaining owed = %+v, want 1", dto.Loan.Owed)
	}
	if len(f.saved) != 1 || f.saved[0].Principal != 1 || !f.saved[0].AccruedFrom.Equal(now) || len(f.closed) != 0 {
		t.Fatalf("loan not reduced: saved=%+v closed=%+v", f.saved, f.closed)
	}
	if f.acct.StableBalance != 1 || f.acct.CollateralBalance != 0 {
		t.Fatalf("unexpected balances: %+v", f.acct)
	}
	if tr := f.transfers.Created; len(tr) != 1 || tr[0].Amount != 1049 {
		t.Fatalf("unexpected transfers: %+v", tr)
	}
	if ev := f.rec.Events(); len(ev) != 1 || ev[0].Type != event.LoanReduced {
		t.Fatalf("unexpected events: %+v", ev)
	}
}

func TestUsecase_Repay_ZeroPaymentWritesNothing(t *testing.T) {
	f := newFixture(0)

	dto, err := f.uc.Repay(context.Background(), RepayInput{Caller: owner, OwnerID: owner, LoanID: 1, Amount: 0})
	if err != nil {
		t.Fatalf("Repay: %v", err)
	}
	if dto.Settlement != "partial" || dto.Loan.Owed.Total != 1050 {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if len(f.saved)+len(f.closed)+len(f.transfers.Created)+len(f.rec.Events()) != 0 {
		t.Fatalf("zero payment left effects")
	}
	if n, err := testutil.GatherAndCount(f.reg, "lending_repayments_total"); err != nil || n != 0 {
		t.Fatalf("zero payment counted as a repayment: n=%d err=%v", n, err)
	}
}

func TestUsecase_Repay_InterestOnlyPersistsUnpaidInterest(t *testing.T) {
	f := newFixture(1000)

	dto, err := f.uc.Repay(context.Background(), RepayInput{Caller: owner, OwnerID: owner, LoanID: 1, Amount: 20})
	if err != nil {
		t.Fatalf("Repay: %v", err)
	}
	if len(f.saved) != 1 || f.saved[0].Principal != 1000 || f.saved[0].UnpaidInterest != 30 || !f.saved[0].AccruedFrom.Equal(now) {
		t.Fatalf("unexpected saved loan: %+v", f.saved)
	}
	if dto.Loan.Owed == nil || dto.Loan.Owed.Total != 1030 {
		t.Fatalf("owed after = %+v, want 1030", dto.Loan.Owed)
	}
	if n, err := testutil.GatherAndCount(f.reg, "lending_repayments_total"); err != nil || n != 1 {
		t.Fatalf("repayment series = %d err=%v, want 1", n, err)
	}
}

func TestUsecase_Repay_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		stable uint64
		in     RepayInput
		want   error
	}{
		{"exceeds owed", 2000, RepayInput{Caller: owner, OwnerID: owner, LoanID: 1, Amount: 1051}, lending.ErrRepaymentExceedsOwed},
		{"not the borrower", 2000, RepayInput{Caller: stranger, OwnerID: owner, LoanID: 1, Amount: 10}, lending.ErrUnauthorized},
		{"unknown loan", 2000, RepayInput{Caller: owner, OwnerID: owner, LoanID: 2, Amount: 10}, lending.ErrLoanNotFound},
		{"no account", 2000, RepayInput{Caller: stranger, OwnerID: stranger, LoanID: 1, Amount: 10}, lending.ErrAccountNotFound},
		{"short on stable", 1000, RepayInput{Caller: owner, OwnerID: owner, LoanID: 1, Amount: 1050}, lending.ErrInsufficientBalance},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.stable)
			_, err := f.uc.Repay(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
			if len(f.saved)+len(f.closed)+len(f.transfers.Created)+len(f.rec.Events()) != 0 {
				t.Fatalf("rejected repayment left effects")
			}
			if f.acct.StableBalance != tc.stable || len(f.acct.Loans) != 1 {
				t.Fatalf("account changed: %+v", f.acct)
			}
		})
	}
}

func TestUsecase_Repay_NoDoubleSettlement(t *testing.T) {
	f := newFixture(2100)
	in := RepayInput{Caller: owner, OwnerID: owner, LoanID: 1, Amount: 1050}

	if _, err := f.uc.Repay(context.Background(), in); err != nil {
		t.Fatalf("first Repay: %v", err)
	}
	if _, err := f.uc.Repay(context.Background(), in); !errors.Is(err, lending.ErrLoanNotFound) {
		t.Fatalf("second Repay: want ErrLoanNotFound, got %v", err)
	}
	if f.acct.StableBalance != 1050 {
		t.Fatalf("stable balance = %d, want 1050", f.acct.StableBalance)
	}
}
