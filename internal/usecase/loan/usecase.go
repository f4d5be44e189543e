package loan

import (
	"context"
	"errors"
	"time"

	"collateral-lending/internal/domain/account"
	"collateral-lending/internal/domain/event"
	"collateral-lending/internal/domain/lending"
	"collateral-lending/internal/domain/loan"
	"collateral-lending/internal/domain/oracle"
	"collateral-lending/internal/domain/transfer"
	"collateral-lending/internal/domain/uow"
	"collateral-lending/internal/infrastructure/metrics"
	"collateral-lending/internal/usecase/view"
	"collateral-lending/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	accounts account.Repository
	loans    loan.Repository
	uow      uow.UnitOfWork
	ledger   *lending.Ledger
	oracle   oracle.Oracle
	events   event.Sink
	metrics  *metrics.LendingMetrics
	units    view.Units
	now      func() time.Time
}

func NewUsecase(accounts account.Repository, loans loan.Repository, tx uow.UnitOfWork, ledger *lending.Ledger, price oracle.Oracle, sink event.Sink, m *metrics.LendingMetrics, units view.Units) *Usecase {
	if sink == nil {
		sink = event.Discard{}
	}
	return &Usecase{
		accounts: accounts, loans: loans, uow: tx, ledger: ledger, oracle: price,
		events: sink, metrics: m, units: units, now: time.Now,
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Borrow opens a loan against the owner's free collateral at the current
// oracle price.
func (u *Usecase) Borrow(ctx context.Context, in BorrowInput) (*view.LoanDTO, error) {
	now := u.now().UTC()
	reading, err := u.oracle.Price(ctx, now)
	if err != nil {
		u.metrics.ObserveError("borrow", lending.Code(err))
		return nil, err
	}
	u.metrics.ObserveOraclePrice(reading.Price)

	var opened loan.Loan
	err = u.uow.WithinAccountTx(ctx, in.OwnerID, func(r uow.Repos, a *account.BorrowerAccount) error {
		ln, err := u.ledger.OpenLoan(a, lending.OpenRequest{
			Caller:     in.Caller,
			Principal:  in.Principal,
			RateBps:    in.RateBps,
			Collateral: in.Collateral,
		}, reading.Price, now)
		if err != nil {
			return err
		}
		if err := r.Loans.Create(ctx, ln); err != nil {
			return err
		}
		if err := r.Accounts.Save(ctx, a); err != nil {
			return err
		}
		for _, t := range []transfer.Transfer{
			{Asset: transfer.AssetCollateral, Direction: transfer.DirectionOut, Amount: ln.Collateral, Reason: transfer.ReasonPledge},
			{Asset: transfer.AssetStable, Direction: transfer.DirectionIn, Amount: ln.Principal, Reason: transfer.ReasonDisbursal},
		} {
			t.TransferID = id.NewID32()
			t.OwnerID = a.OwnerID
			t.LoanID = ln.LoanID
			if err := r.Transfers.Create(ctx, &t); err != nil {
				return err
			}
		}
		opened = *ln
		return nil
	})
	if err != nil {
		err = notFound(err, lending.ErrAccountNotFound)
		u.metrics.ObserveError("borrow", lending.Code(err))
		return nil, err
	}

	u.metrics.ObserveLoanOpened(opened.RateBps)
	u.events.Emit(ctx, event.Event{
		Type:       event.LoanOpened,
		OwnerID:    opened.BorrowerID,
		LoanID:     opened.LoanID,
		Amount:     opened.Principal,
		RateBps:    opened.RateBps,
		Collateral: opened.Collateral,
		At:         now,
	})
	dto, err := view.LoanOwed(opened, u.units, now)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Get returns an open loan with what it takes to settle it now.
func (u *Usecase) Get(ctx context.Context, caller, ownerID string, loanID uint64) (*view.LoanDTO, error) {
	a, err := u.accounts.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, notFound(err, lending.ErrAccountNotFound)
	}
	ln, err := u.loans.GetByLoanID(ctx, a.ID, loanID)
	if err != nil {
		return nil, notFound(err, lending.ErrLoanNotFound)
	}
	if err := lending.Authorize(ln, caller); err != nil {
		return nil, err
	}
	dto, err := view.LoanOwed(*ln, u.units, u.now())
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// List returns the owner's open loans in creation order.
func (u *Usecase) List(ctx context.Context, caller, ownerID string) ([]view.LoanDTO, error) {
	a, err := u.accounts.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, notFound(err, lending.ErrAccountNotFound)
	}
	if err := lending.AuthorizeOwner(a, caller); err != nil {
		return nil, err
	}
	loans, err := u.loans.ListOpenByAccountID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	out := make([]view.LoanDTO, 0, len(loans))
	for _, ln := range loans {
		dto, err := view.LoanOwed(ln, u.units, now)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

// Quote prices the collateral a borrow would need right now.
func (u *Usecase) Quote(ctx context.Context, principal uint64, rateBps uint16) (*QuoteDTO, error) {
	ltv, err := u.ledger.Rates().Lookup(rateBps)
	if err != nil {
		return nil, err
	}
	reading, err := u.oracle.Price(ctx, u.now().UTC())
	if err != nil {
		return nil, err
	}
	required, err := u.ledger.Quote(principal, rateBps, reading.Price)
	if err != nil {
		return nil, err
	}
	return &QuoteDTO{
		Principal:                 principal,
		RateBps:                   rateBps,
		LTVBps:                    ltv,
		Price:                     reading.Price,
		RequiredCollateral:        required,
		RequiredCollateralDisplay: u.units.C(required),
	}, nil
}

func (u *Usecase) Tiers() []TierDTO {
	tiers := u.ledger.Rates().Tiers()
	out := make([]TierDTO, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, TierDTO{RateBps: t.RateBps, LTVBps: t.LTVBps})
	}
	return out
}

func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
