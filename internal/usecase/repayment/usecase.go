package repayment

import (
	"context"
	"errors"
	"time"

	"collateral-lending/internal/domain/account"
	"collateral-lending/internal/domain/event"
	"collateral-lending/internal/domain/lending"
	"collateral-lending/internal/domain/transfer"
	"collateral-lending/internal/domain/uow"
	"collateral-lending/internal/infrastructure/metrics"
	"collateral-lending/internal/usecase/view"
	"collateral-lending/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	uow     uow.UnitOfWork
	ledger  *lending.Ledger
	events  event.Sink
	metrics *metrics.LendingMetrics
	units   view.Units
	now     func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, ledger *lending.Ledger, sink event.Sink, m *metrics.LendingMetrics, units view.Units) *Usecase {
	if sink == nil {
		sink = event.Discard{}
	}
	return &Usecase{uow: tx, ledger: ledger, events: sink, metrics: m, units: units, now: time.Now}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Repay applies a payment from the owner's stable balance to one loan. A
// payment equal to the total owed closes the loan and frees its collateral;
// a smaller one reduces it, interest first.
func (u *Usecase) Repay(ctx context.Context, in RepayInput) (*RepaymentDTO, error) {
	now := u.now().UTC()

	var res lending.Repayment
	err := u.uow.WithinAccountTx(ctx, in.OwnerID, func(r uow.Repos, a *account.BorrowerAccount) error {
		var err error
		res, err = u.ledger.Repay(a, lending.RepayRequest{Caller: in.Caller, LoanID: in.LoanID, Amount: in.Amount}, now)
		if err != nil {
			return err
		}
		if in.Amount == 0 {
			return nil
		}

		full := res.Outcome.Settlement == lending.FullSettlement
		if full {
			err = r.Loans.Close(ctx, &res.Loan)
		} else {
			err = r.Loans.Save(ctx, &res.Loan)
		}
		if err != nil {
			return err
		}
		if err := r.Accounts.Save(ctx, a); err != nil {
			return err
		}

		moves := []transfer.Transfer{
			{Asset: transfer.AssetStable, Direction: transfer.DirectionOut, Amount: in.Amount, Reason: transfer.ReasonRepayment},
		}
		if full {
			moves = append(moves, transfer.Transfer{
				Asset: transfer.AssetCollateral, Direction: transfer.DirectionIn,
				Amount: res.Outcome.CollateralToRelease, Reason: transfer.ReasonRelease,
			})
		}
		for _, t := range moves {
			t.TransferID = id.NewID32()
			t.OwnerID = a.OwnerID
			t.LoanID = in.LoanID
			if err := r.Transfers.Create(ctx, &t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = lending.ErrAccountNotFound
		}
		u.metrics.ObserveError("repay", lending.Code(err))
		return nil, err
	}

	out := res.Outcome
	closed := out.Settlement == lending.FullSettlement
	if in.Amount > 0 {
		u.metrics.ObserveRepayment(string(out.Settlement), closed)
		evType := event.LoanReduced
		if closed {
			evType = event.LoanClosed
		}
		u.events.Emit(ctx, event.Event{
			Type:       evType,
			OwnerID:    res.Loan.BorrowerID,
			LoanID:     res.Loan.LoanID,
			Amount:     in.Amount,
			RateBps:    res.Loan.RateBps,
			Collateral: out.CollateralToRelease,
			At:         now,
		})
	}

	loanDTO := view.Loan(res.Loan, u.units)
	if !closed {
		if loanDTO, err = view.LoanOwed(res.Loan, u.units, now); err != nil {
			return nil, err
		}
	}
	return &RepaymentDTO{
		Settlement:         string(out.Settlement),
		Payment:            out.Payment,
		OwedBefore:         out.Owed.Total,
		InterestPaid:       out.InterestPaid,
		PrincipalPaid:      out.PrincipalPaid,
		CollateralReleased: out.CollateralToRelease,
		CollateralDisplay:  u.units.C(out.CollateralToRelease),
		Loan:               loanDTO,
		RepaidAt:           now,
	}, nil
}
