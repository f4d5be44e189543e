package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "collateral-lending/internal/domain/account"
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
	accounts  domain.Repository
	transfers transfer.Repository
	uow       uow.UnitOfWork
	events    event.Sink
	metrics   *metrics.LendingMetrics
	units     view.Units
	now       func() time.Time
}

func NewUsecase(accounts domain.Repository, transfers transfer.Repository, tx uow.UnitOfWork, sink event.Sink, m *metrics.LendingMetrics, units view.Units) *Usecase {
	if sink == nil {
		sink = event.Discard{}
	}
	return &Usecase{accounts: accounts, transfers: transfers, uow: tx, events: sink, metrics: m, units: units, now: time.Now}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Open creates the caller's empty account.
func (u *Usecase) Open(ctx context.Context, ownerID string) (*view.AccountDTO, error) {
	a := &domain.BorrowerAccount{OwnerID: ownerID}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, err := r.Accounts.GetByOwnerID(ctx, ownerID)
		switch {
		case err == nil:
			return lending.ErrAccountExists
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		if err := r.Accounts.Create(ctx, a); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return lending.ErrAccountExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		u.metrics.ObserveError("open_account", lending.Code(err))
		return nil, err
	}

	u.events.Emit(ctx, event.Event{Type: event.AccountOpened, OwnerID: ownerID, At: u.now().UTC()})
	dto := view.Account(a, u.units)
	return &dto, nil
}

func (u *Usecase) Get(ctx context.Context, caller, ownerID string) (*view.AccountDTO, error) {
	a, err := u.accounts.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, accountErr(err)
	}
	if err := lending.AuthorizeOwner(a, caller); err != nil {
		return nil, err
	}
	dto := view.Account(a, u.units)
	return &dto, nil
}

func (u *Usecase) Deposit(ctx context.Context, in MoveInput) (*view.AccountDTO, error) {
	return u.move(ctx, in, transfer.DirectionIn)
}

func (u *Usecase) Withdraw(ctx context.Context, in MoveInput) (*view.AccountDTO, error) {
	return u.move(ctx, in, transfer.DirectionOut)
}

func (u *Usecase) move(ctx context.Context, in MoveInput, dir transfer.Direction) (*view.AccountDTO, error) {
	apply, evType, err := movement(in.Asset, dir)
	if err != nil {
		return nil, err
	}
	op := string(evType)

	var dto view.AccountDTO
	err = u.uow.WithinAccountTx(ctx, in.OwnerID, func(r uow.Repos, a *domain.BorrowerAccount) error {
		if err := lending.AuthorizeOwner(a, in.Caller); err != nil {
			return err
		}
		if err := apply(a, in.Amount); err != nil {
			return err
		}
		if err := r.Accounts.Save(ctx, a); err != nil {
			return err
		}
		reason := transfer.ReasonDeposit
		if dir == transfer.DirectionOut {
			reason = transfer.ReasonWithdrawal
		}
		if err := r.Transfers.Create(ctx, &transfer.Transfer{
			TransferID: id.NewID32(),
			OwnerID:    a.OwnerID,
			Asset:      in.Asset,
			Direction:  dir,
			Amount:     in.Amount,
			Reason:     reason,
		}); err != nil {
			return err
		}
		dto = view.Account(a, u.units)
		return nil
	})
	if err != nil {
		err = accountErr(err)
		u.metrics.ObserveError(op, lending.Code(err))
		return nil, err
	}

	u.events.Emit(ctx, event.Event{Type: evType, OwnerID: in.OwnerID, Amount: in.Amount, At: u.now().UTC()})
	return &dto, nil
}

// Transfers lists the owner's balance movements oldest first.
func (u *Usecase) Transfers(ctx context.Context, caller, ownerID string) ([]view.TransferDTO, error) {
	a, err := u.accounts.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, accountErr(err)
	}
	if err := lending.AuthorizeOwner(a, caller); err != nil {
		return nil, err
	}
	list, err := u.transfers.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]view.TransferDTO, 0, len(list))
	for _, t := range list {
		out = append(out, view.Transfer(t, u.units))
	}
	return out, nil
}

func movement(asset transfer.Asset, dir transfer.Direction) (func(*domain.BorrowerAccount, uint64) error, event.Type, error) {
	switch {
	case asset == transfer.AssetCollateral && dir == transfer.DirectionIn:
		return lending.DepositCollateral, event.CollateralDeposited, nil
	case asset == transfer.AssetCollateral && dir == transfer.DirectionOut:
		return lending.WithdrawCollateral, event.CollateralWithdrawn, nil
	case asset == transfer.AssetStable && dir == transfer.DirectionIn:
		return lending.DepositStable, event.StableDeposited, nil
	case asset == transfer.AssetStable && dir == transfer.DirectionOut:
		return lending.WithdrawStable, event.StableWithdrawn, nil
	}
	return nil, "", fmt.Errorf("unknown asset %q", asset)
}

func accountErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lending.ErrAccountNotFound
	}
	return err
}
