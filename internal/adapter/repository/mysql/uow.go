package mysql

import (
	"context"

	"collateral-lending/internal/domain/account"
	"collateral-lending/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Accounts:  &AccountRepository{db: tx},
		Loans:     &LoanRepository{db: tx},
		Transfers: &TransferRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinAccountTx(ctx context.Context, ownerID string, fn func(r uow.Repos, a *account.BorrowerAccount) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// the account row serializes every mutation of the owner's ledger
		a, err := r.Accounts.GetByOwnerIDForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}
		return fn(r, a)
	})
}
