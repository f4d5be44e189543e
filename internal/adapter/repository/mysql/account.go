package mysql

import (
	"context"

	accountDomain "collateral-lending/internal/domain/account"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

func (r *AccountRepository) Create(ctx context.Context, a *accountDomain.BorrowerAccount) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *AccountRepository) Save(ctx context.Context, a *accountDomain.BorrowerAccount) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *AccountRepository) GetByOwnerID(ctx context.Context, ownerID string) (*accountDomain.BorrowerAccount, error) {
	return r.getByOwnerID(r.db.WithContext(ctx), ownerID)
}

func (r *AccountRepository) GetByOwnerIDForUpdate(ctx context.Context, ownerID string) (*accountDomain.BorrowerAccount, error) {
	return r.getByOwnerID(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), ownerID)
}

func (r *AccountRepository) getByOwnerID(db *gorm.DB, ownerID string) (*accountDomain.BorrowerAccount, error) {
	var out accountDomain.BorrowerAccount
	res := db.
		Preload("Loans", func(db *gorm.DB) *gorm.DB { return db.Order("loan_id ASC") }).
		Where("owner_id = ?", ownerID).
		First(&out)
	return &out, res.Error
}
