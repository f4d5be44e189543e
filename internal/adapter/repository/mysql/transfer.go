package mysql

import (
	"context"

	transferDomain "collateral-lending/internal/domain/transfer"

	"gorm.io/gorm"
)

type TransferRepository struct{ db *gorm.DB }

func NewTransferRepository(db *gorm.DB) *TransferRepository { return &TransferRepository{db: db} }

func (r *TransferRepository) Create(ctx context.Context, t *transferDomain.Transfer) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// ListByOwnerID returns the owner's journal oldest first.
func (r *TransferRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]transferDomain.Transfer, error) {
	var out []transferDomain.Transfer
	res := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
