package accountmock

import (
	"context"

	domain "collateral-lending/internal/domain/account"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                func(ctx context.Context, a *domain.BorrowerAccount) error
	SaveFn                  func(ctx context.Context, a *domain.BorrowerAccount) error
	GetByOwnerIDFn          func(ctx context.Context, ownerID string) (*domain.BorrowerAccount, error)
	GetByOwnerIDForUpdateFn func(ctx context.Context, ownerID string) (*domain.BorrowerAccount, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.BorrowerAccount) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, a *domain.BorrowerAccount) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByOwnerID(ctx context.Context, ownerID string) (*domain.BorrowerAccount, error) {
	if m.GetByOwnerIDFn != nil {
		return m.GetByOwnerIDFn(ctx, ownerID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByOwnerIDForUpdate(ctx context.Context, ownerID string) (*domain.BorrowerAccount, error) {
	if m.GetByOwnerIDForUpdateFn != nil {
		return m.GetByOwnerIDForUpdateFn(ctx, ownerID)
	}
	return nil, context.Canceled
}
