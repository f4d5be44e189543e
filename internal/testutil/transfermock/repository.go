package transfermock

import (
	"context"
	"sync"

	domain "collateral-lending/internal/domain/transfer"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository. Without a
// CreateFn it keeps created transfers in Created.
type Repo struct {
	CreateFn        func(ctx context.Context, t *domain.Transfer) error
	ListByOwnerIDFn func(ctx context.Context, ownerID string) ([]domain.Transfer, error)

	mu      sync.Mutex
	Created []domain.Transfer
}

func (m *Repo) Create(ctx context.Context, t *domain.Transfer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, *t)
	return nil
}

func (m *Repo) ListByOwnerID(ctx context.Context, ownerID string) ([]domain.Transfer, error) {
	if m.ListByOwnerIDFn != nil {
		return m.ListByOwnerIDFn(ctx, ownerID)
	}
	return nil, context.Canceled
}
