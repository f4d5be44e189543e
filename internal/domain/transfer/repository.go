package transfer

import "context"

type Repository interface {
	Create(ctx context.Context, t *Transfer) error
	ListByOwnerID(ctx context.Context, ownerID string) ([]Transfer, error)
}
