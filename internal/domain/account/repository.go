package account

import "context"

type Repository interface {
	Create(ctx context.Context, a *BorrowerAccount) error

	// Save persists balances and the loan sequence only; loans are written
	// through loan.Repository.
	Save(ctx context.Context, a *BorrowerAccount) error

	// Get by owner identity, open loans preloaded in creation order
	GetByOwnerID(ctx context.Context, ownerID string) (*BorrowerAccount, error)

	// Same as GetByOwnerID but locks the account row until the tx ends
	GetByOwnerIDForUpdate(ctx context.Context, ownerID string) (*BorrowerAccount, error)
}
