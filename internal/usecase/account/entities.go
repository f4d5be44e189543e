package account

import "collateral-lending/internal/domain/transfer"

type MoveInput struct {
	Caller  string
	OwnerID string
	Asset   transfer.Asset
	Amount  uint64
}
