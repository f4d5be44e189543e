package event

import (
	"context"
	"time"
)

type Type string

const (
	AccountOpened       Type = "account.opened"
	CollateralDeposited Type = "collateral.deposited"
	CollateralWithdrawn Type = "collateral.withdrawn"
	StableDeposited     Type = "stable.deposited"
	StableWithdrawn     Type = "stable.withdrawn"
	LoanOpened          Type = "loan.opened"
	LoanReduced         Type = "loan.reduced"
	LoanClosed          Type = "loan.closed"
)

// Event describes a committed ledger change. Amount is the moved or borrowed
// quantity; the loan fields are zero for account-level events.
type Event struct {
	Type       Type      `json:"type"`
	OwnerID    string    `json:"owner_id"`
	LoanID     uint64    `json:"loan_id,omitempty"`
	Amount     uint64    `json:"amount"`
	RateBps    uint16    `json:"rate_bps,omitempty"`
	Collateral uint64    `json:"collateral,omitempty"`
	At         time.Time `json:"at"`
}

// Sink receives events after the transaction that produced them committed.
// Emit must not block the caller for long and cannot fail the operation.
type Sink interface {
	Emit(ctx context.Context, e Event)
}

type Discard struct{}

func (Discard) Emit(context.Context, Event) {}
