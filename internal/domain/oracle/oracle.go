package oracle

import (
	"context"
	"fmt"
	"time"

	"collateral-lending/internal/domain/lending"

	"github.com/holiman/uint256"
)

// Reading is one collateral price observation, in stable base units per
// whole collateral unit. Confidence is the +/- band around Price.
type Reading struct {
	Price       uint64    `json:"price"`
	Confidence  uint64    `json:"confidence"`
	PublishedAt time.Time `json:"published_at"`
}

type Oracle interface {
	Price(ctx context.Context, now time.Time) (Reading, error)
}

// Policy bounds which readings are usable for admission. Zero MaxStaleness
// or MaxConfidenceBps disables that check; MaxSkew is always applied, so
// zero tolerates no reading published after now.
type Policy struct {
	MaxStaleness     time.Duration
	MaxSkew          time.Duration
	MaxConfidenceBps uint64
}

func (p Policy) Validate(r Reading, now time.Time) error {
	if r.Price == 0 {
		return fmt.Errorf("%w: zero price", lending.ErrInvalidPrice)
	}
	if p.MaxStaleness > 0 && now.Sub(r.PublishedAt) > p.MaxStaleness {
		return fmt.Errorf("%w: published %s, older than %s", lending.ErrInvalidPrice, r.PublishedAt.UTC().Format(time.RFC3339), p.MaxStaleness)
	}
	if r.PublishedAt.After(now.Add(p.MaxSkew)) {
		return fmt.Errorf("%w: published in the future", lending.ErrInvalidPrice)
	}
	if p.MaxConfidenceBps > 0 {
		band := new(uint256.Int).Mul(uint256.NewInt(r.Confidence), uint256.NewInt(lending.BasisPointsDenominator))
		limit := new(uint256.Int).Mul(uint256.NewInt(r.Price), uint256.NewInt(p.MaxConfidenceBps))
		if band.Gt(limit) {
			return fmt.Errorf("%w: confidence %d too wide for price %d", lending.ErrInvalidPrice, r.Confidence, r.Price)
		}
	}
	return nil
}

type checked struct {
	src    Oracle
	policy Policy
}

// Checked wraps src so that every reading it returns passed policy.
func Checked(src Oracle, policy Policy) Oracle {
	return checked{src: src, policy: policy}
}

func (c checked) Price(ctx context.Context, now time.Time) (Reading, error) {
	r, err := c.src.Price(ctx, now)
	if err != nil {
		return Reading{}, err
	}
	if err := c.policy.Validate(r, now); err != nil {
		return Reading{}, err
	}
	return r, nil
}
