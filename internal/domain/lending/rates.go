package lending

import "fmt"

// BasisPointsDenominator is the scale of every bps quantity (rates and LTV).
const BasisPointsDenominator = 10_000

// Tier pairs an annual rate with the loan-to-value ratio it allows.
type Tier struct {
	RateBps uint16 `json:"rate_bps"`
	LTVBps  uint64 `json:"ltv_bps"`
}

// DefaultTiers is ordered from the highest rate (and highest LTV) down.
var DefaultTiers = []Tier{
	{RateBps: 800, LTVBps: 5000},
	{RateBps: 500, LTVBps: 3300},
	{RateBps: 100, LTVBps: 2500},
	{RateBps: 0, LTVBps: 2000},
}

// RateTable is a whitelist of tiers. Lookup is exact match only.
type RateTable struct {
	tiers []Tier
}

func NewRateTable(tiers ...Tier) (RateTable, error) {
	if len(tiers) == 0 {
		return RateTable{}, fmt.Errorf("rate table: no tiers")
	}
	seen := make(map[uint16]struct{}, len(tiers))
	out := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		if t.LTVBps == 0 {
			return RateTable{}, fmt.Errorf("rate table: tier %d bps has zero ltv", t.RateBps)
		}
		if _, dup := seen[t.RateBps]; dup {
			return RateTable{}, fmt.Errorf("rate table: duplicate tier %d bps", t.RateBps)
		}
		seen[t.RateBps] = struct{}{}
		out = append(out, t)
	}
	return RateTable{tiers: out}, nil
}

func DefaultRateTable() RateTable {
	rt, err := NewRateTable(DefaultTiers...)
	if err != nil {
		panic(err)
	}
	return rt
}

// Lookup returns the LTV (bps) required for rate, or ErrUnknownRate.
func (rt RateTable) Lookup(rateBps uint16) (uint64, error) {
	for _, t := range rt.tiers {
		if t.RateBps == rateBps {
			return t.LTVBps, nil
		}
	}
	return 0, fmt.Errorf("%w: %d bps", ErrUnknownRate, rateBps)
}

func (rt RateTable) Tiers() []Tier {
	out := make([]Tier, len(rt.tiers))
	copy(out, rt.tiers)
	return out
}
