package lending

import (
	"time"

	"github.com/holiman/uint256"
)

// SecondsPerYear is the 365-day year used for simple interest.
const SecondsPerYear = 31_536_000

var interestDenominator = new(uint256.Int).Mul(bpsDenominator, uint256.NewInt(SecondsPerYear))

// AccruedInterest is simple interest, truncated toward zero:
//
//	principal * rateBps * elapsed / (10_000 * SecondsPerYear)
func AccruedInterest(principal uint64, rateBps uint16, elapsedSeconds uint64) (uint64, error) {
	if principal == 0 || rateBps == 0 || elapsedSeconds == 0 {
		return 0, nil
	}
	num, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(principal), uint256.NewInt(uint64(rateBps)))
	if overflow {
		return 0, ErrOverflow
	}
	if _, overflow = num.MulOverflow(num, uint256.NewInt(elapsedSeconds)); overflow {
		return 0, ErrOverflow
	}
	q := new(uint256.Int).Div(num, interestDenominator)
	if !q.IsUint64() {
		return 0, ErrOverflow
	}
	return q.Uint64(), nil
}

// ElapsedSeconds is whole seconds from since to now; zero when the clock has
// not moved forward.
func ElapsedSeconds(since, now time.Time) uint64 {
	d := now.Unix() - since.Unix()
	if d <= 0 {
		return 0
	}
	return uint64(d)
}

// Owed is a loan's valuation at a point in time. Interest includes Carried,
// the unpaid interest brought forward from before the accrual baseline.
type Owed struct {
	Principal uint64 `json:"principal"`
	Interest  uint64 `json:"interest"`
	Carried   uint64 `json:"carried_interest"`
	Total     uint64 `json:"total"`
	Elapsed   uint64 `json:"elapsed_seconds"`
}

// TotalOwed values a loan of principal at rateBps whose accrual baseline is
// accruedFrom.
func TotalOwed(principal uint64, rateBps uint16, accruedFrom, now time.Time) (Owed, error) {
	elapsed := ElapsedSeconds(accruedFrom, now)
	interest, err := AccruedInterest(principal, rateBps, elapsed)
	if err != nil {
		return Owed{}, err
	}
	total, err := addChecked(principal, interest)
	if err != nil {
		return Owed{}, err
	}
	return Owed{Principal: principal, Interest: interest, Total: total, Elapsed: elapsed}, nil
}

func addChecked(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrOverflow
	}
	return sum, nil
}
