// Package amount converts between integer base units and decimal strings.
package amount

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var ErrInvalid = errors.New("amount: invalid")

// Format renders units with decimals fractional digits, e.g. 1500000 with 6
// decimals is "1.500000".
func Format(units uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -int32(decimals)).StringFixed(int32(decimals))
}

// Parse reads a non-negative decimal string into base units. More fractional
// digits than decimals is an error rather than a silent truncation.
func Parse(s string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalid, s)
	}
	units := d.Shift(int32(decimals))
	if !units.Equal(units.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalid, s, decimals)
	}
	bi := units.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalid, s)
	}
	return bi.Uint64(), nil
}
