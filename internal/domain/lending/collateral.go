package lending

import (
	"fmt"

	"github.com/holiman/uint256"
)

// maxAssetDecimals keeps 10^decimals inside uint64.
const maxAssetDecimals = 19

var bpsDenominator = uint256.NewInt(BasisPointsDenominator)

// UnitScale returns 10^decimals, the number of native units in one whole
// unit of an asset.
func UnitScale(decimals uint8) (uint64, error) {
	if decimals > maxAssetDecimals {
		return 0, fmt.Errorf("%w: %d decimals", ErrOverflow, decimals)
	}
	scale := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		scale *= 10
	}
	return scale, nil
}

// RequiredCollateral computes the minimum collateral, in native collateral
// units, for borrowing principal at the given LTV:
//
//	ceil(principal * 10^decimals * 10_000 / (ltvBps * price))
//
// price is stable-asset native units per one whole collateral unit. The
// result is rounded up so an admitted pledge is always sufficient.
func RequiredCollateral(principal, ltvBps, price uint64, collateralDecimals uint8) (uint64, error) {
	if price == 0 {
		return 0, ErrInvalidPrice
	}
	if ltvBps == 0 {
		return 0, ErrUnknownRate
	}
	scale, err := UnitScale(collateralDecimals)
	if err != nil {
		return 0, err
	}

	num, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(principal), uint256.NewInt(scale))
	if overflow {
		return 0, ErrOverflow
	}
	if _, overflow = num.MulOverflow(num, bpsDenominator); overflow {
		return 0, ErrOverflow
	}
	den, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(ltvBps), uint256.NewInt(price))
	if overflow {
		return 0, ErrOverflow
	}

	q := new(uint256.Int).Div(num, den)
	if !new(uint256.Int).Mod(num, den).IsZero() {
		q.AddUint64(q, 1)
	}
	if !q.IsUint64() {
		return 0, ErrOverflow
	}
	return q.Uint64(), nil
}

// CollateralFor looks rateBps up in the table and returns the required
// collateral at price.
func (rt RateTable) CollateralFor(principal uint64, rateBps uint16, price uint64, collateralDecimals uint8) (uint64, error) {
	ltv, err := rt.Lookup(rateBps)
	if err != nil {
		return 0, err
	}
	return RequiredCollateral(principal, ltv, price, collateralDecimals)
}
