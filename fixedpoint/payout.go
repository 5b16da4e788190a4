// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"math/big"

	"github.com/pkg/errors"
)

// Ratio is an exact rational parameter.
type Ratio struct {
	Numerator   *big.Int
	Denominator *big.Int
}

func (r Ratio) IsZero() bool {
	return r.Numerator == nil || r.Numerator.Sign() == 0
}

// Payout computes the rebate of an allocation from its fees and effective allocation:
//
//	fees * (1 - alpha * e^(-lambda * effectiveAllocation / fees))
//
// rounded down. Alpha must be within [0, 1]. The result never exceeds fees.
func Payout(fees, effectiveAllocation *big.Int, alpha, lambda Ratio) (*big.Int, error) {
	if alpha.IsZero() {
		return new(big.Int).Set(fees), nil
	}
	if fees.Sign() == 0 {
		return new(big.Int), nil
	}
	if alpha.Denominator.Sign() <= 0 || lambda.Denominator.Sign() <= 0 {
		return nil, errors.New("non-positive denominator")
	}
	if alpha.Numerator.Cmp(alpha.Denominator) > 0 {
		return nil, errors.New("alpha exceeds one")
	}

	// exponent = lambda * effectiveAllocation / fees
	expNum := new(big.Int).Mul(lambda.Numerator, effectiveAllocation)
	expDen := new(big.Int).Mul(lambda.Denominator, fees)
	if new(big.Int).Mul(expDen, big.NewInt(MaxExponent)).Cmp(expNum) < 0 {
		return new(big.Int).Set(fees), nil
	}
	exponent, err := FromRatio(expNum, expDen)
	if err != nil {
		return nil, err
	}
	eNeg, err := ExpNeg(exponent)
	if err != nil {
		return nil, err
	}

	// discount = ceil(fees * alpha * e^-x), rounding toward a smaller payout
	discount := new(big.Int).Mul(fees, alpha.Numerator)
	discount.Mul(discount, eNeg.ToBig())
	den := new(big.Int).Mul(alpha.Denominator, One.ToBig())
	discount.Add(discount, new(big.Int).Sub(den, big.NewInt(1)))
	discount.Quo(discount, den)

	payout := new(big.Int).Sub(fees, discount)
	if payout.Sign() < 0 {
		return new(big.Int), nil
	}
	return payout, nil
}
