// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint implements unsigned fixed point arithmetic with 18 decimals,
// enough to evaluate the rebate payout function deterministically.
package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// MaxExponent bounds the argument of Exp. Beyond it e^-x is treated as zero.
const MaxExponent = 40

var (
	// One is 1.0 in fixed point.
	One = uint256.NewInt(1e18)
	// E is Euler's number in fixed point, truncated.
	E = uint256.NewInt(2718281828459045235)

	maxExponent = new(uint256.Int).Mul(uint256.NewInt(MaxExponent), One)
	oneSquared  = new(uint256.Int).Mul(One, One)
)

// FromRatio returns num/den in fixed point, rounded down.
func FromRatio(num, den *big.Int) (*uint256.Int, error) {
	if den.Sign() <= 0 {
		return nil, errors.New("non-positive denominator")
	}
	if num.Sign() < 0 {
		return nil, errors.New("negative numerator")
	}
	v := new(big.Int).Mul(num, One.ToBig())
	v.Quo(v, den)
	r, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errors.New("ratio overflows")
	}
	return r, nil
}

// Mul returns x*y in fixed point, rounded down.
func Mul(x, y *uint256.Int) *uint256.Int {
	r, _ := new(uint256.Int).MulDivOverflow(x, y, One)
	return r
}

// Div returns x/y in fixed point, rounded down. y must not be zero.
func Div(x, y *uint256.Int) *uint256.Int {
	r, _ := new(uint256.Int).MulDivOverflow(x, One, y)
	return r
}

// Exp returns e^x for x in [0, MaxExponent].
// The integer part is raised by repeated multiplication, the fraction by its Taylor series.
func Exp(x *uint256.Int) (*uint256.Int, error) {
	if x.Gt(maxExponent) {
		return nil, errors.Errorf("exponent %v exceeds %d", x.Dec(), MaxExponent)
	}
	n := new(uint256.Int).Div(x, One).Uint64()
	frac := new(uint256.Int).Mod(x, One)

	whole := new(uint256.Int).Set(One)
	for i := uint64(0); i < n; i++ {
		whole = Mul(whole, E)
	}

	// e^frac = sum frac^k / k!
	sum := new(uint256.Int).Set(One)
	term := new(uint256.Int).Set(One)
	for k := uint64(1); !term.IsZero(); k++ {
		term = Mul(term, frac)
		term.Div(term, uint256.NewInt(k))
		sum.Add(sum, term)
	}
	return Mul(whole, sum), nil
}

// ExpNeg returns e^-x for x in [0, MaxExponent].
func ExpNeg(x *uint256.Int) (*uint256.Int, error) {
	ex, err := Exp(x)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Div(oneSquared, ex), nil
}
