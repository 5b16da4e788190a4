// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rebate

import (
	"math/big"

	"github.com/vechain/stakeledger/fixedpoint"
)

// Pool accumulates the fees of allocations closed in the same epoch.
// The rebate ratios are snapshotted when the first allocation settles into the pool.
type Pool struct {
	Fees                      *big.Int
	EffectiveAllocatedStake   *big.Int
	ClaimedRewards            *big.Int
	UnclaimedAllocationsCount uint64
	AlphaNumerator            uint32
	AlphaDenominator          uint32
	LambdaNumerator           uint32
	LambdaDenominator         uint32
}

func (p *Pool) normalize() {
	if p.Fees == nil {
		p.Fees = new(big.Int)
	}
	if p.EffectiveAllocatedStake == nil {
		p.EffectiveAllocatedStake = new(big.Int)
	}
	if p.ClaimedRewards == nil {
		p.ClaimedRewards = new(big.Int)
	}
}

// IsEmpty returns whether the pool was never initialized.
func (p *Pool) IsEmpty() bool {
	return p.AlphaDenominator == 0 && p.LambdaDenominator == 0
}

func (p *Pool) Alpha() fixedpoint.Ratio {
	return fixedpoint.Ratio{
		Numerator:   new(big.Int).SetUint64(uint64(p.AlphaNumerator)),
		Denominator: new(big.Int).SetUint64(uint64(p.AlphaDenominator)),
	}
}

func (p *Pool) Lambda() fixedpoint.Ratio {
	return fixedpoint.Ratio{
		Numerator:   new(big.Int).SetUint64(uint64(p.LambdaNumerator)),
		Denominator: new(big.Int).SetUint64(uint64(p.LambdaDenominator)),
	}
}

// Outstanding returns the fees not claimed yet.
func (p *Pool) Outstanding() *big.Int {
	out := new(big.Int).Sub(p.Fees, p.ClaimedRewards)
	if out.Sign() < 0 {
		return new(big.Int)
	}
	return out
}

// Redeem returns the rebate of an allocation with the given fees and effective allocation,
// never more than the outstanding fees, and records it as claimed.
func (p *Pool) Redeem(fees, effectiveAllocation *big.Int) (*big.Int, error) {
	payout, err := fixedpoint.Payout(fees, effectiveAllocation, p.Alpha(), p.Lambda())
	if err != nil {
		return nil, err
	}
	if outstanding := p.Outstanding(); payout.Cmp(outstanding) > 0 {
		payout = outstanding
	}
	p.ClaimedRewards.Add(p.ClaimedRewards, payout)
	if p.UnclaimedAllocationsCount > 0 {
		p.UnclaimedAllocationsCount--
	}
	return payout, nil
}
