// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math"
	"math/big"

	gethmath "github.com/ethereum/go-ethereum/common/math"
)

// Stake is the bookkeeping of an indexer's own tokens.
type Stake struct {
	TokensStaked      *big.Int // tokens deposited, including locked ones
	TokensAllocated   *big.Int // tokens committed to open allocations
	TokensLocked      *big.Int // tokens thawing towards withdrawal
	TokensLockedUntil uint64   // epoch from which locked tokens can be withdrawn
}

func newStake() *Stake {
	return &Stake{
		TokensStaked:    new(big.Int),
		TokensAllocated: new(big.Int),
		TokensLocked:    new(big.Int),
	}
}

func (s *Stake) normalize() {
	if s.TokensStaked == nil {
		s.TokensStaked = new(big.Int)
	}
	if s.TokensAllocated == nil {
		s.TokensAllocated = new(big.Int)
	}
	if s.TokensLocked == nil {
		s.TokensLocked = new(big.Int)
	}
}

// HasStake returns whether any tokens are staked.
func (s *Stake) HasStake() bool {
	return s.TokensStaked.Sign() > 0
}

// Used returns the tokens either allocated or locked.
func (s *Stake) Used() *big.Int {
	return new(big.Int).Add(s.TokensAllocated, s.TokensLocked)
}

// SecureStake returns the staked tokens which are not thawing.
func (s *Stake) SecureStake() *big.Int {
	return new(big.Int).Sub(s.TokensStaked, s.TokensLocked)
}

// Available returns staked - allocated - locked. It is negative when the indexer is over-allocated.
func (s *Stake) Available() *big.Int {
	return s.AvailableWithDelegation(new(big.Int))
}

// AvailableWithDelegation is Available with delegatedCapacity added to the staked tokens.
func (s *Stake) AvailableWithDelegation(delegatedCapacity *big.Int) *big.Int {
	capacity := new(big.Int).Add(s.TokensStaked, delegatedCapacity)
	return capacity.Sub(capacity, s.Used())
}

// Withdrawable returns the locked tokens if the lock has expired at epoch now.
func (s *Stake) Withdrawable(now uint64) *big.Int {
	if s.TokensLockedUntil == 0 || now < s.TokensLockedUntil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.TokensLocked)
}

func (s *Stake) Deposit(amount *big.Int) {
	s.TokensStaked.Add(s.TokensStaked, amount)
}

// Release removes amount from the staked tokens.
func (s *Stake) Release(amount *big.Int) {
	s.TokensStaked.Sub(s.TokensStaked, amount)
}

func (s *Stake) Allocate(amount *big.Int) {
	s.TokensAllocated.Add(s.TokensAllocated, amount)
}

func (s *Stake) Unallocate(amount *big.Int) {
	s.TokensAllocated.Sub(s.TokensAllocated, amount)
}

// LockTokens moves amount into the thawing bucket. The unlock epoch is the average of the
// remaining lock of tokens already thawing and period for the new amount, weighted by tokens
// and rounded up. It never moves before the previous unlock epoch.
func (s *Stake) LockTokens(amount *big.Int, period, now uint64) {
	lockingPeriod := period
	if s.TokensLocked.Sign() > 0 {
		var remaining uint64
		if s.TokensLockedUntil > now {
			remaining = s.TokensLockedUntil - now
		}
		lockingPeriod = WeightedAverageRoundingUp(remaining, s.TokensLocked, period, amount)
	}

	until, overflow := gethmath.SafeAdd(now, lockingPeriod)
	if overflow {
		until = math.MaxUint64
	}
	if until < s.TokensLockedUntil {
		until = s.TokensLockedUntil
	}
	s.TokensLocked.Add(s.TokensLocked, amount)
	s.TokensLockedUntil = until
}

// UnlockTokens takes amount out of the thawing bucket, back into the secure stake.
func (s *Stake) UnlockTokens(amount *big.Int) {
	s.TokensLocked.Sub(s.TokensLocked, amount)
	if s.TokensLocked.Sign() == 0 {
		s.TokensLockedUntil = 0
	}
}

// WithdrawTokens releases the locked tokens if the lock has expired and returns them.
func (s *Stake) WithdrawTokens(now uint64) *big.Int {
	amount := s.Withdrawable(now)
	if amount.Sign() == 0 {
		return amount
	}
	s.Release(amount)
	s.TokensLocked = new(big.Int)
	s.TokensLockedUntil = 0
	return amount
}

// WeightedAverageRoundingUp returns ceil((valueA*weightA + valueB*weightB) / (weightA+weightB)).
func WeightedAverageRoundingUp(valueA uint64, weightA *big.Int, valueB uint64, weightB *big.Int) uint64 {
	total := new(big.Int).Add(weightA, weightB)
	if total.Sign() == 0 {
		return 0
	}
	sum := new(big.Int).Mul(new(big.Int).SetUint64(valueA), weightA)
	sum.Add(sum, new(big.Int).Mul(new(big.Int).SetUint64(valueB), weightB))
	sum.Add(sum, total)
	sum.Sub(sum, big.NewInt(1))
	return sum.Quo(sum, total).Uint64()
}
