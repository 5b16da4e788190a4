// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"math/big"

	gethmath "github.com/ethereum/go-ethereum/common/math"
)

// Pool is the collateral delegated to one indexer.
type Pool struct {
	Tokens            *big.Int // net delegated tokens, including query fee rewards
	Shares            *big.Int // total shares outstanding
	IndexingRewardCut uint32   // ppm of indexing rewards kept by the indexer
	QueryFeeCut       uint32   // ppm of query fee rebates kept by the indexer
	CooldownEpochs    uint64   // epochs before the parameters can change again
	UpdatedAtEpoch    uint64
	Configured        bool // parameters have been set at least once
}

func (p *Pool) normalize() {
	if p.Tokens == nil {
		p.Tokens = new(big.Int)
	}
	if p.Shares == nil {
		p.Shares = new(big.Int)
	}
}

// SharesFor returns the shares minted for tokens at the current share price.
func (p *Pool) SharesFor(tokens *big.Int) *big.Int {
	if p.Tokens.Sign() == 0 {
		return new(big.Int).Set(tokens)
	}
	shares := new(big.Int).Mul(tokens, p.Shares)
	return shares.Quo(shares, p.Tokens)
}

// TokensFor returns the tokens redeemed for shares at the current share price.
func (p *Pool) TokensFor(shares *big.Int) *big.Int {
	if p.Shares.Sign() == 0 {
		return new(big.Int)
	}
	tokens := new(big.Int).Mul(shares, p.Tokens)
	return tokens.Quo(tokens, p.Shares)
}

// CooldownEnded returns whether the parameters may be changed at epoch now.
func (p *Pool) CooldownEnded(now uint64) bool {
	if !p.Configured {
		return true
	}
	end, overflow := gethmath.SafeAdd(p.UpdatedAtEpoch, p.CooldownEpochs)
	return !overflow && now >= end
}

// Delegation is one delegator's position in an indexer's pool.
type Delegation struct {
	Shares            *big.Int
	TokensLocked      *big.Int // undelegated tokens waiting for the unbonding period
	TokensLockedUntil uint64
}

func (d *Delegation) normalize() {
	if d.Shares == nil {
		d.Shares = new(big.Int)
	}
	if d.TokensLocked == nil {
		d.TokensLocked = new(big.Int)
	}
}

// IsEmpty returns whether the entry can be treated as empty.
func (d *Delegation) IsEmpty() bool {
	return (d.Shares == nil || d.Shares.Sign() == 0) &&
		(d.TokensLocked == nil || d.TokensLocked.Sign() == 0) &&
		d.TokensLockedUntil == 0
}

// Withdrawable returns the locked tokens if they are unbonded at epoch now.
func (d *Delegation) Withdrawable(now uint64) *big.Int {
	if d.TokensLockedUntil == 0 || now < d.TokensLockedUntil {
		return new(big.Int)
	}
	return new(big.Int).Set(d.TokensLocked)
}
