// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package allocation

import (
	"math/big"

	"github.com/vechain/stakeledger/ledger"
)

// Status of an allocation in its lifecycle.
type Status uint8

const (
	StatusNull Status = iota
	StatusActive
	StatusClosed
	StatusFinalized
	StatusClaimed
)

func (s Status) String() string {
	switch s {
	case StatusNull:
		return "null"
	case StatusActive:
		return "active"
	case StatusClosed:
		return "closed"
	case StatusFinalized:
		return "finalized"
	case StatusClaimed:
		return "claimed"
	default:
		return "unknown"
	}
}

// Allocation binds indexer stake to a workload.
type Allocation struct {
	Indexer             ledger.Address
	WorkloadID          ledger.Bytes32
	Tokens              *big.Int
	CreatedAtEpoch      uint64
	ClosedAtEpoch       uint64 // zero while active, closing requires at least one epoch
	CollectedFees       *big.Int
	EffectiveAllocation *big.Int
	Claimed             bool // tombstone, the identifier can never be used again
}

func (a *Allocation) normalize() {
	if a.Tokens == nil {
		a.Tokens = new(big.Int)
	}
	if a.CollectedFees == nil {
		a.CollectedFees = new(big.Int)
	}
	if a.EffectiveAllocation == nil {
		a.EffectiveAllocation = new(big.Int)
	}
}

// IsEmpty returns whether the identifier was never used.
func (a *Allocation) IsEmpty() bool {
	return a.Indexer.IsZero()
}

// Status derives the lifecycle status, given the epochs elapsed since the allocation was closed
// and the dispute window.
func (a *Allocation) Status(epochsSinceClosed, disputeEpochs uint64) Status {
	switch {
	case a.IsEmpty():
		return StatusNull
	case a.Claimed:
		return StatusClaimed
	case a.ClosedAtEpoch == 0:
		return StatusActive
	case epochsSinceClosed >= disputeEpochs:
		return StatusFinalized
	default:
		return StatusClosed
	}
}

// Tombstone zeroes every field but the indexer and marks the allocation claimed.
func (a *Allocation) Tombstone() {
	*a = Allocation{
		Indexer:             a.Indexer,
		Tokens:              new(big.Int),
		CollectedFees:       new(big.Int),
		EffectiveAllocation: new(big.Int),
		Claimed:             true,
	}
}

// EffectiveAllocation returns tokens weighted by the epochs they were allocated for,
// capped to maxEpochs when it is not zero.
func EffectiveAllocation(tokens *big.Int, epochs, maxEpochs uint64) *big.Int {
	if maxEpochs > 0 && epochs > maxEpochs {
		epochs = maxEpochs
	}
	return new(big.Int).Mul(tokens, new(big.Int).SetUint64(epochs))
}
