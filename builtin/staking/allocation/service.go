// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package allocation

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/storage"
	"github.com/vechain/stakeledger/ledger"
)

var slotAllocations = ledger.BytesToBytes32([]byte("allocations"))

type Service struct {
	allocations *storage.Mapping[ledger.Address, *Allocation]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		allocations: storage.NewMapping[ledger.Address, *Allocation](sctx, slotAllocations),
	}
}

// GetAllocation returns the allocation, zero valued if the identifier was never used.
func (s *Service) GetAllocation(id ledger.Address) (*Allocation, error) {
	alloc, err := s.allocations.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allocation")
	}
	alloc.normalize()
	return alloc, nil
}

func (s *Service) SetAllocation(id ledger.Address, alloc *Allocation) error {
	if err := s.allocations.Set(id, alloc); err != nil {
		return errors.Wrap(err, "failed to set allocation")
	}
	return nil
}

// Add records a new active allocation.
func (s *Service) Add(id, indexer ledger.Address, workload ledger.Bytes32, tokens *big.Int, now uint64) (*Allocation, error) {
	alloc := &Allocation{
		Indexer:             indexer,
		WorkloadID:          workload,
		Tokens:              new(big.Int).Set(tokens),
		CreatedAtEpoch:      now,
		CollectedFees:       new(big.Int),
		EffectiveAllocation: new(big.Int),
	}
	if err := s.SetAllocation(id, alloc); err != nil {
		return nil, err
	}
	return alloc, nil
}

// Close sets the closing epoch and effective allocation of an active allocation.
func (s *Service) Close(id ledger.Address, alloc *Allocation, now, maxEpochs uint64) error {
	var epochs uint64
	if now > alloc.CreatedAtEpoch {
		epochs = now - alloc.CreatedAtEpoch
	}
	alloc.EffectiveAllocation = EffectiveAllocation(alloc.Tokens, epochs, maxEpochs)
	alloc.ClosedAtEpoch = now
	return s.SetAllocation(id, alloc)
}

// AddFees adds collected query fees to the allocation.
func (s *Service) AddFees(id ledger.Address, alloc *Allocation, fees *big.Int) error {
	alloc.CollectedFees.Add(alloc.CollectedFees, fees)
	return s.SetAllocation(id, alloc)
}

// Claim tombstones the allocation.
func (s *Service) Claim(id ledger.Address, alloc *Allocation) error {
	alloc.Tombstone()
	return s.SetAllocation(id, alloc)
}
