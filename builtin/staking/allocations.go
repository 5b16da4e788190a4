// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/stakeledger/builtin/reverts"
	"github.com/vechain/stakeledger/builtin/staking/allocation"
	"github.com/vechain/stakeledger/ledger"
)

// AllocateRequest opens an allocation of tokens to a workload. Proof is the signature by
// the allocation key over the binding to the indexer, see allocation.SignProof.
type AllocateRequest struct {
	Indexer      ledger.Address
	WorkloadID   ledger.Bytes32
	Tokens       *big.Int
	AllocationID ledger.Address
	Proof        []byte
}

// Allocate opens a new allocation on behalf of req.Indexer.
func (e *Engine) Allocate(caller ledger.Address, req AllocateRequest) error {
	logger.Debug("allocating", "caller", caller, "indexer", req.Indexer, "allocationID", req.AllocationID, "tokens", req.Tokens)

	err := e.atomic("allocate", func(p *Parameters) error {
		return e.allocate(caller, req, p)
	})
	if err != nil {
		logger.Info("allocate failed", "allocationID", req.AllocationID, "error", err)
		return err
	}

	logger.Info("allocated", "allocationID", req.AllocationID, "workload", req.WorkloadID)
	return nil
}

// CloseAllocation closes an active allocation and settles it into the rebate pool of the current epoch.
func (e *Engine) CloseAllocation(caller, allocationID ledger.Address) error {
	return e.CloseAllocationMany(caller, []ledger.Address{allocationID})
}

// CloseAllocationMany closes every allocation, or none if any cannot be closed.
func (e *Engine) CloseAllocationMany(caller ledger.Address, allocationIDs []ledger.Address) error {
	logger.Debug("closing allocations", "caller", caller, "count", len(allocationIDs))

	var lifetimes []uint64
	err := e.atomic("close_allocation", func(p *Parameters) error {
		for _, id := range allocationIDs {
			epochs, err := e.closeAllocation(caller, id, p)
			if err != nil {
				return err
			}
			lifetimes = append(lifetimes, epochs)
		}
		return nil
	})
	if err != nil {
		logger.Info("close allocation failed", "error", err)
		return err
	}

	for _, epochs := range lifetimes {
		metricAllocationEpochs().Observe(int64(epochs))
	}
	logger.Info("closed allocations", "count", len(allocationIDs))
	return nil
}

// CloseAndAllocate closes an allocation and opens a new one in a single step.
func (e *Engine) CloseAndAllocate(caller, closingID ledger.Address, req AllocateRequest) error {
	logger.Debug("reallocating", "caller", caller, "closing", closingID, "allocationID", req.AllocationID)

	var lifetime uint64
	err := e.atomic("close_and_allocate", func(p *Parameters) error {
		var err error
		if lifetime, err = e.closeAllocation(caller, closingID, p); err != nil {
			return err
		}
		return e.allocate(caller, req, p)
	})
	if err != nil {
		logger.Info("reallocate failed", "closing", closingID, "error", err)
		return err
	}

	metricAllocationEpochs().Observe(int64(lifetime))
	logger.Info("reallocated", "closed", closingID, "allocationID", req.AllocationID)
	return nil
}

// Collect takes amount of query fees from payer for the allocation. Fees sent to an
// allocation which can no longer pay out are burned.
func (e *Engine) Collect(payer ledger.Address, amount *big.Int, allocationID ledger.Address) error {
	logger.Debug("collecting fees", "payer", payer, "allocationID", allocationID, "amount", amount)

	err := e.atomic("collect", func(p *Parameters) error {
		return e.collect(payer, amount, allocationID, p)
	})
	if err != nil {
		logger.Info("collect failed", "allocationID", allocationID, "error", err)
		return err
	}

	logger.Info("collected fees", "allocationID", allocationID, "amount", amount)
	return nil
}

// Claim pays out the rebate of a finalized allocation, either to the indexer or into its stake.
// Anyone may claim; restake is only honored for the indexer and its operators.
func (e *Engine) Claim(caller, allocationID ledger.Address, restake bool) (*big.Int, error) {
	rebates, err := e.ClaimMany(caller, []ledger.Address{allocationID}, restake)
	if err != nil {
		return nil, err
	}
	return rebates[0], nil
}

// ClaimMany claims every allocation, or none if any cannot be claimed.
// It returns the rebate each allocation paid to its indexer.
func (e *Engine) ClaimMany(caller ledger.Address, allocationIDs []ledger.Address, restake bool) ([]*big.Int, error) {
	logger.Debug("claiming", "caller", caller, "count", len(allocationIDs), "restake", restake)

	var (
		rebates []*big.Int
		delays  []uint64
	)
	err := e.atomic("claim", func(p *Parameters) error {
		for _, id := range allocationIDs {
			rebate, delay, err := e.claim(caller, id, restake, p)
			if err != nil {
				return err
			}
			rebates = append(rebates, rebate)
			delays = append(delays, delay)
		}
		return nil
	})
	if err != nil {
		logger.Info("claim failed", "error", err)
		return nil, err
	}

	for _, delay := range delays {
		metricClaimDelay().Observe(int64(delay))
	}
	logger.Info("claimed", "count", len(allocationIDs), "restake", restake)
	return rebates, nil
}

func (e *Engine) allocate(caller ledger.Address, req AllocateRequest, p *Parameters) error {
	if req.Tokens == nil || req.Tokens.Sign() < 0 {
		return reverts.New(reverts.OutOfBounds, "allocation tokens are negative")
	}
	if err := e.requireAuth(caller, req.Indexer); err != nil {
		return err
	}
	if !allocation.VerifyProof(req.Indexer, req.AllocationID, req.Proof) {
		return reverts.Newf(reverts.InvalidProof, "invalid proof for allocation %v", req.AllocationID)
	}

	existing, err := e.allocationService.GetAllocation(req.AllocationID)
	if err != nil {
		return err
	}
	if !existing.IsEmpty() {
		return reverts.Newf(reverts.IdentifierInUse, "allocation %v already used", req.AllocationID)
	}

	if req.Tokens.Sign() > 0 {
		stake, err := e.stakeService.GetStake(req.Indexer)
		if err != nil {
			return err
		}
		if stake.SecureStake().Cmp(p.MinimumIndexerStake) < 0 {
			return reverts.Newf(reverts.InsufficientStake, "indexer stake below minimum of %s", p.MinimumIndexerStake)
		}
	}
	capacity, err := e.capacity(req.Indexer, p)
	if err != nil {
		return err
	}
	if capacity.Cmp(req.Tokens) < 0 {
		return reverts.Newf(reverts.InsufficientStake, "capacity %s below allocation of %s", capacity, req.Tokens)
	}

	if err := e.stakeService.Allocate(req.Indexer, req.Tokens); err != nil {
		return err
	}
	_, err = e.allocationService.Add(req.AllocationID, req.Indexer, req.WorkloadID, req.Tokens, e.clock.CurrentEpoch())
	return err
}

// closeAllocation returns the epochs the allocation was open.
func (e *Engine) closeAllocation(caller, id ledger.Address, p *Parameters) (uint64, error) {
	alloc, err := e.allocationService.GetAllocation(id)
	if err != nil {
		return 0, err
	}
	switch e.status(alloc, p) {
	case allocation.StatusNull:
		return 0, reverts.Newf(reverts.NotActive, "allocation %v does not exist", id)
	case allocation.StatusActive:
	default:
		return 0, reverts.Newf(reverts.AlreadyClosed, "allocation %v already closed", id)
	}

	epochs := e.clock.EpochsSince(alloc.CreatedAtEpoch)
	if epochs < 1 {
		return 0, reverts.Newf(reverts.NotYetClosable, "allocation %v must be open for at least one epoch", id)
	}
	// past the maximum lifetime anyone may close a non-empty allocation
	if epochs <= p.MaxAllocationEpochs || alloc.Tokens.Sign() == 0 {
		if err := e.requireAuth(caller, alloc.Indexer); err != nil {
			return 0, err
		}
	}

	now := e.clock.CurrentEpoch()
	if err := e.allocationService.Close(id, alloc, now, p.MaxAllocationEpochs); err != nil {
		return 0, err
	}
	if err := e.stakeService.Unallocate(alloc.Indexer, alloc.Tokens); err != nil {
		return 0, err
	}
	if err := e.rebateService.Deposit(now, alloc.CollectedFees, alloc.EffectiveAllocation, p.Rebate); err != nil {
		return 0, err
	}
	return epochs, nil
}

func (e *Engine) collect(payer ledger.Address, amount *big.Int, id ledger.Address, p *Parameters) error {
	if err := checkAmount(amount, reverts.ZeroAmount, "fee amount"); err != nil {
		return err
	}
	alloc, err := e.allocationService.GetAllocation(id)
	if err != nil {
		return err
	}
	status := e.status(alloc, p)
	if status == allocation.StatusNull {
		return reverts.Newf(reverts.NotActive, "allocation %v does not exist", id)
	}

	if err := e.colls.Token.Transfer(payer, e.addr, amount); err != nil {
		return err
	}
	if status == allocation.StatusFinalized || status == allocation.StatusClaimed {
		return e.burn(amount)
	}

	protocolTax := ledger.PercentOf(p.ProtocolPercentage, amount)
	if err := e.burn(protocolTax); err != nil {
		return err
	}

	curationFees := new(big.Int)
	curated, err := e.colls.Curation.IsCurated(alloc.WorkloadID)
	if err != nil {
		return err
	}
	if curated {
		curationFees = ledger.PercentOf(p.CurationPercentage, amount)
		if curationFees.Sign() > 0 {
			if err := e.colls.Token.Transfer(e.addr, e.colls.CurationAddress, curationFees); err != nil {
				return err
			}
			if err := e.colls.Curation.DepositCurationFee(alloc.WorkloadID, curationFees); err != nil {
				return err
			}
		}
	}

	rebateFees := new(big.Int).Sub(amount, protocolTax)
	rebateFees.Sub(rebateFees, curationFees)
	if err := e.allocationService.AddFees(id, alloc, rebateFees); err != nil {
		return err
	}
	if status == allocation.StatusClosed {
		return e.rebateService.AddFees(alloc.ClosedAtEpoch, rebateFees)
	}
	return nil
}

// claim returns the rebate paid to the indexer and the epochs elapsed since closing.
// The rebate always goes to the indexer, whoever the caller is.
func (e *Engine) claim(caller, id ledger.Address, restake bool, p *Parameters) (*big.Int, uint64, error) {
	alloc, err := e.allocationService.GetAllocation(id)
	if err != nil {
		return nil, 0, err
	}
	if status := e.status(alloc, p); status != allocation.StatusFinalized {
		return nil, 0, reverts.Newf(reverts.NotFinalized, "allocation %v is %s", id, status)
	}
	// anyone may claim, only the indexer or an operator may restake
	authorized, err := e.isAuth(caller, alloc.Indexer)
	if err != nil {
		return nil, 0, err
	}
	restake = restake && authorized

	closedAt := alloc.ClosedAtEpoch
	payout, burn, err := e.rebateService.Redeem(closedAt, alloc.CollectedFees, alloc.EffectiveAllocation)
	if err != nil {
		return nil, 0, err
	}
	if err := e.burn(burn); err != nil {
		return nil, 0, err
	}

	delegationRewards, err := e.delegationService.CollectQueryRewards(alloc.Indexer, payout)
	if err != nil {
		return nil, 0, err
	}
	indexerRebate := new(big.Int).Sub(payout, delegationRewards)

	indexer := alloc.Indexer
	if err := e.allocationService.Claim(id, alloc); err != nil {
		return nil, 0, err
	}

	if restake {
		if err := e.stakeService.Restake(indexer, indexerRebate); err != nil {
			return nil, 0, err
		}
	} else if err := e.transferOut(indexer, indexerRebate); err != nil {
		return nil, 0, err
	}
	return indexerRebate, e.clock.EpochsSince(closedAt), nil
}
