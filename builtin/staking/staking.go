// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sync"

	"github.com/vechain/stakeledger/builtin/acl"
	"github.com/vechain/stakeledger/builtin/params"
	"github.com/vechain/stakeledger/builtin/reverts"
	"github.com/vechain/stakeledger/builtin/staking/allocation"
	"github.com/vechain/stakeledger/builtin/staking/delegation"
	"github.com/vechain/stakeledger/builtin/staking/rebate"
	"github.com/vechain/stakeledger/builtin/staking/stakes"
	"github.com/vechain/stakeledger/builtin/storage"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/metrics"
	"github.com/vechain/stakeledger/state"
)

var (
	logger = log.WithContext("pkg", "staking")

	metricOperations       = metrics.NewCounterVec("staking_operations_count", "staking operations by outcome", "op", "result")
	metricAllocationEpochs = metrics.NewHistogram("staking_allocation_epochs", "epochs an allocation stayed open", metrics.EpochBuckets)
	metricClaimDelay       = metrics.NewHistogram("staking_claim_delay_epochs", "epochs between finalization and claim", metrics.EpochBuckets)
	metricEpoch            = metrics.NewGauge("staking_epoch", "epoch of the last operation")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Token is the value ledger holding the stake token.
type Token interface {
	Transfer(from, to ledger.Address, amount *big.Int) error
	Burn(from ledger.Address, amount *big.Int) error
}

// Curation receives the curation cut of query fees.
type Curation interface {
	IsCurated(workload ledger.Bytes32) (bool, error)
	DepositCurationFee(workload ledger.Bytes32, amount *big.Int) error
}

// Authority answers role checks for privileged operations.
type Authority interface {
	IsAuthorized(account ledger.Address, role acl.Role) (bool, error)
}

// Collaborators are the external modules the engine settles value with.
type Collaborators struct {
	Token           Token
	Curation        Curation
	CurationAddress ledger.Address // account the curation cut is transferred to
	Authority       Authority
}

// Engine implements the staking ledger. Tokens held on behalf of indexers, delegators,
// allocations and rebate pools are escrowed on the engine's own address.
type Engine struct {
	mu sync.Mutex

	addr   ledger.Address
	state  *state.State
	params *params.Params
	clock  clock.Clock
	colls  Collaborators

	stakeService      *stakes.Service
	delegationService *delegation.Service
	allocationService *allocation.Service
	rebateService     *rebate.Service
}

// New create a new instance.
func New(addr ledger.Address, state *state.State, params *params.Params, clk clock.Clock, colls Collaborators) *Engine {
	sctx := storage.NewContext(addr, state)
	return &Engine{
		addr:   addr,
		state:  state,
		params: params,
		clock:  clk,
		colls:  colls,

		stakeService:      stakes.New(sctx),
		delegationService: delegation.New(sctx),
		allocationService: allocation.New(sctx),
		rebateService:     rebate.New(sctx),
	}
}

// Address returns the escrow account of the engine.
func (e *Engine) Address() ledger.Address {
	return e.addr
}

// atomic runs fn as a single unit: any error reverts every state change fn made,
// including changes made through collaborators sharing the same state.
func (e *Engine) atomic(op string, fn func(p *Parameters) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	checkpoint := e.state.NewCheckpoint()
	err := func() error {
		p, err := e.loadParameters()
		if err != nil {
			return err
		}
		return fn(p)
	}()
	if err != nil {
		e.state.RevertTo(checkpoint)
	}
	metricOperations().Inc(op, resultLabel(err))
	metricEpoch().Set(int64(e.clock.CurrentEpoch()))
	return err
}

// view runs a read only fn under the engine lock.
func (e *Engine) view(fn func(p *Parameters) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.loadParameters()
	if err != nil {
		return err
	}
	return fn(p)
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := reverts.KindOf(err); kind != 0 {
		return kind.String()
	}
	return "error"
}

// Commit writes every change since the last commit to the underlying store.
// It returns the digest of the committed changes.
func (e *Engine) Commit() (ledger.Bytes32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	stage := e.state.Stage()
	hash := stage.Hash()
	if err := stage.Commit(); err != nil {
		return ledger.Bytes32{}, err
	}
	stats := e.state.CacheStats()
	logger.Debug("committed", "changes", stage.Len(), "hash", hash, "cacheHits", stats.Hits, "cacheMisses", stats.Misses)
	return hash, nil
}

func checkAmount(amount *big.Int, zeroKind reverts.Kind, what string) error {
	if amount == nil || amount.Sign() == 0 {
		return reverts.Newf(zeroKind, "%s is zero", what)
	}
	if amount.Sign() < 0 {
		return reverts.Newf(reverts.OutOfBounds, "%s is negative", what)
	}
	return nil
}

// isAuth returns whether caller may act for indexer.
func (e *Engine) isAuth(caller, indexer ledger.Address) (bool, error) {
	if caller == indexer {
		return true, nil
	}
	return e.stakeService.IsOperator(indexer, caller)
}

func (e *Engine) requireAuth(caller, indexer ledger.Address) error {
	ok, err := e.isAuth(caller, indexer)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.Newf(reverts.Unauthorized, "%v is not authorized for indexer %v", caller, indexer)
	}
	return nil
}

func (e *Engine) requireRole(caller ledger.Address, role acl.Role) error {
	ok, err := e.colls.Authority.IsAuthorized(caller, role)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.Newf(reverts.Unauthorized, "%v lacks role %s", caller, role)
	}
	return nil
}

// transferOut pays amount from escrow, skipping zero amounts.
func (e *Engine) transferOut(to ledger.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	return e.colls.Token.Transfer(e.addr, to, amount)
}

func (e *Engine) burn(amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	return e.colls.Token.Burn(e.addr, amount)
}

//
// Getters - no state change
//

// GetStake returns the stake account of indexer.
func (e *Engine) GetStake(indexer ledger.Address) (stake *stakes.Stake, err error) {
	err = e.view(func(*Parameters) error {
		stake, err = e.stakeService.GetStake(indexer)
		return err
	})
	return
}

// GetDelegationPool returns the delegation pool of indexer.
func (e *Engine) GetDelegationPool(indexer ledger.Address) (pool *delegation.Pool, err error) {
	err = e.view(func(*Parameters) error {
		pool, err = e.delegationService.GetPool(indexer)
		return err
	})
	return
}

// GetDelegation returns the delegation of delegator to indexer.
func (e *Engine) GetDelegation(indexer, delegator ledger.Address) (del *delegation.Delegation, err error) {
	err = e.view(func(*Parameters) error {
		del, err = e.delegationService.GetDelegation(indexer, delegator)
		return err
	})
	return
}

// GetAllocation returns the allocation record, zero valued if never used.
func (e *Engine) GetAllocation(id ledger.Address) (alloc *allocation.Allocation, err error) {
	err = e.view(func(*Parameters) error {
		alloc, err = e.allocationService.GetAllocation(id)
		return err
	})
	return
}

// GetAllocationState returns the lifecycle status of the allocation at the current epoch.
func (e *Engine) GetAllocationState(id ledger.Address) (status allocation.Status, err error) {
	err = e.view(func(p *Parameters) error {
		alloc, err := e.allocationService.GetAllocation(id)
		if err != nil {
			return err
		}
		status = e.status(alloc, p)
		return nil
	})
	return
}

// IsAllocation returns whether the identifier has ever been used.
func (e *Engine) IsAllocation(id ledger.Address) (bool, error) {
	status, err := e.GetAllocationState(id)
	if err != nil {
		return false, err
	}
	return status != allocation.StatusNull, nil
}

// GetRebatePool returns the rebate pool of allocations closed at epoch.
func (e *Engine) GetRebatePool(epoch uint64) (pool *rebate.Pool, err error) {
	err = e.view(func(*Parameters) error {
		pool, err = e.rebateService.GetPool(epoch)
		return err
	})
	return
}

// IsOperator returns whether operator may act on behalf of indexer.
func (e *Engine) IsOperator(indexer, operator ledger.Address) (ok bool, err error) {
	err = e.view(func(*Parameters) error {
		ok, err = e.stakeService.IsOperator(indexer, operator)
		return err
	})
	return
}

// IndexerCapacity returns the tokens indexer can still allocate: own stake plus capped
// delegation, minus tokens allocated or thawing. Negative when over-allocated.
func (e *Engine) IndexerCapacity(indexer ledger.Address) (capacity *big.Int, err error) {
	err = e.view(func(p *Parameters) error {
		capacity, err = e.capacity(indexer, p)
		return err
	})
	return
}

// Parameters returns the network parameters in force.
func (e *Engine) Parameters() (current *Parameters, err error) {
	err = e.view(func(p *Parameters) error {
		current = p
		return nil
	})
	return
}

func (e *Engine) capacity(indexer ledger.Address, p *Parameters) (*big.Int, error) {
	stake, err := e.stakeService.GetStake(indexer)
	if err != nil {
		return nil, err
	}
	delegated, err := e.delegationService.DelegatedCapacity(indexer, stake.TokensStaked, p.DelegationRatio)
	if err != nil {
		return nil, err
	}
	return stake.AvailableWithDelegation(delegated), nil
}

func (e *Engine) status(alloc *allocation.Allocation, p *Parameters) allocation.Status {
	var since uint64
	if alloc.ClosedAtEpoch > 0 {
		since = e.clock.EpochsSince(alloc.ClosedAtEpoch)
	}
	return alloc.Status(since, p.ChannelDisputeEpochs)
}
