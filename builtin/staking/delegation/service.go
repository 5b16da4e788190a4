// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"math"
	"math/big"

	gethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/reverts"
	"github.com/vechain/stakeledger/builtin/storage"
	"github.com/vechain/stakeledger/ledger"
)

var (
	slotPools       = ledger.BytesToBytes32([]byte("delegation-pools"))
	slotDelegations = ledger.BytesToBytes32([]byte("delegations"))
)

type delegationKey struct {
	indexer   ledger.Address
	delegator ledger.Address
}

func (k delegationKey) Bytes() []byte {
	return append(k.indexer.Bytes(), k.delegator.Bytes()...)
}

type Service struct {
	pools       *storage.Mapping[ledger.Address, *Pool]
	delegations *storage.Mapping[delegationKey, *Delegation]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		pools:       storage.NewMapping[ledger.Address, *Pool](sctx, slotPools),
		delegations: storage.NewMapping[delegationKey, *Delegation](sctx, slotDelegations),
	}
}

// GetPool returns the delegation pool of the indexer, zero valued if nobody delegated.
func (s *Service) GetPool(indexer ledger.Address) (*Pool, error) {
	pool, err := s.pools.Get(indexer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delegation pool")
	}
	pool.normalize()
	return pool, nil
}

func (s *Service) setPool(indexer ledger.Address, pool *Pool) error {
	if err := s.pools.Set(indexer, pool); err != nil {
		return errors.Wrap(err, "failed to set delegation pool")
	}
	return nil
}

// GetDelegation returns the delegation of delegator to indexer.
func (s *Service) GetDelegation(indexer, delegator ledger.Address) (*Delegation, error) {
	del, err := s.delegations.Get(delegationKey{indexer, delegator})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get delegation")
	}
	del.normalize()
	return del, nil
}

func (s *Service) setDelegation(indexer, delegator ledger.Address, del *Delegation) error {
	if err := s.delegations.Set(delegationKey{indexer, delegator}, del); err != nil {
		return errors.Wrap(err, "failed to set delegation")
	}
	return nil
}

// DelegatedCapacity returns the delegated tokens counted towards the indexer's capacity,
// capped to ratio times its own stake.
func (s *Service) DelegatedCapacity(indexer ledger.Address, staked *big.Int, ratio uint32) (*big.Int, error) {
	pool, err := s.GetPool(indexer)
	if err != nil {
		return nil, err
	}
	max := new(big.Int).Mul(staked, new(big.Int).SetUint64(uint64(ratio)))
	if pool.Tokens.Cmp(max) < 0 {
		return new(big.Int).Set(pool.Tokens), nil
	}
	return max, nil
}

// Delegate adds tokens, already net of tax, to the indexer's pool and mints shares for delegator.
func (s *Service) Delegate(delegator, indexer ledger.Address, tokens *big.Int) (*big.Int, error) {
	pool, err := s.GetPool(indexer)
	if err != nil {
		return nil, err
	}
	shares := pool.SharesFor(tokens)
	if shares.Sign() == 0 {
		return nil, reverts.New(reverts.ZeroShares, "delegation too small to mint shares")
	}

	del, err := s.GetDelegation(indexer, delegator)
	if err != nil {
		return nil, err
	}

	pool.Tokens.Add(pool.Tokens, tokens)
	pool.Shares.Add(pool.Shares, shares)
	del.Shares.Add(del.Shares, shares)

	if err := s.setPool(indexer, pool); err != nil {
		return nil, err
	}
	if err := s.setDelegation(indexer, delegator, del); err != nil {
		return nil, err
	}
	return shares, nil
}

// Undelegate burns shares of delegator and locks the redeemed tokens until now+unbonding.
// Tokens already unbonded are withdrawn first and returned as the second value.
func (s *Service) Undelegate(delegator, indexer ledger.Address, shares *big.Int, now, unbonding uint64) (*big.Int, *big.Int, error) {
	if shares.Sign() == 0 {
		return nil, nil, reverts.New(reverts.ZeroShares, "undelegate zero shares")
	}
	del, err := s.GetDelegation(indexer, delegator)
	if err != nil {
		return nil, nil, err
	}
	if del.Shares.Cmp(shares) < 0 {
		return nil, nil, reverts.Newf(reverts.InsufficientShares, "delegator holds %s shares", del.Shares)
	}
	pool, err := s.GetPool(indexer)
	if err != nil {
		return nil, nil, err
	}

	tokens := pool.TokensFor(shares)
	pool.Tokens.Sub(pool.Tokens, tokens)
	pool.Shares.Sub(pool.Shares, shares)
	del.Shares.Sub(del.Shares, shares)

	withdrawn := del.Withdrawable(now)
	if withdrawn.Sign() > 0 {
		del.TokensLocked = new(big.Int)
		del.TokensLockedUntil = 0
	}

	until, overflow := gethmath.SafeAdd(now, unbonding)
	if overflow {
		until = math.MaxUint64
	}
	del.TokensLocked.Add(del.TokensLocked, tokens)
	del.TokensLockedUntil = until

	if err := s.setPool(indexer, pool); err != nil {
		return nil, nil, err
	}
	if err := s.setDelegation(indexer, delegator, del); err != nil {
		return nil, nil, err
	}
	return tokens, withdrawn, nil
}

// WithdrawDelegated releases the unbonded tokens of delegator.
func (s *Service) WithdrawDelegated(delegator, indexer ledger.Address, now uint64) (*big.Int, error) {
	del, err := s.GetDelegation(indexer, delegator)
	if err != nil {
		return nil, err
	}
	tokens := del.Withdrawable(now)
	if tokens.Sign() == 0 {
		return nil, reverts.New(reverts.NothingToWithdraw, "no unbonded tokens to withdraw")
	}
	del.TokensLocked = new(big.Int)
	del.TokensLockedUntil = 0
	return tokens, s.setDelegation(indexer, delegator, del)
}

// SetParameters updates the cuts and cooldown of the indexer's pool.
func (s *Service) SetParameters(
	indexer ledger.Address,
	indexingRewardCut uint32,
	queryFeeCut uint32,
	cooldown uint64,
	minCooldown uint64,
	now uint64,
) error {
	if !ledger.ValidPPM(indexingRewardCut) {
		return reverts.Newf(reverts.OutOfBounds, "indexing reward cut %d exceeds %d", indexingRewardCut, ledger.MaxPPM)
	}
	if !ledger.ValidPPM(queryFeeCut) {
		return reverts.Newf(reverts.OutOfBounds, "query fee cut %d exceeds %d", queryFeeCut, ledger.MaxPPM)
	}
	if cooldown < minCooldown {
		return reverts.Newf(reverts.OutOfBounds, "cooldown %d below minimum of %d", cooldown, minCooldown)
	}
	pool, err := s.GetPool(indexer)
	if err != nil {
		return err
	}
	if !pool.CooldownEnded(now) {
		return reverts.Newf(reverts.CooldownActive, "parameters locked until epoch %d", pool.UpdatedAtEpoch+pool.CooldownEpochs)
	}

	pool.IndexingRewardCut = indexingRewardCut
	pool.QueryFeeCut = queryFeeCut
	pool.CooldownEpochs = cooldown
	pool.UpdatedAtEpoch = now
	pool.Configured = true
	return s.setPool(indexer, pool)
}

// InitParameters gives an unconfigured pool the default parameters: the indexer keeps
// every reward until it opts in to share them.
func (s *Service) InitParameters(indexer ledger.Address, cooldown, now uint64) error {
	pool, err := s.GetPool(indexer)
	if err != nil {
		return err
	}
	if pool.Configured {
		return nil
	}
	pool.IndexingRewardCut = ledger.MaxPPM
	pool.QueryFeeCut = ledger.MaxPPM
	pool.CooldownEpochs = cooldown
	pool.UpdatedAtEpoch = now
	pool.Configured = true
	return s.setPool(indexer, pool)
}

// CollectQueryRewards routes the delegators' part of a query fee rebate into the pool,
// raising the share price. It returns the part added to the pool.
func (s *Service) CollectQueryRewards(indexer ledger.Address, rebate *big.Int) (*big.Int, error) {
	pool, err := s.GetPool(indexer)
	if err != nil {
		return nil, err
	}
	if pool.Tokens.Sign() == 0 || pool.QueryFeeCut >= ledger.MaxPPM {
		return new(big.Int), nil
	}
	indexerCut := ledger.PercentOf(pool.QueryFeeCut, rebate)
	rewards := new(big.Int).Sub(rebate, indexerCut)
	pool.Tokens.Add(pool.Tokens, rewards)
	return rewards, s.setPool(indexer, pool)
}
