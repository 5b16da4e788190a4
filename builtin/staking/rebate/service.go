// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rebate

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/storage"
	"github.com/vechain/stakeledger/ledger"
)

var slotPools = ledger.BytesToBytes32([]byte("rebate-pools"))

type epochKey uint64

func (k epochKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// Ratios are the rebate parameters snapshotted into a new pool.
type Ratios struct {
	AlphaNumerator    uint32
	AlphaDenominator  uint32
	LambdaNumerator   uint32
	LambdaDenominator uint32
}

type Service struct {
	pools *storage.Mapping[epochKey, *Pool]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		pools: storage.NewMapping[epochKey, *Pool](sctx, slotPools),
	}
}

// GetPool returns the rebate pool of the epoch, zero valued if none.
func (s *Service) GetPool(epoch uint64) (*Pool, error) {
	pool, err := s.pools.Get(epochKey(epoch))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rebate pool")
	}
	pool.normalize()
	return pool, nil
}

func (s *Service) setPool(epoch uint64, pool *Pool) error {
	if err := s.pools.Set(epochKey(epoch), pool); err != nil {
		return errors.Wrap(err, "failed to set rebate pool")
	}
	return nil
}

// Deposit settles a closed allocation into the pool of the epoch, creating it with
// the current ratios if needed.
func (s *Service) Deposit(epoch uint64, fees, effectiveAllocation *big.Int, ratios Ratios) error {
	pool, err := s.GetPool(epoch)
	if err != nil {
		return err
	}
	if pool.IsEmpty() {
		pool.AlphaNumerator = ratios.AlphaNumerator
		pool.AlphaDenominator = ratios.AlphaDenominator
		pool.LambdaNumerator = ratios.LambdaNumerator
		pool.LambdaDenominator = ratios.LambdaDenominator
	}
	pool.Fees.Add(pool.Fees, fees)
	pool.EffectiveAllocatedStake.Add(pool.EffectiveAllocatedStake, effectiveAllocation)
	pool.UnclaimedAllocationsCount++
	return s.setPool(epoch, pool)
}

// AddFees adds fees collected by an allocation already settled into the pool.
func (s *Service) AddFees(epoch uint64, fees *big.Int) error {
	pool, err := s.GetPool(epoch)
	if err != nil {
		return err
	}
	if pool.IsEmpty() {
		return errors.Errorf("no rebate pool for epoch %d", epoch)
	}
	pool.Fees.Add(pool.Fees, fees)
	return s.setPool(epoch, pool)
}

// Redeem pays out an allocation's rebate from the pool of the epoch. Once the last
// allocation is claimed the pool is removed and its outstanding fees returned to be burned.
func (s *Service) Redeem(epoch uint64, fees, effectiveAllocation *big.Int) (payout, burn *big.Int, err error) {
	pool, err := s.GetPool(epoch)
	if err != nil {
		return nil, nil, err
	}
	if pool.IsEmpty() {
		return nil, nil, errors.Errorf("no rebate pool for epoch %d", epoch)
	}
	payout, err = pool.Redeem(fees, effectiveAllocation)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to compute rebate")
	}
	burn = new(big.Int)
	if pool.UnclaimedAllocationsCount == 0 {
		burn = pool.Outstanding()
		s.pools.Delete(epochKey(epoch))
		return payout, burn, nil
	}
	return payout, burn, s.setPool(epoch, pool)
}
