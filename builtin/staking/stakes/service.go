// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/reverts"
	"github.com/vechain/stakeledger/builtin/storage"
	"github.com/vechain/stakeledger/ledger"
)

var (
	slotStakes    = ledger.BytesToBytes32([]byte("stakes"))
	slotOperators = ledger.BytesToBytes32([]byte("operators"))
)

type operatorKey struct {
	indexer  ledger.Address
	operator ledger.Address
}

func (k operatorKey) Bytes() []byte {
	return append(k.indexer.Bytes(), k.operator.Bytes()...)
}

type Service struct {
	stakes    *storage.Mapping[ledger.Address, *Stake]
	operators *storage.Mapping[operatorKey, bool]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		stakes:    storage.NewMapping[ledger.Address, *Stake](sctx, slotStakes),
		operators: storage.NewMapping[operatorKey, bool](sctx, slotOperators),
	}
}

// GetStake returns the stake of the indexer, zero valued if it never staked.
func (s *Service) GetStake(indexer ledger.Address) (*Stake, error) {
	stake, err := s.stakes.Get(indexer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	stake.normalize()
	return stake, nil
}

func (s *Service) SetStake(indexer ledger.Address, stake *Stake) error {
	if err := s.stakes.Set(indexer, stake); err != nil {
		return errors.Wrap(err, "failed to set stake")
	}
	return nil
}

// Stake deposits amount. The secure stake after the deposit must reach minimum.
func (s *Service) Stake(indexer ledger.Address, amount, minimum *big.Int) error {
	if amount.Sign() == 0 {
		return reverts.New(reverts.ZeroAmount, "stake amount is zero")
	}
	stake, err := s.GetStake(indexer)
	if err != nil {
		return err
	}
	if new(big.Int).Add(stake.SecureStake(), amount).Cmp(minimum) < 0 {
		return reverts.Newf(reverts.InsufficientStake, "stake below minimum of %s", minimum)
	}
	stake.Deposit(amount)
	return s.SetStake(indexer, stake)
}

// Unstake locks up to amount of the available tokens for period epochs.
// Locked tokens whose lock has expired are withdrawn first and returned.
func (s *Service) Unstake(indexer ledger.Address, amount, minimum *big.Int, period, now uint64) (*big.Int, error) {
	if amount.Sign() == 0 {
		return nil, reverts.New(reverts.ZeroAmount, "unstake amount is zero")
	}
	stake, err := s.GetStake(indexer)
	if err != nil {
		return nil, err
	}
	if !stake.HasStake() {
		return nil, reverts.New(reverts.InsufficientStake, "indexer has no stake")
	}

	available := stake.Available()
	switch available.Sign() {
	case -1:
		return nil, reverts.Newf(reverts.InsufficientStake, "indexer is over-allocated by %s", new(big.Int).Neg(available))
	case 0:
		return nil, reverts.New(reverts.ZeroAmount, "no tokens available to unstake")
	}

	toLock := amount
	if available.Cmp(amount) < 0 {
		toLock = available
	}

	remaining := new(big.Int).Sub(stake.SecureStake(), toLock)
	if remaining.Sign() > 0 && remaining.Cmp(minimum) < 0 {
		return nil, reverts.Newf(reverts.BelowMinimumStake, "remaining stake %s below minimum of %s", remaining, minimum)
	}

	withdrawn := stake.WithdrawTokens(now)
	stake.LockTokens(toLock, period, now)
	if err := s.SetStake(indexer, stake); err != nil {
		return nil, err
	}
	return withdrawn, nil
}

// Withdraw releases the locked tokens once the lock expired.
func (s *Service) Withdraw(indexer ledger.Address, now uint64) (*big.Int, error) {
	stake, err := s.GetStake(indexer)
	if err != nil {
		return nil, err
	}
	amount := stake.WithdrawTokens(now)
	if amount.Sign() == 0 {
		return nil, reverts.New(reverts.NothingToWithdraw, "no tokens to withdraw")
	}
	return amount, s.SetStake(indexer, stake)
}

// Slash removes amount from the staked tokens, even if it leaves the indexer over-allocated.
// Locked tokens are unlocked up to the over-allocation so they cannot escape the slash.
func (s *Service) Slash(indexer ledger.Address, amount *big.Int) error {
	stake, err := s.GetStake(indexer)
	if err != nil {
		return err
	}
	if amount.Cmp(stake.TokensStaked) > 0 {
		return reverts.Newf(reverts.InsufficientStake, "slash amount exceeds stake of %s", stake.TokensStaked)
	}

	available := stake.Available()
	if available.Sign() < 0 {
		available = new(big.Int)
	}
	if amount.Cmp(available) > 0 && stake.TokensLocked.Sign() > 0 {
		overAllocated := new(big.Int).Sub(amount, available)
		toUnlock := overAllocated
		if stake.TokensLocked.Cmp(toUnlock) < 0 {
			toUnlock = new(big.Int).Set(stake.TokensLocked)
		}
		stake.UnlockTokens(toUnlock)
	}
	stake.Release(amount)
	return s.SetStake(indexer, stake)
}

// Allocate commits amount of the indexer's tokens.
func (s *Service) Allocate(indexer ledger.Address, amount *big.Int) error {
	stake, err := s.GetStake(indexer)
	if err != nil {
		return err
	}
	stake.Allocate(amount)
	return s.SetStake(indexer, stake)
}

// Unallocate releases amount of committed tokens.
func (s *Service) Unallocate(indexer ledger.Address, amount *big.Int) error {
	stake, err := s.GetStake(indexer)
	if err != nil {
		return err
	}
	if stake.TokensAllocated.Cmp(amount) < 0 {
		return errors.New("unallocate exceeds allocated tokens")
	}
	stake.Unallocate(amount)
	return s.SetStake(indexer, stake)
}

// Restake deposits amount without a minimum requirement.
func (s *Service) Restake(indexer ledger.Address, amount *big.Int) error {
	stake, err := s.GetStake(indexer)
	if err != nil {
		return err
	}
	stake.Deposit(amount)
	return s.SetStake(indexer, stake)
}

// IsOperator returns whether operator may act on behalf of indexer.
func (s *Service) IsOperator(indexer, operator ledger.Address) (bool, error) {
	allowed, err := s.operators.Get(operatorKey{indexer, operator})
	if err != nil {
		return false, errors.Wrap(err, "failed to get operator")
	}
	return allowed, nil
}

func (s *Service) SetOperator(indexer, operator ledger.Address, allowed bool) error {
	if !allowed {
		s.operators.Delete(operatorKey{indexer, operator})
		return nil
	}
	return s.operators.Set(operatorKey{indexer, operator}, true)
}
