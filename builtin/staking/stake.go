// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/stakeledger/builtin/acl"
	"github.com/vechain/stakeledger/builtin/reverts"
	"github.com/vechain/stakeledger/ledger"
)

// Stake deposits amount from caller into the stake of indexer.
func (e *Engine) Stake(caller, indexer ledger.Address, amount *big.Int) error {
	logger.Debug("staking", "caller", caller, "indexer", indexer, "amount", amount)

	err := e.atomic("stake", func(p *Parameters) error {
		if err := checkAmount(amount, reverts.ZeroAmount, "stake amount"); err != nil {
			return err
		}
		if indexer.IsZero() {
			return reverts.New(reverts.ZeroBeneficiary, "indexer is zero")
		}
		if err := e.stakeService.Stake(indexer, amount, p.MinimumIndexerStake); err != nil {
			return err
		}
		if err := e.delegationService.InitParameters(indexer, p.DelegationParametersCooldown, e.clock.CurrentEpoch()); err != nil {
			return err
		}
		return e.colls.Token.Transfer(caller, e.addr, amount)
	})
	if err != nil {
		logger.Info("stake failed", "indexer", indexer, "error", err)
		return err
	}

	logger.Info("staked", "indexer", indexer, "amount", amount)
	return nil
}

// Unstake starts thawing up to amount of the indexer's available tokens. Tokens whose
// thawing already ended are paid out and returned.
func (e *Engine) Unstake(indexer ledger.Address, amount *big.Int) (withdrawn *big.Int, err error) {
	logger.Debug("unstaking", "indexer", indexer, "amount", amount)

	err = e.atomic("unstake", func(p *Parameters) error {
		if err := checkAmount(amount, reverts.ZeroAmount, "unstake amount"); err != nil {
			return err
		}
		withdrawn, err = e.stakeService.Unstake(indexer, amount, p.MinimumIndexerStake, p.ThawingPeriod, e.clock.CurrentEpoch())
		if err != nil {
			return err
		}
		return e.transferOut(indexer, withdrawn)
	})
	if err != nil {
		logger.Info("unstake failed", "indexer", indexer, "error", err)
		return nil, err
	}

	logger.Info("unstaked", "indexer", indexer, "withdrawn", withdrawn)
	return withdrawn, nil
}

// Withdraw pays out the indexer's tokens once thawed.
func (e *Engine) Withdraw(indexer ledger.Address) (amount *big.Int, err error) {
	logger.Debug("withdrawing stake", "indexer", indexer)

	err = e.atomic("withdraw", func(*Parameters) error {
		amount, err = e.stakeService.Withdraw(indexer, e.clock.CurrentEpoch())
		if err != nil {
			return err
		}
		return e.transferOut(indexer, amount)
	})
	if err != nil {
		logger.Info("withdraw failed", "indexer", indexer, "error", err)
		return nil, err
	}

	logger.Info("withdrew stake", "indexer", indexer, "amount", amount)
	return amount, nil
}

// Slash takes amount from the indexer's stake, paying reward to beneficiary and burning the rest.
// The indexer may be left over-allocated.
func (e *Engine) Slash(caller, indexer ledger.Address, amount, reward *big.Int, beneficiary ledger.Address) error {
	logger.Debug("slashing", "caller", caller, "indexer", indexer, "amount", amount, "reward", reward)

	err := e.atomic("slash", func(*Parameters) error {
		if err := e.requireRole(caller, acl.Slasher); err != nil {
			return err
		}
		if err := checkAmount(amount, reverts.ZeroAmount, "slash amount"); err != nil {
			return err
		}
		if reward == nil || reward.Sign() < 0 {
			return reverts.New(reverts.OutOfBounds, "reward is negative")
		}
		if reward.Cmp(amount) > 0 {
			return reverts.Newf(reverts.RewardExceedsSlash, "reward %s exceeds slash amount %s", reward, amount)
		}
		if beneficiary.IsZero() {
			return reverts.New(reverts.ZeroBeneficiary, "beneficiary is zero")
		}
		if err := e.stakeService.Slash(indexer, amount); err != nil {
			return err
		}
		if err := e.burn(new(big.Int).Sub(amount, reward)); err != nil {
			return err
		}
		return e.transferOut(beneficiary, reward)
	})
	if err != nil {
		logger.Info("slash failed", "indexer", indexer, "error", err)
		return err
	}

	logger.Info("slashed", "indexer", indexer, "amount", amount, "beneficiary", beneficiary)
	return nil
}

// SetOperator grants or revokes the authority of operator over indexer's allocations.
func (e *Engine) SetOperator(indexer, operator ledger.Address, allowed bool) error {
	logger.Debug("setting operator", "indexer", indexer, "operator", operator, "allowed", allowed)

	err := e.atomic("set_operator", func(*Parameters) error {
		if operator.IsZero() || operator == indexer {
			return reverts.New(reverts.Unauthorized, "operator cannot be zero or the indexer")
		}
		return e.stakeService.SetOperator(indexer, operator, allowed)
	})
	if err != nil {
		logger.Info("set operator failed", "indexer", indexer, "error", err)
		return err
	}

	logger.Info("set operator", "indexer", indexer, "operator", operator, "allowed", allowed)
	return nil
}
