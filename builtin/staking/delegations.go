// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/stakeledger/builtin/reverts"
	"github.com/vechain/stakeledger/ledger"
)

// Delegate adds tokens from delegator to the pool of indexer, net of the delegation tax
// which is burned. It returns the shares minted.
func (e *Engine) Delegate(delegator, indexer ledger.Address, tokens *big.Int) (shares *big.Int, err error) {
	logger.Debug("delegating", "delegator", delegator, "indexer", indexer, "tokens", tokens)

	err = e.atomic("delegate", func(p *Parameters) error {
		if err := checkAmount(tokens, reverts.ZeroDelegation, "delegation"); err != nil {
			return err
		}
		if indexer.IsZero() {
			return reverts.New(reverts.ZeroBeneficiary, "indexer is zero")
		}
		if err := e.colls.Token.Transfer(delegator, e.addr, tokens); err != nil {
			return err
		}
		tax := ledger.PercentOf(p.DelegationTaxPercentage, tokens)
		if err := e.burn(tax); err != nil {
			return err
		}
		shares, err = e.delegationService.Delegate(delegator, indexer, new(big.Int).Sub(tokens, tax))
		return err
	})
	if err != nil {
		logger.Info("delegate failed", "delegator", delegator, "indexer", indexer, "error", err)
		return nil, err
	}

	logger.Info("delegated", "delegator", delegator, "indexer", indexer, "shares", shares)
	return shares, nil
}

// Undelegate redeems shares for tokens which unbond over the delegation unbonding period.
// Tokens unbonded by an earlier undelegation are paid out first and returned as withdrawn.
func (e *Engine) Undelegate(delegator, indexer ledger.Address, shares *big.Int) (tokens, withdrawn *big.Int, err error) {
	logger.Debug("undelegating", "delegator", delegator, "indexer", indexer, "shares", shares)

	err = e.atomic("undelegate", func(p *Parameters) error {
		if err := checkAmount(shares, reverts.ZeroShares, "shares"); err != nil {
			return err
		}
		tokens, withdrawn, err = e.delegationService.Undelegate(delegator, indexer, shares, e.clock.CurrentEpoch(), p.DelegationUnbondingPeriod)
		if err != nil {
			return err
		}
		return e.transferOut(delegator, withdrawn)
	})
	if err != nil {
		logger.Info("undelegate failed", "delegator", delegator, "indexer", indexer, "error", err)
		return nil, nil, err
	}

	logger.Info("undelegated", "delegator", delegator, "indexer", indexer, "tokens", tokens)
	return tokens, withdrawn, nil
}

// WithdrawDelegated releases the delegator's unbonded tokens. They are delegated to
// newIndexer without tax when it is set, or paid out to the delegator otherwise.
func (e *Engine) WithdrawDelegated(delegator, indexer, newIndexer ledger.Address) (tokens *big.Int, err error) {
	logger.Debug("withdrawing delegation", "delegator", delegator, "indexer", indexer, "newIndexer", newIndexer)

	err = e.atomic("withdraw_delegated", func(*Parameters) error {
		tokens, err = e.delegationService.WithdrawDelegated(delegator, indexer, e.clock.CurrentEpoch())
		if err != nil {
			return err
		}
		if newIndexer.IsZero() {
			return e.transferOut(delegator, tokens)
		}
		_, err = e.delegationService.Delegate(delegator, newIndexer, tokens)
		return err
	})
	if err != nil {
		logger.Info("withdraw delegation failed", "delegator", delegator, "indexer", indexer, "error", err)
		return nil, err
	}

	logger.Info("withdrew delegation", "delegator", delegator, "indexer", indexer, "tokens", tokens)
	return tokens, nil
}

// SetDelegationParameters sets the cuts the indexer keeps from rewards, in ppm, and the epochs
// before they can be changed again.
func (e *Engine) SetDelegationParameters(indexer ledger.Address, indexingRewardCut, queryFeeCut uint32, cooldownEpochs uint64) error {
	logger.Debug("setting delegation parameters", "indexer", indexer,
		"indexingRewardCut", indexingRewardCut, "queryFeeCut", queryFeeCut, "cooldown", cooldownEpochs)

	err := e.atomic("set_delegation_parameters", func(p *Parameters) error {
		return e.delegationService.SetParameters(
			indexer,
			indexingRewardCut,
			queryFeeCut,
			cooldownEpochs,
			p.DelegationParametersCooldown,
			e.clock.CurrentEpoch(),
		)
	})
	if err != nil {
		logger.Info("set delegation parameters failed", "indexer", indexer, "error", err)
		return err
	}

	logger.Info("set delegation parameters", "indexer", indexer)
	return nil
}
