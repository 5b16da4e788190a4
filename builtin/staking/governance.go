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

type paramValue struct {
	key   ledger.Bytes32
	value *big.Int
}

func (e *Engine) setParams(op string, caller ledger.Address, check func(p *Parameters) error, values ...paramValue) error {
	logger.Debug("setting params", "op", op, "caller", caller)

	err := e.atomic(op, func(p *Parameters) error {
		if err := e.requireRole(caller, acl.Governor); err != nil {
			return err
		}
		if check != nil {
			if err := check(p); err != nil {
				return err
			}
		}
		for _, v := range values {
			if err := e.params.Set(v.key, v.value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Info("set params failed", "op", op, "error", err)
		return err
	}

	logger.Info("set params", "op", op)
	return nil
}

func uint64Param(key ledger.Bytes32, value uint64) paramValue {
	return paramValue{key, new(big.Int).SetUint64(value)}
}

func positive(name string, value uint64) func(*Parameters) error {
	return func(*Parameters) error {
		if value == 0 {
			return reverts.Newf(reverts.OutOfBounds, "%s must be positive", name)
		}
		return nil
	}
}

func ppm(name string, value uint32) func(*Parameters) error {
	return func(*Parameters) error {
		if !ledger.ValidPPM(value) {
			return reverts.Newf(reverts.OutOfBounds, "%s %d exceeds %d", name, value, ledger.MaxPPM)
		}
		return nil
	}
}

// SetThawingPeriod sets the epochs unstaked tokens thaw before they can be withdrawn.
func (e *Engine) SetThawingPeriod(caller ledger.Address, epochs uint64) error {
	return e.setParams("set_thawing_period", caller, positive("thawing period", epochs), uint64Param(ledger.KeyThawingPeriod, epochs))
}

// SetMaxAllocationEpochs sets the epochs after which anyone may close an allocation,
// also capping effective allocations. Zero disables both.
func (e *Engine) SetMaxAllocationEpochs(caller ledger.Address, epochs uint64) error {
	return e.setParams("set_max_allocation_epochs", caller, nil, uint64Param(ledger.KeyMaxAllocationEpochs, epochs))
}

// SetChannelDisputeEpochs sets the epochs a closed allocation waits before it can be claimed.
func (e *Engine) SetChannelDisputeEpochs(caller ledger.Address, epochs uint64) error {
	return e.setParams("set_channel_dispute_epochs", caller, positive("channel dispute epochs", epochs), uint64Param(ledger.KeyChannelDisputeEpochs, epochs))
}

// SetCurationPercentage sets the ppm of query fees routed to curation.
func (e *Engine) SetCurationPercentage(caller ledger.Address, percentage uint32) error {
	return e.setParams("set_curation_percentage", caller, func(p *Parameters) error {
		if err := ppm("curation percentage", percentage)(p); err != nil {
			return err
		}
		return feeCutsBound(percentage, p.ProtocolPercentage)
	}, uint64Param(ledger.KeyCurationPercentage, uint64(percentage)))
}

// SetProtocolPercentage sets the ppm of query fees burned.
func (e *Engine) SetProtocolPercentage(caller ledger.Address, percentage uint32) error {
	return e.setParams("set_protocol_percentage", caller, func(p *Parameters) error {
		if err := ppm("protocol percentage", percentage)(p); err != nil {
			return err
		}
		return feeCutsBound(p.CurationPercentage, percentage)
	}, uint64Param(ledger.KeyProtocolPercentage, uint64(percentage)))
}

func feeCutsBound(curation, protocol uint32) error {
	if uint64(curation)+uint64(protocol) > uint64(ledger.MaxPPM) {
		return reverts.Newf(reverts.OutOfBounds, "curation and protocol percentages exceed %d", ledger.MaxPPM)
	}
	return nil
}

// SetDelegationRatio sets the multiple of own stake that delegation may add to capacity.
func (e *Engine) SetDelegationRatio(caller ledger.Address, ratio uint32) error {
	return e.setParams("set_delegation_ratio", caller, nil, uint64Param(ledger.KeyDelegationRatio, uint64(ratio)))
}

// SetMinimumIndexerStake sets the least secure stake an indexer must hold.
func (e *Engine) SetMinimumIndexerStake(caller ledger.Address, minimum *big.Int) error {
	return e.setParams("set_minimum_indexer_stake", caller, func(*Parameters) error {
		if minimum == nil || minimum.Sign() <= 0 {
			return reverts.New(reverts.OutOfBounds, "minimum indexer stake must be positive")
		}
		return nil
	}, paramValue{ledger.KeyMinimumIndexerStake, minimum})
}

// SetDelegationTaxPercentage sets the ppm of delegated tokens burned on delegation.
func (e *Engine) SetDelegationTaxPercentage(caller ledger.Address, percentage uint32) error {
	return e.setParams("set_delegation_tax_percentage", caller, ppm("delegation tax percentage", percentage), uint64Param(ledger.KeyDelegationTaxPercentage, uint64(percentage)))
}

// SetDelegationUnbondingPeriod sets the epochs undelegated tokens unbond.
func (e *Engine) SetDelegationUnbondingPeriod(caller ledger.Address, epochs uint64) error {
	return e.setParams("set_delegation_unbonding_period", caller, positive("delegation unbonding period", epochs), uint64Param(ledger.KeyDelegationUnbondingPeriod, epochs))
}

// SetDelegationParametersCooldown sets the least cooldown indexers may configure.
func (e *Engine) SetDelegationParametersCooldown(caller ledger.Address, epochs uint64) error {
	return e.setParams("set_delegation_parameters_cooldown", caller, nil, uint64Param(ledger.KeyDelegationParametersCooldown, epochs))
}

// SetRebateRatio sets alpha and lambda of the rebate payout, taking effect for pools created afterwards.
func (e *Engine) SetRebateRatio(caller ledger.Address, alphaNumerator, alphaDenominator, lambdaNumerator, lambdaDenominator uint32) error {
	return e.setParams("set_rebate_ratio", caller, func(*Parameters) error {
		if alphaDenominator == 0 || lambdaDenominator == 0 {
			return reverts.New(reverts.OutOfBounds, "rebate ratio denominators must be positive")
		}
		if alphaNumerator > alphaDenominator {
			return reverts.New(reverts.OutOfBounds, "alpha exceeds one")
		}
		return nil
	},
		uint64Param(ledger.KeyAlphaNumerator, uint64(alphaNumerator)),
		uint64Param(ledger.KeyAlphaDenominator, uint64(alphaDenominator)),
		uint64Param(ledger.KeyLambdaNumerator, uint64(lambdaNumerator)),
		uint64Param(ledger.KeyLambdaDenominator, uint64(lambdaDenominator)),
	)
}
