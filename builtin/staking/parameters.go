// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/staking/rebate"
	"github.com/vechain/stakeledger/ledger"
)

// Parameters are the network parameters read at the start of every operation.
type Parameters struct {
	ThawingPeriod                uint64
	MaxAllocationEpochs          uint64
	ChannelDisputeEpochs         uint64
	CurationPercentage           uint32
	ProtocolPercentage           uint32
	DelegationRatio              uint32
	MinimumIndexerStake          *big.Int
	DelegationTaxPercentage      uint32
	DelegationUnbondingPeriod    uint64
	DelegationParametersCooldown uint64
	Rebate                       rebate.Ratios
}

func (e *Engine) loadParameters() (*Parameters, error) {
	var (
		p   Parameters
		err error
	)
	u64 := func(key ledger.Bytes32, dst *uint64) {
		if err == nil {
			*dst, err = e.params.GetUint64(key)
		}
	}
	u32 := func(key ledger.Bytes32, dst *uint32) {
		var v uint64
		u64(key, &v)
		if err == nil && v > math.MaxUint32 {
			err = errors.Errorf("param %v overflows uint32", key)
		}
		*dst = uint32(v)
	}

	u64(ledger.KeyThawingPeriod, &p.ThawingPeriod)
	u64(ledger.KeyMaxAllocationEpochs, &p.MaxAllocationEpochs)
	u64(ledger.KeyChannelDisputeEpochs, &p.ChannelDisputeEpochs)
	u32(ledger.KeyCurationPercentage, &p.CurationPercentage)
	u32(ledger.KeyProtocolPercentage, &p.ProtocolPercentage)
	u32(ledger.KeyDelegationRatio, &p.DelegationRatio)
	u32(ledger.KeyDelegationTaxPercentage, &p.DelegationTaxPercentage)
	u64(ledger.KeyDelegationUnbondingPeriod, &p.DelegationUnbondingPeriod)
	u64(ledger.KeyDelegationParametersCooldown, &p.DelegationParametersCooldown)
	u32(ledger.KeyAlphaNumerator, &p.Rebate.AlphaNumerator)
	u32(ledger.KeyAlphaDenominator, &p.Rebate.AlphaDenominator)
	u32(ledger.KeyLambdaNumerator, &p.Rebate.LambdaNumerator)
	u32(ledger.KeyLambdaDenominator, &p.Rebate.LambdaDenominator)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load parameters")
	}

	if p.MinimumIndexerStake, err = e.params.Get(ledger.KeyMinimumIndexerStake); err != nil {
		return nil, errors.Wrap(err, "failed to load parameters")
	}
	return &p, nil
}
