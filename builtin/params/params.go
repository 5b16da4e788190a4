// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/storage"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/state"
)

var slotParams = ledger.BytesToBytes32([]byte("params"))

// Defaults maps governance keys to the value they hold until set.
var Defaults = map[ledger.Bytes32]*big.Int{
	ledger.KeyThawingPeriod:                ledger.InitialThawingPeriod,
	ledger.KeyMaxAllocationEpochs:          ledger.InitialMaxAllocationEpochs,
	ledger.KeyChannelDisputeEpochs:         ledger.InitialChannelDisputeEpochs,
	ledger.KeyCurationPercentage:           ledger.InitialCurationPercentage,
	ledger.KeyProtocolPercentage:           ledger.InitialProtocolPercentage,
	ledger.KeyDelegationRatio:              ledger.InitialDelegationRatio,
	ledger.KeyMinimumIndexerStake:          ledger.InitialMinimumIndexerStake,
	ledger.KeyDelegationTaxPercentage:      ledger.InitialDelegationTaxPercentage,
	ledger.KeyDelegationUnbondingPeriod:    ledger.InitialDelegationUnbondingPeriod,
	ledger.KeyDelegationParametersCooldown: ledger.InitialDelegationParametersCooldown,
	ledger.KeyAlphaNumerator:               ledger.InitialAlphaNumerator,
	ledger.KeyAlphaDenominator:             ledger.InitialAlphaDenominator,
	ledger.KeyLambdaNumerator:              ledger.InitialLambdaNumerator,
	ledger.KeyLambdaDenominator:            ledger.InitialLambdaDenominator,
}

// Params binder of governance params.
type Params struct {
	values *storage.Mapping[ledger.Bytes32, *big.Int]
}

func New(addr ledger.Address, state *state.State) *Params {
	sctx := storage.NewContext(addr, state)
	return &Params{
		values: storage.NewMapping[ledger.Bytes32, *big.Int](sctx, slotParams),
	}
}

// Get native way to get param. Keys never set fall back to their default.
func (p *Params) Get(key ledger.Bytes32) (*big.Int, error) {
	set, err := p.values.Exists(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get param")
	}
	if !set {
		if def, ok := Defaults[key]; ok {
			return new(big.Int).Set(def), nil
		}
	}
	return p.values.Get(key)
}

// GetUint64 is Get for params which are known to fit in 64 bits.
func (p *Params) GetUint64(key ledger.Bytes32) (uint64, error) {
	v, err := p.Get(key)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, errors.Errorf("param %v overflows uint64", key)
	}
	return v.Uint64(), nil
}

// Set native way to set param.
func (p *Params) Set(key ledger.Bytes32, value *big.Int) error {
	if value.Sign() < 0 {
		return errors.New("negative param value")
	}
	return p.values.Set(key, value)
}
