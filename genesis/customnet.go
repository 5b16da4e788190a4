// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/builtin/acl"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/state"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Name      string           `yaml:"name"`
	Epoch     uint64           `yaml:"epoch"`
	Accounts  []Account        `yaml:"accounts"`
	Governors []ledger.Address `yaml:"governors"`
	Slashers  []ledger.Address `yaml:"slashers"`
	Params    Params           `yaml:"params"`
	Curation  []Signal         `yaml:"curation"`
}

// Account is the account will be funded in the genesis state.
type Account struct {
	Address ledger.Address `yaml:"address"`
	Balance *Amount        `yaml:"balance"`
}

// Signal is the initial curation signal of a workload.
type Signal struct {
	Workload ledger.Bytes32 `yaml:"workload"`
	Signal   *Amount        `yaml:"signal"`
}

// Params overrides governance params. Absent fields keep their defaults.
type Params struct {
	ThawingPeriod                *uint64      `yaml:"thawingPeriod"`
	MaxAllocationEpochs          *uint64      `yaml:"maxAllocationEpochs"`
	ChannelDisputeEpochs         *uint64      `yaml:"channelDisputeEpochs"`
	CurationPercentage           *uint32      `yaml:"curationPercentage"`
	ProtocolPercentage           *uint32      `yaml:"protocolPercentage"`
	DelegationRatio              *uint32      `yaml:"delegationRatio"`
	MinimumIndexerStake          *Amount      `yaml:"minimumIndexerStake"`
	DelegationTaxPercentage      *uint32      `yaml:"delegationTaxPercentage"`
	DelegationUnbondingPeriod    *uint64      `yaml:"delegationUnbondingPeriod"`
	DelegationParametersCooldown *uint64      `yaml:"delegationParametersCooldown"`
	RebateRatio                  *RebateRatio `yaml:"rebateRatio"`
}

// RebateRatio holds the exponential rebate ratios.
type RebateRatio struct {
	AlphaNumerator    uint32 `yaml:"alphaNumerator"`
	AlphaDenominator  uint32 `yaml:"alphaDenominator"`
	LambdaNumerator   uint32 `yaml:"lambdaNumerator"`
	LambdaDenominator uint32 `yaml:"lambdaDenominator"`
}

func (p *Params) isEmpty() bool {
	return p.ThawingPeriod == nil &&
		p.MaxAllocationEpochs == nil &&
		p.ChannelDisputeEpochs == nil &&
		p.CurationPercentage == nil &&
		p.ProtocolPercentage == nil &&
		p.DelegationRatio == nil &&
		p.MinimumIndexerStake == nil &&
		p.DelegationTaxPercentage == nil &&
		p.DelegationUnbondingPeriod == nil &&
		p.DelegationParametersCooldown == nil &&
		p.RebateRatio == nil
}

// Amount is a token amount, written as a decimal or 0x-prefixed hex integer.
type Amount big.Int

// Int returns the amount as big.Int.
func (a *Amount) Int() *big.Int {
	if a == nil {
		return nil
	}
	return (*big.Int)(a)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", value.Line)
	}
	if _, ok := (*big.Int)(a).SetString(value.Value, 0); !ok {
		return fmt.Errorf("line %d: invalid amount %q", value.Line, value.Value)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a *Amount) MarshalYAML() (any, error) {
	return (*big.Int)(a).String(), nil
}

// ParseCustomGenesis decodes a YAML genesis document. Unknown fields are rejected.
func ParseCustomGenesis(data []byte) (*CustomGenesis, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var gen CustomGenesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &gen, nil
}

// LoadCustomGenesis reads and decodes the genesis file at path.
func LoadCustomGenesis(path string) (*CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return ParseCustomGenesis(data)
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.Epoch == 0 {
		return nil, errors.New("epoch must be a non-zero integer")
	}
	if len(gen.Governors) == 0 && !gen.Params.isEmpty() {
		return nil, errors.New("params require at least one governor")
	}
	for _, a := range gen.Accounts {
		if a.Address.IsZero() {
			return nil, errors.New("account address must not be zero")
		}
		if a.Balance == nil {
			return nil, fmt.Errorf("%s: balance must be set", a.Address)
		}
		if a.Balance.Int().Sign() < 1 {
			return nil, fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
	}
	for _, s := range gen.Curation {
		if s.Signal == nil || s.Signal.Int().Sign() < 0 {
			return nil, fmt.Errorf("%s: signal must be a non-negative integer", s.Workload)
		}
	}

	builder := new(Builder).
		State(func(state *state.State) error {
			roles := builtin.ACL.WithState(state)
			for _, addr := range gen.Governors {
				if _, err := roles.Grant(acl.Governor, addr); err != nil {
					return err
				}
			}
			for _, addr := range gen.Slashers {
				if _, err := roles.Grant(acl.Slasher, addr); err != nil {
					return err
				}
			}
			return nil
		}).
		State(func(state *state.State) error {
			if gen.Params.isEmpty() {
				return nil
			}
			engine := builtin.Staking.WithState(state, clock.NewManual(gen.Epoch))
			return applyParams(engine, gen.Governors[0], &gen.Params)
		}).
		State(func(state *state.State) error {
			token := builtin.Token.WithState(state)
			for _, a := range gen.Accounts {
				if err := token.Mint(a.Address, a.Balance.Int()); err != nil {
					return err
				}
			}
			return nil
		}).
		State(func(state *state.State) error {
			curation := builtin.Curation.WithState(state)
			for _, s := range gen.Curation {
				if err := curation.SetSignal(s.Workload, s.Signal.Int()); err != nil {
					return err
				}
			}
			return nil
		})

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}

	name := gen.Name
	if name == "" {
		name = "customnet"
	}
	return &Genesis{builder, id, name, gen.Epoch}, nil
}

type governance interface {
	SetThawingPeriod(caller ledger.Address, epochs uint64) error
	SetMaxAllocationEpochs(caller ledger.Address, epochs uint64) error
	SetChannelDisputeEpochs(caller ledger.Address, epochs uint64) error
	SetCurationPercentage(caller ledger.Address, percentage uint32) error
	SetProtocolPercentage(caller ledger.Address, percentage uint32) error
	SetDelegationRatio(caller ledger.Address, ratio uint32) error
	SetMinimumIndexerStake(caller ledger.Address, minimum *big.Int) error
	SetDelegationTaxPercentage(caller ledger.Address, percentage uint32) error
	SetDelegationUnbondingPeriod(caller ledger.Address, epochs uint64) error
	SetDelegationParametersCooldown(caller ledger.Address, epochs uint64) error
	SetRebateRatio(caller ledger.Address, alphaNumerator, alphaDenominator, lambdaNumerator, lambdaDenominator uint32) error
}

// applyParams sets params through the governance entry points, so genesis values obey the same bounds.
func applyParams(gov governance, governor ledger.Address, p *Params) error {
	var steps []func() error
	if v := p.ThawingPeriod; v != nil {
		steps = append(steps, func() error { return gov.SetThawingPeriod(governor, *v) })
	}
	if v := p.MaxAllocationEpochs; v != nil {
		steps = append(steps, func() error { return gov.SetMaxAllocationEpochs(governor, *v) })
	}
	if v := p.ChannelDisputeEpochs; v != nil {
		steps = append(steps, func() error { return gov.SetChannelDisputeEpochs(governor, *v) })
	}
	if v := p.CurationPercentage; v != nil {
		steps = append(steps, func() error { return gov.SetCurationPercentage(governor, *v) })
	}
	if v := p.ProtocolPercentage; v != nil {
		steps = append(steps, func() error { return gov.SetProtocolPercentage(governor, *v) })
	}
	if v := p.DelegationRatio; v != nil {
		steps = append(steps, func() error { return gov.SetDelegationRatio(governor, *v) })
	}
	if v := p.MinimumIndexerStake; v != nil {
		steps = append(steps, func() error { return gov.SetMinimumIndexerStake(governor, v.Int()) })
	}
	if v := p.DelegationTaxPercentage; v != nil {
		steps = append(steps, func() error { return gov.SetDelegationTaxPercentage(governor, *v) })
	}
	if v := p.DelegationUnbondingPeriod; v != nil {
		steps = append(steps, func() error { return gov.SetDelegationUnbondingPeriod(governor, *v) })
	}
	if v := p.DelegationParametersCooldown; v != nil {
		steps = append(steps, func() error { return gov.SetDelegationParametersCooldown(governor, *v) })
	}
	if r := p.RebateRatio; r != nil {
		steps = append(steps, func() error {
			return gov.SetRebateRatio(governor, r.AlphaNumerator, r.AlphaDenominator, r.LambdaNumerator, r.LambdaDenominator)
		})
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return errors.Wrap(err, "params")
		}
	}
	return nil
}
