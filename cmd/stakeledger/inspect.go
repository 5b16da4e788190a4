// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/ledger"
)

var output io.Writer = os.Stdout

// view runs fn against an opened ledger and prints its result as YAML. Nothing is committed.
func view(fn func(ctx *cli.Context, in *instance) (any, error)) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		in, err := openInstance(ctx, true)
		if err != nil {
			return err
		}
		defer in.Close()

		v, err := fn(ctx, in)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(output)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode")
		}
		return enc.Close()
	}
}

func str(b *big.Int) string {
	if b == nil {
		return "0"
	}
	return b.String()
}

type accountView struct {
	Address ledger.Address `yaml:"address"`
	Balance string         `yaml:"balance"`
}

// addressOrCaller parses the named flag, falling back to the global caller.
func addressOrCaller(ctx *cli.Context, name string) (ledger.Address, error) {
	var def ledger.Address
	if ctx.GlobalString(callerFlag.Name) != "" {
		c, err := caller(ctx)
		if err != nil {
			return ledger.Address{}, err
		}
		def = c
	}
	addr, err := addressOr(ctx, name, def)
	if err != nil {
		return ledger.Address{}, err
	}
	if addr.IsZero() {
		return ledger.Address{}, fmt.Errorf("-%s or -%s is required", name, callerFlag.Name)
	}
	return addr, nil
}

func inspectAccount(ctx *cli.Context, in *instance) (any, error) {
	addr, err := addressOrCaller(ctx, indexerFlag.Name)
	if err != nil {
		return nil, err
	}
	balance, err := builtin.Token.WithState(in.state).BalanceOf(addr)
	if err != nil {
		return nil, err
	}
	return &accountView{addr, balance.String()}, nil
}

type stakeView struct {
	Indexer           ledger.Address `yaml:"indexer"`
	TokensStaked      string         `yaml:"tokensStaked"`
	TokensAllocated   string         `yaml:"tokensAllocated"`
	TokensLocked      string         `yaml:"tokensLocked"`
	TokensLockedUntil uint64         `yaml:"tokensLockedUntil"`
	Capacity          string         `yaml:"capacity"`
}

func inspectStake(ctx *cli.Context, in *instance) (any, error) {
	indexer, err := addressOrCaller(ctx, indexerFlag.Name)
	if err != nil {
		return nil, err
	}
	stake, err := in.engine.GetStake(indexer)
	if err != nil {
		return nil, err
	}
	capacity, err := in.engine.IndexerCapacity(indexer)
	if err != nil {
		return nil, err
	}
	return &stakeView{
		Indexer:           indexer,
		TokensStaked:      str(stake.TokensStaked),
		TokensAllocated:   str(stake.TokensAllocated),
		TokensLocked:      str(stake.TokensLocked),
		TokensLockedUntil: stake.TokensLockedUntil,
		Capacity:          str(capacity),
	}, nil
}

type allocationView struct {
	ID                  ledger.Address `yaml:"id"`
	Status              string         `yaml:"status"`
	Indexer             ledger.Address `yaml:"indexer"`
	WorkloadID          ledger.Bytes32 `yaml:"workloadID"`
	Tokens              string         `yaml:"tokens"`
	CreatedAtEpoch      uint64         `yaml:"createdAtEpoch"`
	ClosedAtEpoch       uint64         `yaml:"closedAtEpoch,omitempty"`
	CollectedFees       string         `yaml:"collectedFees"`
	EffectiveAllocation string         `yaml:"effectiveAllocation"`
}

func inspectAllocation(ctx *cli.Context, in *instance) (any, error) {
	ids, err := parseAllocationIDs(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*allocationView, 0, len(ids))
	for _, id := range ids {
		alloc, err := in.engine.GetAllocation(id)
		if err != nil {
			return nil, err
		}
		status, err := in.engine.GetAllocationState(id)
		if err != nil {
			return nil, err
		}
		views = append(views, &allocationView{
			ID:                  id,
			Status:              status.String(),
			Indexer:             alloc.Indexer,
			WorkloadID:          alloc.WorkloadID,
			Tokens:              str(alloc.Tokens),
			CreatedAtEpoch:      alloc.CreatedAtEpoch,
			ClosedAtEpoch:       alloc.ClosedAtEpoch,
			CollectedFees:       str(alloc.CollectedFees),
			EffectiveAllocation: str(alloc.EffectiveAllocation),
		})
	}
	return views, nil
}

type poolView struct {
	Indexer           ledger.Address `yaml:"indexer"`
	Tokens            string         `yaml:"tokens"`
	Shares            string         `yaml:"shares"`
	IndexingRewardCut uint32         `yaml:"indexingRewardCut"`
	QueryFeeCut       uint32         `yaml:"queryFeeCut"`
	CooldownEpochs    uint64         `yaml:"cooldownEpochs"`
	UpdatedAtEpoch    uint64         `yaml:"updatedAtEpoch"`
}

func inspectPool(ctx *cli.Context, in *instance) (any, error) {
	indexer, err := addressOrCaller(ctx, indexerFlag.Name)
	if err != nil {
		return nil, err
	}
	pool, err := in.engine.GetDelegationPool(indexer)
	if err != nil {
		return nil, err
	}
	return &poolView{
		Indexer:           indexer,
		Tokens:            str(pool.Tokens),
		Shares:            str(pool.Shares),
		IndexingRewardCut: pool.IndexingRewardCut,
		QueryFeeCut:       pool.QueryFeeCut,
		CooldownEpochs:    pool.CooldownEpochs,
		UpdatedAtEpoch:    pool.UpdatedAtEpoch,
	}, nil
}

type delegationView struct {
	Indexer           ledger.Address `yaml:"indexer"`
	Delegator         ledger.Address `yaml:"delegator"`
	Shares            string         `yaml:"shares"`
	Value             string         `yaml:"value"`
	TokensLocked      string         `yaml:"tokensLocked"`
	TokensLockedUntil uint64         `yaml:"tokensLockedUntil"`
}

func inspectDelegation(ctx *cli.Context, in *instance) (any, error) {
	indexer, err := requiredAddress(ctx, indexerFlag.Name)
	if err != nil {
		return nil, err
	}
	delegator, err := addressOrCaller(ctx, delegatorFlag.Name)
	if err != nil {
		return nil, err
	}
	pool, err := in.engine.GetDelegationPool(indexer)
	if err != nil {
		return nil, err
	}
	del, err := in.engine.GetDelegation(indexer, delegator)
	if err != nil {
		return nil, err
	}
	return &delegationView{
		Indexer:           indexer,
		Delegator:         delegator,
		Shares:            str(del.Shares),
		Value:             str(pool.TokensFor(del.Shares)),
		TokensLocked:      str(del.TokensLocked),
		TokensLockedUntil: del.TokensLockedUntil,
	}, nil
}

type rebateView struct {
	Epoch                     uint64 `yaml:"epoch"`
	Fees                      string `yaml:"fees"`
	EffectiveAllocatedStake   string `yaml:"effectiveAllocatedStake"`
	ClaimedRewards            string `yaml:"claimedRewards"`
	Outstanding               string `yaml:"outstanding"`
	UnclaimedAllocationsCount uint64 `yaml:"unclaimedAllocationsCount"`
	Alpha                     string `yaml:"alpha"`
	Lambda                    string `yaml:"lambda"`
}

func inspectRebate(ctx *cli.Context, in *instance) (any, error) {
	epoch := ctx.Uint64(epochArgFlag.Name)
	pool, err := in.engine.GetRebatePool(epoch)
	if err != nil {
		return nil, err
	}
	if pool.IsEmpty() {
		return nil, fmt.Errorf("no rebate pool at epoch %d", epoch)
	}
	return &rebateView{
		Epoch:                     epoch,
		Fees:                      str(pool.Fees),
		EffectiveAllocatedStake:   str(pool.EffectiveAllocatedStake),
		ClaimedRewards:            str(pool.ClaimedRewards),
		Outstanding:               str(pool.Outstanding()),
		UnclaimedAllocationsCount: pool.UnclaimedAllocationsCount,
		Alpha:                     fmt.Sprintf("%d/%d", pool.AlphaNumerator, pool.AlphaDenominator),
		Lambda:                    fmt.Sprintf("%d/%d", pool.LambdaNumerator, pool.LambdaDenominator),
	}, nil
}

type paramsView struct {
	Epoch                        uint64 `yaml:"epoch"`
	ThawingPeriod                uint64 `yaml:"thawingPeriod"`
	MaxAllocationEpochs          uint64 `yaml:"maxAllocationEpochs"`
	ChannelDisputeEpochs         uint64 `yaml:"channelDisputeEpochs"`
	CurationPercentage           uint32 `yaml:"curationPercentage"`
	ProtocolPercentage           uint32 `yaml:"protocolPercentage"`
	DelegationRatio              uint32 `yaml:"delegationRatio"`
	MinimumIndexerStake          string `yaml:"minimumIndexerStake"`
	DelegationTaxPercentage      uint32 `yaml:"delegationTaxPercentage"`
	DelegationUnbondingPeriod    uint64 `yaml:"delegationUnbondingPeriod"`
	DelegationParametersCooldown uint64 `yaml:"delegationParametersCooldown"`
	Alpha                        string `yaml:"alpha"`
	Lambda                       string `yaml:"lambda"`
}

func inspectParams(_ *cli.Context, in *instance) (any, error) {
	p, err := in.engine.Parameters()
	if err != nil {
		return nil, err
	}
	return &paramsView{
		Epoch:                        in.clock.CurrentEpoch(),
		ThawingPeriod:                p.ThawingPeriod,
		MaxAllocationEpochs:          p.MaxAllocationEpochs,
		ChannelDisputeEpochs:         p.ChannelDisputeEpochs,
		CurationPercentage:           p.CurationPercentage,
		ProtocolPercentage:           p.ProtocolPercentage,
		DelegationRatio:              p.DelegationRatio,
		MinimumIndexerStake:          str(p.MinimumIndexerStake),
		DelegationTaxPercentage:      p.DelegationTaxPercentage,
		DelegationUnbondingPeriod:    p.DelegationUnbondingPeriod,
		DelegationParametersCooldown: p.DelegationParametersCooldown,
		Alpha:                        fmt.Sprintf("%d/%d", p.Rebate.AlphaNumerator, p.Rebate.AlphaDenominator),
		Lambda:                       fmt.Sprintf("%d/%d", p.Rebate.LambdaNumerator, p.Rebate.LambdaDenominator),
	}, nil
}
