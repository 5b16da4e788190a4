// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	engine "github.com/vechain/stakeledger/builtin/staking"
	"github.com/vechain/stakeledger/builtin/staking/allocation"
	"github.com/vechain/stakeledger/builtin/staking/delegation"
	"github.com/vechain/stakeledger/builtin/staking/rebate"
	"github.com/vechain/stakeledger/builtin/staking/stakes"
	"github.com/vechain/stakeledger/ledger"
)

func amount(b *big.Int) *math.HexOrDecimal256 {
	if b == nil {
		b = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(b))
}

type Stake struct {
	TokensStaked      *math.HexOrDecimal256 `json:"tokensStaked"`
	TokensAllocated   *math.HexOrDecimal256 `json:"tokensAllocated"`
	TokensLocked      *math.HexOrDecimal256 `json:"tokensLocked"`
	TokensLockedUntil uint64                `json:"tokensLockedUntil"`
	Capacity          *math.HexOrDecimal256 `json:"capacity"`
}

func convertStake(s *stakes.Stake, capacity *big.Int) *Stake {
	return &Stake{
		TokensStaked:      amount(s.TokensStaked),
		TokensAllocated:   amount(s.TokensAllocated),
		TokensLocked:      amount(s.TokensLocked),
		TokensLockedUntil: s.TokensLockedUntil,
		Capacity:          amount(capacity),
	}
}

type Allocation struct {
	Indexer             ledger.Address        `json:"indexer"`
	WorkloadID          ledger.Bytes32        `json:"workloadID"`
	Tokens              *math.HexOrDecimal256 `json:"tokens"`
	CreatedAtEpoch      uint64                `json:"createdAtEpoch"`
	ClosedAtEpoch       uint64                `json:"closedAtEpoch"`
	CollectedFees       *math.HexOrDecimal256 `json:"collectedFees"`
	EffectiveAllocation *math.HexOrDecimal256 `json:"effectiveAllocation"`
	Status              string                `json:"status"`
}

func convertAllocation(a *allocation.Allocation, status allocation.Status) *Allocation {
	return &Allocation{
		Indexer:             a.Indexer,
		WorkloadID:          a.WorkloadID,
		Tokens:              amount(a.Tokens),
		CreatedAtEpoch:      a.CreatedAtEpoch,
		ClosedAtEpoch:       a.ClosedAtEpoch,
		CollectedFees:       amount(a.CollectedFees),
		EffectiveAllocation: amount(a.EffectiveAllocation),
		Status:              status.String(),
	}
}

type DelegationPool struct {
	Tokens            *math.HexOrDecimal256 `json:"tokens"`
	Shares            *math.HexOrDecimal256 `json:"shares"`
	IndexingRewardCut uint32                `json:"indexingRewardCut"`
	QueryFeeCut       uint32                `json:"queryFeeCut"`
	CooldownEpochs    uint64                `json:"cooldownEpochs"`
	UpdatedAtEpoch    uint64                `json:"updatedAtEpoch"`
}

func convertPool(p *delegation.Pool) *DelegationPool {
	return &DelegationPool{
		Tokens:            amount(p.Tokens),
		Shares:            amount(p.Shares),
		IndexingRewardCut: p.IndexingRewardCut,
		QueryFeeCut:       p.QueryFeeCut,
		CooldownEpochs:    p.CooldownEpochs,
		UpdatedAtEpoch:    p.UpdatedAtEpoch,
	}
}

type Delegation struct {
	Shares            *math.HexOrDecimal256 `json:"shares"`
	Value             *math.HexOrDecimal256 `json:"value"` // tokens the shares redeem for
	TokensLocked      *math.HexOrDecimal256 `json:"tokensLocked"`
	TokensLockedUntil uint64                `json:"tokensLockedUntil"`
}

func convertDelegation(d *delegation.Delegation, pool *delegation.Pool) *Delegation {
	return &Delegation{
		Shares:            amount(d.Shares),
		Value:             amount(pool.TokensFor(d.Shares)),
		TokensLocked:      amount(d.TokensLocked),
		TokensLockedUntil: d.TokensLockedUntil,
	}
}

type RebatePool struct {
	Fees                      *math.HexOrDecimal256 `json:"fees"`
	EffectiveAllocatedStake   *math.HexOrDecimal256 `json:"effectiveAllocatedStake"`
	ClaimedRewards            *math.HexOrDecimal256 `json:"claimedRewards"`
	Outstanding               *math.HexOrDecimal256 `json:"outstanding"`
	UnclaimedAllocationsCount uint64                `json:"unclaimedAllocationsCount"`
	AlphaNumerator            uint32                `json:"alphaNumerator"`
	AlphaDenominator          uint32                `json:"alphaDenominator"`
	LambdaNumerator           uint32                `json:"lambdaNumerator"`
	LambdaDenominator         uint32                `json:"lambdaDenominator"`
}

func convertRebatePool(p *rebate.Pool) *RebatePool {
	return &RebatePool{
		Fees:                      amount(p.Fees),
		EffectiveAllocatedStake:   amount(p.EffectiveAllocatedStake),
		ClaimedRewards:            amount(p.ClaimedRewards),
		Outstanding:               amount(p.Outstanding()),
		UnclaimedAllocationsCount: p.UnclaimedAllocationsCount,
		AlphaNumerator:            p.AlphaNumerator,
		AlphaDenominator:          p.AlphaDenominator,
		LambdaNumerator:           p.LambdaNumerator,
		LambdaDenominator:         p.LambdaDenominator,
	}
}

type Params struct {
	ThawingPeriod                uint64                `json:"thawingPeriod"`
	MaxAllocationEpochs          uint64                `json:"maxAllocationEpochs"`
	ChannelDisputeEpochs         uint64                `json:"channelDisputeEpochs"`
	CurationPercentage           uint32                `json:"curationPercentage"`
	ProtocolPercentage           uint32                `json:"protocolPercentage"`
	DelegationRatio              uint32                `json:"delegationRatio"`
	MinimumIndexerStake          *math.HexOrDecimal256 `json:"minimumIndexerStake"`
	DelegationTaxPercentage      uint32                `json:"delegationTaxPercentage"`
	DelegationUnbondingPeriod    uint64                `json:"delegationUnbondingPeriod"`
	DelegationParametersCooldown uint64                `json:"delegationParametersCooldown"`
	AlphaNumerator               uint32                `json:"alphaNumerator"`
	AlphaDenominator             uint32                `json:"alphaDenominator"`
	LambdaNumerator              uint32                `json:"lambdaNumerator"`
	LambdaDenominator            uint32                `json:"lambdaDenominator"`
}

func convertParams(p *engine.Parameters) *Params {
	return &Params{
		ThawingPeriod:                p.ThawingPeriod,
		MaxAllocationEpochs:          p.MaxAllocationEpochs,
		ChannelDisputeEpochs:         p.ChannelDisputeEpochs,
		CurationPercentage:           p.CurationPercentage,
		ProtocolPercentage:           p.ProtocolPercentage,
		DelegationRatio:              p.DelegationRatio,
		MinimumIndexerStake:          amount(p.MinimumIndexerStake),
		DelegationTaxPercentage:      p.DelegationTaxPercentage,
		DelegationUnbondingPeriod:    p.DelegationUnbondingPeriod,
		DelegationParametersCooldown: p.DelegationParametersCooldown,
		AlphaNumerator:               p.Rebate.AlphaNumerator,
		AlphaDenominator:             p.Rebate.AlphaDenominator,
		LambdaNumerator:              p.Rebate.LambdaNumerator,
		LambdaDenominator:            p.Rebate.LambdaDenominator,
	}
}
