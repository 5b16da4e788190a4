// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/builtin/staking"
	"github.com/vechain/stakeledger/builtin/staking/allocation"
	"github.com/vechain/stakeledger/genesis"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/state"
)

// operation runs fn against an opened ledger and commits when it succeeds.
func operation(fn func(ctx *cli.Context, in *instance) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		in, err := openInstance(ctx, false)
		if err != nil {
			return err
		}
		defer in.Close()

		if err := fn(ctx, in); err != nil {
			return err
		}
		return in.commit()
	}
}

func initAction(ctx *cli.Context) error {
	var gene *genesis.Genesis
	switch {
	case ctx.Bool(devFlag.Name):
		gene = genesis.NewDevnet()
	case ctx.String(genesisFlag.Name) != "":
		gen, err := genesis.LoadCustomGenesis(ctx.String(genesisFlag.Name))
		if err != nil {
			return err
		}
		if gene, err = genesis.NewCustomNet(gen); err != nil {
			return errors.Wrap(err, "build genesis")
		}
	default:
		return fmt.Errorf("either -%s or -%s is required", genesisFlag.Name, devFlag.Name)
	}

	db, err := openMainDB(ctx, false)
	if err != nil {
		return err
	}
	defer db.Close()

	existing, err := state.New(db).GetRawStorage(metaAddress, metaGenesis)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		if ledger.BytesToBytes32(existing) != gene.ID() {
			return fmt.Errorf("data dir already holds network %v", ledger.BytesToBytes32(existing))
		}
		log.Root().Info("already initialized", "network", gene.Name(), "genesis", gene.ID())
		return nil
	}

	id, err := gene.Build(db)
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}
	st := state.New(db)
	writeMeta(st, id, gene.Epoch())
	if err := st.Stage().Commit(); err != nil {
		return err
	}

	log.Root().Info("initialized", "network", gene.Name(), "genesis", id, "epoch", gene.Epoch())
	if gene.Name() == "devnet" {
		for i, a := range genesis.DevAccounts() {
			fmt.Fprintf(output, "account %d: %v\n", i, a.Address)
		}
	}
	return nil
}

func stakeAction(ctx *cli.Context, in *instance) error {
	from, err := caller(ctx)
	if err != nil {
		return err
	}
	indexer, err := addressOr(ctx, indexerFlag.Name, from)
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx, amountFlag.Name)
	if err != nil {
		return err
	}
	return in.engine.Stake(from, indexer, amount)
}

func unstakeAction(ctx *cli.Context, in *instance) error {
	indexer, err := caller(ctx)
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx, amountFlag.Name)
	if err != nil {
		return err
	}
	withdrawn, err := in.engine.Unstake(indexer, amount)
	if err != nil {
		return err
	}
	fmt.Fprintln(output, "withdrawn:", withdrawn)
	return nil
}

func withdrawAction(ctx *cli.Context, in *instance) error {
	indexer, err := caller(ctx)
	if err != nil {
		return err
	}
	amount, err := in.engine.Withdraw(indexer)
	if err != nil {
		return err
	}
	fmt.Fprintln(output, "withdrawn:", amount)
	return nil
}

func setOperatorAction(ctx *cli.Context, in *instance) error {
	indexer, err := caller(ctx)
	if err != nil {
		return err
	}
	operator, err := requiredAddress(ctx, operatorFlag.Name)
	if err != nil {
		return err
	}
	return in.engine.SetOperator(indexer, operator, !ctx.Bool(revokeFlag.Name))
}

func allocationKey(ctx *cli.Context) (*ecdsa.PrivateKey, bool, error) {
	if s := ctx.String(keyFlag.Name); s != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, false, errors.Wrap(err, "-"+keyFlag.Name)
		}
		return key, false, nil
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}

func allocateAction(ctx *cli.Context, in *instance) error {
	from, err := caller(ctx)
	if err != nil {
		return err
	}
	indexer, err := addressOr(ctx, indexerFlag.Name, from)
	if err != nil {
		return err
	}
	if ctx.String(workloadFlag.Name) == "" {
		return fmt.Errorf("-%s is required", workloadFlag.Name)
	}
	workload, err := ledger.ParseBytes32(ctx.String(workloadFlag.Name))
	if err != nil {
		return errors.Wrap(err, "-"+workloadFlag.Name)
	}
	tokens, err := parseAmount(ctx, amountFlag.Name)
	if err != nil {
		return err
	}
	key, generated, err := allocationKey(ctx)
	if err != nil {
		return err
	}
	proof, err := allocation.SignProof(key, indexer)
	if err != nil {
		return err
	}

	req := staking.AllocateRequest{
		Indexer:      indexer,
		WorkloadID:   workload,
		Tokens:       tokens,
		AllocationID: ledger.Address(crypto.PubkeyToAddress(key.PublicKey)),
		Proof:        proof,
	}
	if len(ctx.StringSlice(allocationFlag.Name)) > 0 {
		ids, err := parseAllocationIDs(ctx)
		if err != nil {
			return err
		}
		if len(ids) != 1 {
			return fmt.Errorf("-%s: exactly one allocation can be closed", allocationFlag.Name)
		}
		if err := in.engine.CloseAndAllocate(from, ids[0], req); err != nil {
			return err
		}
	} else if err := in.engine.Allocate(from, req); err != nil {
		return err
	}

	fmt.Fprintln(output, "allocation:", req.AllocationID)
	if generated {
		fmt.Fprintln(output, "key:", hex.EncodeToString(crypto.FromECDSA(key)))
	}
	return nil
}

func closeAction(ctx *cli.Context, in *instance) error {
	from, err := caller(ctx)
	if err != nil {
		return err
	}
	ids, err := parseAllocationIDs(ctx)
	if err != nil {
		return err
	}
	return in.engine.CloseAllocationMany(from, ids)
}

func collectAction(ctx *cli.Context, in *instance) error {
	payer, err := caller(ctx)
	if err != nil {
		return err
	}
	ids, err := parseAllocationIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return fmt.Errorf("-%s: exactly one allocation is accepted", allocationFlag.Name)
	}
	amount, err := parseAmount(ctx, amountFlag.Name)
	if err != nil {
		return err
	}
	return in.engine.Collect(payer, amount, ids[0])
}

func claimAction(ctx *cli.Context, in *instance) error {
	from, err := caller(ctx)
	if err != nil {
		return err
	}
	ids, err := parseAllocationIDs(ctx)
	if err != nil {
		return err
	}
	rebates, err := in.engine.ClaimMany(from, ids, ctx.Bool(restakeFlag.Name))
	if err != nil {
		return err
	}
	for i, id := range ids {
		fmt.Fprintf(output, "%v rebate: %v\n", id, rebates[i])
	}
	return nil
}

func delegateAction(ctx *cli.Context, in *instance) error {
	delegator, err := caller(ctx)
	if err != nil {
		return err
	}
	indexer, err := requiredAddress(ctx, indexerFlag.Name)
	if err != nil {
		return err
	}
	tokens, err := parseAmount(ctx, amountFlag.Name)
	if err != nil {
		return err
	}
	shares, err := in.engine.Delegate(delegator, indexer, tokens)
	if err != nil {
		return err
	}
	fmt.Fprintln(output, "shares:", shares)
	return nil
}

func undelegateAction(ctx *cli.Context, in *instance) error {
	delegator, err := caller(ctx)
	if err != nil {
		return err
	}
	indexer, err := requiredAddress(ctx, indexerFlag.Name)
	if err != nil {
		return err
	}
	shares, err := parseAmount(ctx, sharesFlag.Name)
	if err != nil {
		return err
	}
	tokens, withdrawn, err := in.engine.Undelegate(delegator, indexer, shares)
	if err != nil {
		return err
	}
	fmt.Fprintln(output, "locked:", tokens)
	fmt.Fprintln(output, "withdrawn:", withdrawn)
	return nil
}

func withdrawDelegatedAction(ctx *cli.Context, in *instance) error {
	delegator, err := caller(ctx)
	if err != nil {
		return err
	}
	indexer, err := requiredAddress(ctx, indexerFlag.Name)
	if err != nil {
		return err
	}
	newIndexer, err := addressOr(ctx, newIndexerFlag.Name, ledger.Address{})
	if err != nil {
		return err
	}
	tokens, err := in.engine.WithdrawDelegated(delegator, indexer, newIndexer)
	if err != nil {
		return err
	}
	if newIndexer.IsZero() {
		fmt.Fprintln(output, "withdrawn:", tokens)
	} else {
		fmt.Fprintln(output, "redelegated:", tokens)
	}
	return nil
}

func uint32Flag(ctx *cli.Context, name string) (uint32, error) {
	v := ctx.Uint64(name)
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("-%s: value out of range", name)
	}
	return uint32(v), nil
}

func delegationParamsAction(ctx *cli.Context, in *instance) error {
	indexer, err := caller(ctx)
	if err != nil {
		return err
	}
	irc, err := uint32Flag(ctx, indexingRewardCutFlag.Name)
	if err != nil {
		return err
	}
	qfc, err := uint32Flag(ctx, queryFeeCutFlag.Name)
	if err != nil {
		return err
	}
	return in.engine.SetDelegationParameters(indexer, irc, qfc, ctx.Uint64(cooldownFlag.Name))
}

func slashAction(ctx *cli.Context, in *instance) error {
	slasher, err := caller(ctx)
	if err != nil {
		return err
	}
	indexer, err := requiredAddress(ctx, indexerFlag.Name)
	if err != nil {
		return err
	}
	amount, err := parseAmount(ctx, amountFlag.Name)
	if err != nil {
		return err
	}
	reward, err := parseAmount(ctx, rewardFlag.Name)
	if err != nil {
		return err
	}
	beneficiary, err := requiredAddress(ctx, beneficiaryFlag.Name)
	if err != nil {
		return err
	}
	return in.engine.Slash(slasher, indexer, amount, reward, beneficiary)
}

func parseUint(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, bits)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid value %q", s)
	}
	return v, nil
}

type paramSetter func(e *staking.Engine, governor ledger.Address, value string) error

func uint64Param(set func(e *staking.Engine, governor ledger.Address, value uint64) error) paramSetter {
	return func(e *staking.Engine, governor ledger.Address, value string) error {
		v, err := parseUint(value, 64)
		if err != nil {
			return err
		}
		return set(e, governor, v)
	}
}

func uint32Param(set func(e *staking.Engine, governor ledger.Address, value uint32) error) paramSetter {
	return func(e *staking.Engine, governor ledger.Address, value string) error {
		v, err := parseUint(value, 32)
		if err != nil {
			return err
		}
		return set(e, governor, uint32(v))
	}
}

var paramSetters = map[string]paramSetter{
	"thawing-period":                 uint64Param((*staking.Engine).SetThawingPeriod),
	"max-allocation-epochs":          uint64Param((*staking.Engine).SetMaxAllocationEpochs),
	"channel-dispute-epochs":         uint64Param((*staking.Engine).SetChannelDisputeEpochs),
	"curation-percentage":            uint32Param((*staking.Engine).SetCurationPercentage),
	"protocol-percentage":            uint32Param((*staking.Engine).SetProtocolPercentage),
	"delegation-ratio":               uint32Param((*staking.Engine).SetDelegationRatio),
	"delegation-tax-percentage":      uint32Param((*staking.Engine).SetDelegationTaxPercentage),
	"delegation-unbonding-period":    uint64Param((*staking.Engine).SetDelegationUnbondingPeriod),
	"delegation-parameters-cooldown": uint64Param((*staking.Engine).SetDelegationParametersCooldown),
	"minimum-indexer-stake": func(e *staking.Engine, governor ledger.Address, value string) error {
		v, ok := new(big.Int).SetString(strings.TrimSpace(value), 0)
		if !ok {
			return fmt.Errorf("invalid value %q", value)
		}
		return e.SetMinimumIndexerStake(governor, v)
	},
	// alpha-numerator,alpha-denominator,lambda-numerator,lambda-denominator
	"rebate-ratio": func(e *staking.Engine, governor ledger.Address, value string) error {
		parts := strings.Split(value, ",")
		if len(parts) != 4 {
			return fmt.Errorf("rebate ratio takes 4 comma separated values, got %q", value)
		}
		var r [4]uint32
		for i, p := range parts {
			v, err := parseUint(p, 32)
			if err != nil {
				return err
			}
			r[i] = uint32(v)
		}
		return e.SetRebateRatio(governor, r[0], r[1], r[2], r[3])
	},
}

func paramNames() string {
	names := make([]string, 0, len(paramSetters))
	for name := range paramSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func setParamAction(ctx *cli.Context, in *instance) error {
	governor, err := caller(ctx)
	if err != nil {
		return err
	}
	if ctx.NArg() != 2 {
		return fmt.Errorf("usage: set-param <name> <value>, names: %s", paramNames())
	}
	set, ok := paramSetters[ctx.Args().Get(0)]
	if !ok {
		return fmt.Errorf("unknown param %q, names: %s", ctx.Args().Get(0), paramNames())
	}
	return set(in.engine, governor, ctx.Args().Get(1))
}
