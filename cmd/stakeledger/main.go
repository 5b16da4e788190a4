// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	return &cli.App{
		Version:   fullVersion(),
		Name:      "StakeLedger",
		Usage:     "Indexer staking ledger",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			epochFlag,
			callerFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Before: initLogger,
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "Initialize the ledger from a genesis",
				Flags:  []cli.Flag{genesisFlag, devFlag},
				Action: initAction,
			},
			{
				Name:   "stake",
				Usage:  "Deposit tokens as stake for an indexer",
				Flags:  []cli.Flag{indexerFlag, amountFlag},
				Action: operation(stakeAction),
			},
			{
				Name:   "unstake",
				Usage:  "Lock staked tokens for withdrawal",
				Flags:  []cli.Flag{amountFlag},
				Action: operation(unstakeAction),
			},
			{
				Name:   "withdraw",
				Usage:  "Withdraw thawed stake",
				Action: operation(withdrawAction),
			},
			{
				Name:   "set-operator",
				Usage:  "Authorize or revoke an operator",
				Flags:  []cli.Flag{operatorFlag, revokeFlag},
				Action: operation(setOperatorAction),
			},
			{
				Name:   "allocate",
				Usage:  "Open an allocation, optionally closing another one",
				Flags:  []cli.Flag{indexerFlag, workloadFlag, amountFlag, keyFlag, allocationFlag},
				Action: operation(allocateAction),
			},
			{
				Name:   "close",
				Usage:  "Close one or more allocations",
				Flags:  []cli.Flag{allocationFlag},
				Action: operation(closeAction),
			},
			{
				Name:   "collect",
				Usage:  "Pay query fees to an allocation",
				Flags:  []cli.Flag{allocationFlag, amountFlag},
				Action: operation(collectAction),
			},
			{
				Name:   "claim",
				Usage:  "Claim rebates of finalized allocations",
				Flags:  []cli.Flag{allocationFlag, restakeFlag},
				Action: operation(claimAction),
			},
			{
				Name:   "delegate",
				Usage:  "Delegate tokens to an indexer",
				Flags:  []cli.Flag{indexerFlag, amountFlag},
				Action: operation(delegateAction),
			},
			{
				Name:   "undelegate",
				Usage:  "Burn delegation shares and lock the tokens",
				Flags:  []cli.Flag{indexerFlag, sharesFlag},
				Action: operation(undelegateAction),
			},
			{
				Name:   "withdraw-delegated",
				Usage:  "Withdraw or redelegate unbonded tokens",
				Flags:  []cli.Flag{indexerFlag, newIndexerFlag},
				Action: operation(withdrawDelegatedAction),
			},
			{
				Name:   "delegation-params",
				Usage:  "Set the caller's delegation parameters",
				Flags:  []cli.Flag{indexingRewardCutFlag, queryFeeCutFlag, cooldownFlag},
				Action: operation(delegationParamsAction),
			},
			{
				Name:   "slash",
				Usage:  "Slash an indexer's stake",
				Flags:  []cli.Flag{indexerFlag, amountFlag, rewardFlag, beneficiaryFlag},
				Action: operation(slashAction),
			},
			{
				Name:      "set-param",
				Usage:     "Update a network parameter (governor only)",
				ArgsUsage: "<name> <value>",
				Action:    operation(setParamAction),
			},
			{
				Name:  "inspect",
				Usage: "Print ledger records",
				Subcommands: []cli.Command{
					{Name: "account", Usage: "token balance", Flags: []cli.Flag{indexerFlag}, Action: view(inspectAccount)},
					{Name: "stake", Usage: "indexer stake", Flags: []cli.Flag{indexerFlag}, Action: view(inspectStake)},
					{Name: "allocation", Usage: "allocations", Flags: []cli.Flag{allocationFlag}, Action: view(inspectAllocation)},
					{Name: "pool", Usage: "delegation pool", Flags: []cli.Flag{indexerFlag}, Action: view(inspectPool)},
					{Name: "delegation", Usage: "delegation", Flags: []cli.Flag{indexerFlag, delegatorFlag}, Action: view(inspectDelegation)},
					{Name: "rebate", Usage: "rebate pool", Flags: []cli.Flag{epochArgFlag}, Action: view(inspectRebate)},
					{Name: "params", Usage: "network parameters", Action: view(inspectParams)},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the read-only HTTP API",
				Flags:  []cli.Flag{apiAddrFlag, apiCorsFlag},
				Action: serveAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}
