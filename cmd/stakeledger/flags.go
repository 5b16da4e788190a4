// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Value: defaultDataDir(),
		Usage: "directory for the ledger database",
	}
	epochFlag = cli.Uint64Flag{
		Name:  "epoch",
		Usage: "current epoch (defaults to the last committed epoch)",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "address the operation is performed by",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}

	// init
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a YAML genesis file",
	}
	devFlag = cli.BoolFlag{
		Name:  "dev",
		Usage: "initialize with the dev network genesis",
	}

	// operations
	indexerFlag = cli.StringFlag{
		Name:  "indexer",
		Usage: "indexer address (defaults to caller)",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "token amount, decimal or 0x-prefixed hex",
	}
	sharesFlag = cli.StringFlag{
		Name:  "shares",
		Usage: "delegation shares, decimal or 0x-prefixed hex",
	}
	operatorFlag = cli.StringFlag{
		Name:  "operator",
		Usage: "operator address",
	}
	revokeFlag = cli.BoolFlag{
		Name:  "revoke",
		Usage: "revoke instead of grant",
	}
	workloadFlag = cli.StringFlag{
		Name:  "workload",
		Usage: "workload identifier (32 bytes hex)",
	}
	allocationFlag = cli.StringSliceFlag{
		Name:  "allocation",
		Usage: "allocation ID, may be repeated where several are accepted",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "allocation private key as hex (a new one is generated if omitted)",
	}
	restakeFlag = cli.BoolFlag{
		Name:  "restake",
		Usage: "restake the rebate instead of withdrawing it",
	}
	newIndexerFlag = cli.StringFlag{
		Name:  "new-indexer",
		Usage: "redelegate the withdrawn tokens to this indexer",
	}
	rewardFlag = cli.StringFlag{
		Name:  "reward",
		Value: "0",
		Usage: "part of the slashed amount paid to the beneficiary",
	}
	beneficiaryFlag = cli.StringFlag{
		Name:  "beneficiary",
		Usage: "address receiving the slash reward",
	}
	indexingRewardCutFlag = cli.Uint64Flag{
		Name:  "indexing-reward-cut",
		Usage: "ppm of indexing rewards kept by the indexer",
	}
	queryFeeCutFlag = cli.Uint64Flag{
		Name:  "query-fee-cut",
		Usage: "ppm of query fee rebates kept by the indexer",
	}
	cooldownFlag = cli.Uint64Flag{
		Name:  "cooldown",
		Usage: "epochs before the delegation parameters can change again",
	}
	epochArgFlag = cli.Uint64Flag{
		Name:  "at",
		Usage: "rebate pool epoch",
	}
	delegatorFlag = cli.StringFlag{
		Name:  "delegator",
		Usage: "delegator address (defaults to caller)",
	}

	// serve
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
)
