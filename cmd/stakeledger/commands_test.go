// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakeledger/genesis"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/test/datagen"
)

const (
	minStake  = "100000000000000000000000" // 100k tokens
	stakedAmt = "200000000000000000000000"
)

type testLedger struct {
	t       *testing.T
	dir     string
	account ledger.Address
}

func newTestLedger(t *testing.T) *testLedger {
	l := &testLedger{t: t, dir: t.TempDir(), account: genesis.DevAccounts()[0].Address}
	out, err := l.run("init", "--dev")
	require.NoError(t, err)
	require.Contains(t, out, "account 0: "+l.account.String())
	return l
}

func (l *testLedger) run(args ...string) (string, error) {
	var buf bytes.Buffer
	output = &buf
	defer func() { output = os.Stdout }()

	err := newApp().Run(append([]string{"stakeledger", "--datadir", l.dir}, args...))
	return buf.String(), err
}

func (l *testLedger) inspect(v any, args ...string) {
	l.t.Helper()
	out, err := l.run(append([]string{"--caller", l.account.String(), "inspect"}, args...)...)
	require.NoError(l.t, err)
	require.NoError(l.t, yaml.Unmarshal([]byte(out), v))
}

func TestInit(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.run("init", "--dev")
	assert.NoError(t, err, "re-initializing the same network is a no-op")

	_, err = l.run("init")
	assert.Error(t, err)

	_, err = (&testLedger{t: t, dir: t.TempDir()}).run("--caller", l.account.String(), "withdraw")
	assert.ErrorIs(t, err, errNotInited)
}

func TestStakeAndInspect(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.run("--caller", l.account.String(), "stake", "--amount", stakedAmt)
	require.NoError(t, err)

	var stake stakeView
	l.inspect(&stake, "stake")
	assert.Equal(t, l.account, stake.Indexer)
	assert.Equal(t, stakedAmt, stake.TokensStaked)
	assert.Equal(t, "0", stake.TokensAllocated)

	var acc accountView
	l.inspect(&acc, "account")
	assert.Equal(t, "9800000000000000000000000", acc.Balance)

	// below the minimum indexer stake
	other := genesis.DevAccounts()[1].Address
	_, err = l.run("--caller", other.String(), "stake", "--amount", "1")
	assert.Error(t, err)
}

func TestEpochNeverGoesBack(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.run("--epoch", "5", "--caller", l.account.String(), "stake", "--amount", minStake)
	require.NoError(t, err)

	var p paramsView
	l.inspect(&p, "params")
	assert.Equal(t, uint64(5), p.Epoch)

	_, err = l.run("--epoch", "3", "--caller", l.account.String(), "stake", "--amount", minStake)
	assert.Error(t, err)
}

func TestAllocationLifecycle(t *testing.T) {
	l := newTestLedger(t)
	caller := l.account.String()

	_, err := l.run("--caller", caller, "stake", "--amount", stakedAmt)
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	id := ledger.Address(crypto.PubkeyToAddress(key.PublicKey))

	out, err := l.run("--caller", caller, "allocate",
		"--workload", datagen.RandomHash().String(),
		"--amount", minStake,
		"--key", hex.EncodeToString(crypto.FromECDSA(key)))
	require.NoError(t, err)
	assert.Contains(t, out, "allocation: "+id.String())
	assert.NotContains(t, out, "key:")

	var allocs []allocationView
	l.inspect(&allocs, "allocation", "--allocation", id.String())
	require.Len(t, allocs, 1)
	assert.Equal(t, "active", allocs[0].Status)
	assert.Equal(t, minStake, allocs[0].Tokens)

	var stake stakeView
	l.inspect(&stake, "stake")
	assert.Equal(t, minStake, stake.TokensAllocated)

	// not closable in the epoch it was created
	_, err = l.run("--caller", caller, "close", "--allocation", id.String())
	assert.Error(t, err)

	_, err = l.run("--epoch", "3", "--caller", caller, "close", "--allocation", id.String())
	require.NoError(t, err)

	l.inspect(&allocs, "allocation", "--allocation", id.String())
	assert.Equal(t, "closed", allocs[0].Status)
	assert.Equal(t, uint64(3), allocs[0].ClosedAtEpoch)

	var pool rebateView
	l.inspect(&pool, "rebate", "--at", "3")
	assert.Equal(t, uint64(1), pool.UnclaimedAllocationsCount)
}

func TestDelegate(t *testing.T) {
	l := newTestLedger(t)
	delegator := genesis.DevAccounts()[2].Address

	_, err := l.run("--caller", l.account.String(), "stake", "--amount", stakedAmt)
	require.NoError(t, err)

	out, err := l.run("--caller", delegator.String(), "delegate", "--indexer", l.account.String(), "--amount", minStake)
	require.NoError(t, err)
	assert.Contains(t, out, "shares:")

	var del delegationView
	l.inspect(&del, "delegation", "--indexer", l.account.String(), "--delegator", delegator.String())
	assert.NotEqual(t, "0", del.Shares)

	var pool poolView
	l.inspect(&pool, "pool")
	assert.Equal(t, del.Shares, pool.Shares)
}

func TestSetParam(t *testing.T) {
	l := newTestLedger(t)
	governor := l.account.String()

	_, err := l.run("--caller", governor, "set-param", "curation-percentage", "20000")
	require.NoError(t, err)
	_, err = l.run("--caller", governor, "set-param", "rebate-ratio", "1,1,6,10")
	require.NoError(t, err)

	var p paramsView
	l.inspect(&p, "params")
	assert.Equal(t, uint32(20000), p.CurationPercentage)
	assert.Equal(t, "1/1", p.Alpha)
	assert.Equal(t, "6/10", p.Lambda)

	tests := []struct {
		name string
		args []string
	}{
		{"not governor", []string{"--caller", genesis.DevAccounts()[1].Address.String(), "set-param", "curation-percentage", "1"}},
		{"unknown param", []string{"--caller", governor, "set-param", "no-such-param", "1"}},
		{"missing value", []string{"--caller", governor, "set-param", "thawing-period"}},
		{"bad value", []string{"--caller", governor, "set-param", "thawing-period", "soon"}},
		{"rebate ratio arity", []string{"--caller", governor, "set-param", "rebate-ratio", "1,2,3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.run(tt.args...)
			assert.Error(t, err)
		})
	}

	l.inspect(&p, "params")
	assert.Equal(t, uint32(20000), p.CurationPercentage, "failed commands must not commit")
}
