// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/builtin/acl"
	"github.com/vechain/stakeledger/builtin/curation"
	"github.com/vechain/stakeledger/builtin/params"
	"github.com/vechain/stakeledger/builtin/staking/allocation"
	"github.com/vechain/stakeledger/builtin/token"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/test/datagen"
)

var (
	engineAddress   = ledger.BytesToAddress([]byte("staking"))
	tokenAddress    = ledger.BytesToAddress([]byte("token"))
	aclAddress      = ledger.BytesToAddress([]byte("acl"))
	curationAddress = ledger.BytesToAddress([]byte("curation"))
	paramsAddress   = ledger.BytesToAddress([]byte("params"))

	governor = ledger.BytesToAddress([]byte("governor"))
	slasher  = ledger.BytesToAddress([]byte("slasher"))
)

type testEnv struct {
	state    *state.State
	clock    *clock.Manual
	token    *token.Token
	acl      *acl.ACL
	curation *curation.Curation
	params   *params.Params
	engine   *Engine
}

// newTestEnv starts at epoch 1 with a minimum indexer stake of 100 and default params otherwise.
func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	env := &testEnv{
		state:    st,
		clock:    clock.NewManual(1),
		token:    token.New(tokenAddress, st),
		acl:      acl.New(aclAddress, st),
		curation: curation.New(curationAddress, st),
		params:   params.New(paramsAddress, st),
	}
	_, err = env.acl.Grant(acl.Governor, governor)
	require.NoError(t, err)
	_, err = env.acl.Grant(acl.Slasher, slasher)
	require.NoError(t, err)
	require.NoError(t, env.params.Set(ledger.KeyMinimumIndexerStake, big.NewInt(100)))

	env.engine = New(engineAddress, st, env.params, env.clock, Collaborators{
		Token:           env.token,
		Curation:        env.curation,
		CurationAddress: curationAddress,
		Authority:       env.acl,
	})
	return env
}

func (env *testEnv) fund(t *testing.T, addr ledger.Address, amount int64) {
	t.Helper()
	require.NoError(t, env.token.Mint(addr, big.NewInt(amount)))
}

func (env *testEnv) balance(t *testing.T, addr ledger.Address) *big.Int {
	t.Helper()
	bal, err := env.token.BalanceOf(addr)
	require.NoError(t, err)
	return bal
}

func (env *testEnv) burned(t *testing.T) *big.Int {
	t.Helper()
	burned, err := env.token.TotalBurned()
	require.NoError(t, err)
	return burned
}

// newIndexer funds and stakes a fresh indexer.
func (env *testEnv) newIndexer(t *testing.T, stake int64) ledger.Address {
	t.Helper()
	indexer := datagen.RandAddress()
	env.fund(t, indexer, stake)
	require.NoError(t, env.engine.Stake(indexer, indexer, big.NewInt(stake)))
	return indexer
}

// zeroFeeCuts disables the protocol and curation cuts of collected fees.
func (env *testEnv) zeroFeeCuts(t *testing.T) {
	t.Helper()
	require.NoError(t, env.engine.SetProtocolPercentage(governor, 0))
	require.NoError(t, env.engine.SetCurationPercentage(governor, 0))
}

func newAllocation(t *testing.T, indexer ledger.Address, tokens int64) AllocateRequest {
	t.Helper()
	key, id := datagen.RandKey()
	proof, err := allocation.SignProof(key, indexer)
	require.NoError(t, err)
	return AllocateRequest{
		Indexer:      indexer,
		WorkloadID:   datagen.RandomHash(),
		Tokens:       big.NewInt(tokens),
		AllocationID: id,
		Proof:        proof,
	}
}

func assertBig(t *testing.T, expected int64, actual *big.Int, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, big.NewInt(expected).String(), actual.String(), msgAndArgs...)
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *testEnv

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: env}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Stake(indexer ledger.Address, amount int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.env.fund(t, indexer, amount)
		if err := st.env.engine.Stake(indexer, indexer, big.NewInt(amount)); err != nil {
			t.Fatalf("failed to stake for %s: %v", indexer, err)
		}
		t.Logf("staked %d for %s", amount, indexer)
	})
}

func (st *TestSequence) Allocate(req AllocateRequest) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.engine.Allocate(req.Indexer, req); err != nil {
			t.Fatalf("failed to allocate %s: %v", req.AllocationID, err)
		}
		t.Logf("allocated %s tokens to %s", req.Tokens, req.AllocationID)
	})
}

func (st *TestSequence) Advance(epochs uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		epoch := st.env.clock.Advance(epochs)
		t.Logf("advanced to epoch %d", epoch)
	})
}

func (st *TestSequence) Close(caller, id ledger.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.engine.CloseAllocation(caller, id); err != nil {
			t.Fatalf("failed to close %s: %v", id, err)
		}
		t.Logf("closed %s", id)
	})
}

func (st *TestSequence) Collect(payer ledger.Address, amount int64, id ledger.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.env.fund(t, payer, amount)
		if err := st.env.engine.Collect(payer, big.NewInt(amount), id); err != nil {
			t.Fatalf("failed to collect for %s: %v", id, err)
		}
		t.Logf("collected %d for %s", amount, id)
	})
}

func (st *TestSequence) Claim(caller, id ledger.Address, restake bool, expected int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		rebate, err := st.env.engine.Claim(caller, id, restake)
		if err != nil {
			t.Fatalf("failed to claim %s: %v", id, err)
		}
		assertBig(t, expected, rebate, "rebate of %s", id)
		t.Logf("claimed %s for %s", rebate, id)
	})
}

func (st *TestSequence) Delegate(delegator, indexer ledger.Address, tokens int64, expectedShares int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.env.fund(t, delegator, tokens)
		shares, err := st.env.engine.Delegate(delegator, indexer, big.NewInt(tokens))
		if err != nil {
			t.Fatalf("failed to delegate to %s: %v", indexer, err)
		}
		assertBig(t, expectedShares, shares, "shares minted to %s", delegator)
		t.Logf("delegated %d to %s", tokens, indexer)
	})
}

func (st *TestSequence) AssertStake(indexer ledger.Address, staked, allocated, locked int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		stake, err := st.env.engine.GetStake(indexer)
		require.NoError(t, err)
		assertBig(t, staked, stake.TokensStaked, "staked")
		assertBig(t, allocated, stake.TokensAllocated, "allocated")
		assertBig(t, locked, stake.TokensLocked, "locked")
	})
}

func (st *TestSequence) AssertStatus(id ledger.Address, expected allocation.Status) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		status, err := st.env.engine.GetAllocationState(id)
		require.NoError(t, err)
		assert.Equal(t, expected, status, "status of %s", id)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}
