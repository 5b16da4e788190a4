// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/api"
	"github.com/vechain/stakeledger/api/accounts"
	"github.com/vechain/stakeledger/api/staking"
	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/builtin/acl"
	engine "github.com/vechain/stakeledger/builtin/staking"
	"github.com/vechain/stakeledger/builtin/staking/allocation"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/test/datagen"
)

type fixture struct {
	ts           *httptest.Server
	indexer      ledger.Address
	allocationID ledger.Address
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	clk := clock.NewManual(1)
	governor := datagen.RandAddress()
	indexer := datagen.RandAddress()

	_, err = builtin.ACL.WithState(st).Grant(acl.Governor, governor)
	require.NoError(t, err)
	require.NoError(t, builtin.Token.WithState(st).Mint(indexer, big.NewInt(1000)))

	e := builtin.Staking.WithState(st, clk)
	require.NoError(t, e.SetMinimumIndexerStake(governor, big.NewInt(100)))
	require.NoError(t, e.Stake(indexer, indexer, big.NewInt(500)))

	key, id := datagen.RandKey()
	proof, err := allocation.SignProof(key, indexer)
	require.NoError(t, err)
	require.NoError(t, e.Allocate(indexer, engine.AllocateRequest{
		Indexer:      indexer,
		WorkloadID:   datagen.RandomHash(),
		Tokens:       big.NewInt(200),
		AllocationID: id,
		Proof:        proof,
	}))
	_, err = e.Commit()
	require.NoError(t, err)

	ts := httptest.NewServer(api.New(st, clk, api.Options{AllowedOrigins: "*", EnableMetrics: true}))
	t.Cleanup(ts.Close)
	return &fixture{ts, indexer, id}
}

func (f *fixture) get(t *testing.T, path string, v any) int {
	t.Helper()
	res, err := http.Get(f.ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.Unmarshal(body, v))
	}
	return res.StatusCode
}

func toBig(v *math.HexOrDecimal256) string {
	return (*big.Int)(v).String()
}

func TestAccounts(t *testing.T) {
	f := newFixture(t)

	var acc accounts.Account
	require.Equal(t, http.StatusOK, f.get(t, "/accounts/"+f.indexer.String(), &acc))
	assert.Equal(t, "500", toBig(acc.Balance))

	var supply accounts.Supply
	require.Equal(t, http.StatusOK, f.get(t, "/accounts/supply", &supply))
	assert.Equal(t, "1000", toBig(supply.Total))

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/accounts/0x01", nil))
}

func TestStakes(t *testing.T) {
	f := newFixture(t)

	var stake staking.Stake
	require.Equal(t, http.StatusOK, f.get(t, "/staking/stakes/"+f.indexer.String(), &stake))
	assert.Equal(t, "500", toBig(stake.TokensStaked))
	assert.Equal(t, "200", toBig(stake.TokensAllocated))
	assert.Equal(t, "300", toBig(stake.Capacity))

	var op map[string]bool
	require.Equal(t, http.StatusOK, f.get(t, "/staking/stakes/"+f.indexer.String()+"/operators/"+datagen.RandAddress().String(), &op))
	assert.False(t, op["allowed"])
}

func TestAllocations(t *testing.T) {
	f := newFixture(t)

	var alloc staking.Allocation
	require.Equal(t, http.StatusOK, f.get(t, "/staking/allocations/"+f.allocationID.String(), &alloc))
	assert.Equal(t, f.indexer, alloc.Indexer)
	assert.Equal(t, "active", alloc.Status)
	assert.Equal(t, uint64(1), alloc.CreatedAtEpoch)
	assert.Equal(t, "200", toBig(alloc.Tokens))

	assert.Equal(t, http.StatusNotFound, f.get(t, "/staking/allocations/"+datagen.RandAddress().String(), nil))
}

func TestParamsAndPools(t *testing.T) {
	f := newFixture(t)

	var p staking.Params
	require.Equal(t, http.StatusOK, f.get(t, "/staking/params", &p))
	assert.Equal(t, "100", toBig(p.MinimumIndexerStake))
	assert.Equal(t, ledger.InitialThawingPeriod.Uint64(), p.ThawingPeriod)

	var pool staking.DelegationPool
	require.Equal(t, http.StatusOK, f.get(t, "/staking/delegations/"+f.indexer.String(), &pool))
	assert.Equal(t, "0", toBig(pool.Tokens))

	var del staking.Delegation
	require.Equal(t, http.StatusOK, f.get(t, "/staking/delegations/"+f.indexer.String()+"/"+datagen.RandAddress().String(), &del))
	assert.Equal(t, "0", toBig(del.Shares))

	assert.Equal(t, http.StatusNotFound, f.get(t, "/staking/rebates/1", nil))
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/staking/rebates/first", nil))
}
