// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/builtin/acl"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/test/datagen"
)

func newState(t *testing.T) *state.State {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return state.New(db)
}

func TestAddresses(t *testing.T) {
	seen := make(map[ledger.Address]string)
	for _, c := range []*contract{Params.contract, ACL.contract, Token.contract, Curation.contract, Staking.contract} {
		assert.False(t, c.Address.IsZero(), c.Name())
		prev, dup := seen[c.Address]
		assert.False(t, dup, "%s shares its address with %s", c.Name(), prev)
		seen[c.Address] = c.Name()
	}
	assert.Equal(t, ledger.BytesToAddress([]byte("Staking")), Staking.Address)
}

func TestParamsGetSet(t *testing.T) {
	st := newState(t)
	key := ledger.BytesToBytes32([]byte("key"))

	require.NoError(t, Params.WithState(st).Set(key, big.NewInt(10)))
	v, err := Params.WithState(st).Get(key)
	require.NoError(t, err)
	assert.Equal(t, "10", v.String())
}

func TestStakingSettlesThroughToken(t *testing.T) {
	st := newState(t)
	indexer := datagen.RandAddress()
	governor := datagen.RandAddress()

	_, err := ACL.WithState(st).Grant(acl.Governor, governor)
	require.NoError(t, err)
	require.NoError(t, Token.WithState(st).Mint(indexer, big.NewInt(1000)))

	engine := Staking.WithState(st, clock.NewManual(1))
	require.NoError(t, engine.SetMinimumIndexerStake(governor, big.NewInt(100)))
	require.NoError(t, engine.Stake(indexer, indexer, big.NewInt(400)))

	bal, err := Token.WithState(st).BalanceOf(Staking.Address)
	require.NoError(t, err)
	assert.Equal(t, "400", bal.String())

	minimum, err := Params.WithState(st).Get(ledger.KeyMinimumIndexerStake)
	require.NoError(t, err)
	assert.Equal(t, "100", minimum.String())
}
