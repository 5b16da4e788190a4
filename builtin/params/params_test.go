// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/state"
)

func newParams(t *testing.T) *Params {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(ledger.BytesToAddress([]byte("par")), state.New(db))
}

func TestParamsGetSet(t *testing.T) {
	p := newParams(t)
	setv := big.NewInt(10)
	key := ledger.BytesToBytes32([]byte("key"))
	assert.NoError(t, p.Set(key, setv))

	getv, err := p.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, setv, getv)

	assert.Error(t, p.Set(key, big.NewInt(-1)))
}

func TestParamsDefaults(t *testing.T) {
	p := newParams(t)

	v, err := p.Get(ledger.KeyThawingPeriod)
	assert.NoError(t, err)
	assert.Equal(t, ledger.InitialThawingPeriod, v)

	// zero is a value, not an absence
	assert.NoError(t, p.Set(ledger.KeyMaxAllocationEpochs, big.NewInt(0)))
	n, err := p.GetUint64(ledger.KeyMaxAllocationEpochs)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	// returned defaults are copies
	v.SetInt64(1)
	v, err = p.Get(ledger.KeyThawingPeriod)
	assert.NoError(t, err)
	assert.Equal(t, ledger.InitialThawingPeriod, v)
}

func TestParamsGetUint64Overflow(t *testing.T) {
	p := newParams(t)
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	assert.NoError(t, p.Set(ledger.KeyDelegationRatio, huge))

	_, err := p.GetUint64(ledger.KeyDelegationRatio)
	assert.Error(t, err)
}
