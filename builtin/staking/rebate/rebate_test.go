// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rebate

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/builtin/storage"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/state"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(storage.NewContext(ledger.BytesToAddress([]byte("staking")), state.New(db)))
}

func assertBig(t *testing.T, expected int64, actual *big.Int, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, big.NewInt(expected).String(), actual.String(), msgAndArgs...)
}

var exponential = Ratios{AlphaNumerator: 1, AlphaDenominator: 1, LambdaNumerator: 6, LambdaDenominator: 10}

func TestRedeemLastClaimBurnsRemainder(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.Deposit(5, big.NewInt(100), big.NewInt(5000), exponential))
	require.NoError(t, svc.Deposit(5, big.NewInt(50), big.NewInt(0), Ratios{7, 10, 1, 1}))

	pool, err := svc.GetPool(5)
	require.NoError(t, err)
	assertBig(t, 150, pool.Fees)
	assertBig(t, 5000, pool.EffectiveAllocatedStake)
	assert.Equal(t, uint64(2), pool.UnclaimedAllocationsCount)
	assert.Equal(t, uint32(6), pool.LambdaNumerator, "ratios are taken from the first deposit")

	payout, burn, err := svc.Redeem(5, big.NewInt(100), big.NewInt(5000))
	require.NoError(t, err)
	assertBig(t, 99, payout)
	assertBig(t, 0, burn)

	pool, err = svc.GetPool(5)
	require.NoError(t, err)
	assertBig(t, 99, pool.ClaimedRewards)
	assertBig(t, 51, pool.Outstanding())

	payout, burn, err = svc.Redeem(5, big.NewInt(50), big.NewInt(0))
	require.NoError(t, err)
	assertBig(t, 0, payout)
	assertBig(t, 51, burn)

	pool, err = svc.GetPool(5)
	require.NoError(t, err)
	assert.True(t, pool.IsEmpty())
	assertBig(t, 0, pool.Fees)
}

func TestRedeemCappedToOutstanding(t *testing.T) {
	svc := newService(t)
	flat := Ratios{AlphaNumerator: 0, AlphaDenominator: 1, LambdaNumerator: 1, LambdaDenominator: 1}

	require.NoError(t, svc.Deposit(3, big.NewInt(100), big.NewInt(1000), flat))
	payout, burn, err := svc.Redeem(3, big.NewInt(200), big.NewInt(1000))
	require.NoError(t, err)
	assertBig(t, 100, payout)
	assertBig(t, 0, burn)
}

func TestAddFees(t *testing.T) {
	svc := newService(t)

	assert.Error(t, svc.AddFees(9, big.NewInt(1)))
	_, _, err := svc.Redeem(9, big.NewInt(1), big.NewInt(1))
	assert.Error(t, err)

	require.NoError(t, svc.Deposit(9, big.NewInt(10), big.NewInt(10), exponential))
	require.NoError(t, svc.AddFees(9, big.NewInt(15)))

	pool, err := svc.GetPool(9)
	require.NoError(t, err)
	assertBig(t, 25, pool.Fees)
	assert.Equal(t, uint64(1), pool.UnclaimedAllocationsCount)
}

func TestPoolsAreKeyedByEpoch(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.Deposit(1, big.NewInt(10), big.NewInt(10), exponential))
	require.NoError(t, svc.Deposit(256, big.NewInt(20), big.NewInt(10), exponential))

	p1, err := svc.GetPool(1)
	require.NoError(t, err)
	p2, err := svc.GetPool(256)
	require.NoError(t, err)
	assertBig(t, 10, p1.Fees)
	assertBig(t, 20, p2.Fees)
}
