// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package delegation

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakeledger/builtin/reverts"
	"github.com/vechain/stakeledger/builtin/storage"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/state"
	"github.com/vechain/stakeledger/test/datagen"
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

func TestDelegation_IsEmpty(t *testing.T) {
	assert.True(t, (&Delegation{}).IsEmpty())
	assert.True(t, (&Delegation{Shares: big.NewInt(0), TokensLocked: big.NewInt(0)}).IsEmpty())
	assert.False(t, (&Delegation{Shares: big.NewInt(1)}).IsEmpty())
	assert.False(t, (&Delegation{TokensLocked: big.NewInt(1)}).IsEmpty())
	assert.False(t, (&Delegation{TokensLockedUntil: 1}).IsEmpty())
}

func TestPool_SharePrice(t *testing.T) {
	p := &Pool{}
	p.normalize()
	assertBig(t, 100, p.SharesFor(big.NewInt(100)))
	assertBig(t, 0, p.TokensFor(big.NewInt(100)))

	p.Tokens.SetInt64(200)
	p.Shares.SetInt64(100)
	assertBig(t, 50, p.SharesFor(big.NewInt(100)))
	assertBig(t, 200, p.TokensFor(big.NewInt(100)))
	// rounds down
	assertBig(t, 0, p.SharesFor(big.NewInt(1)))
}

func TestPool_CooldownEnded(t *testing.T) {
	p := &Pool{}
	assert.True(t, p.CooldownEnded(0))

	p.Configured = true
	p.UpdatedAtEpoch = 10
	p.CooldownEpochs = 5
	assert.False(t, p.CooldownEnded(14))
	assert.True(t, p.CooldownEnded(15))

	p.CooldownEpochs = math.MaxUint64
	assert.False(t, p.CooldownEnded(math.MaxUint64))
}

func TestDelegate(t *testing.T) {
	svc := newService(t)
	indexer := datagen.RandAddress()
	alice := datagen.RandAddress()
	bob := datagen.RandAddress()

	// first entry is 1:1
	shares, err := svc.Delegate(alice, indexer, big.NewInt(9_900))
	assert.NoError(t, err)
	assertBig(t, 9_900, shares)

	// rewards raise the share price
	added, err := svc.CollectQueryRewards(indexer, big.NewInt(9_900))
	assert.NoError(t, err)
	assertBig(t, 9_900, added)

	shares, err = svc.Delegate(bob, indexer, big.NewInt(9_900))
	assert.NoError(t, err)
	assertBig(t, 4_950, shares)

	pool, err := svc.GetPool(indexer)
	assert.NoError(t, err)
	assertBig(t, 29_700, pool.Tokens)
	assertBig(t, 14_850, pool.Shares)

	_, err = svc.Delegate(bob, indexer, big.NewInt(1))
	assert.True(t, reverts.Is(err, reverts.ZeroShares))
}

func TestUndelegate(t *testing.T) {
	svc := newService(t)
	indexer := datagen.RandAddress()
	alice := datagen.RandAddress()

	_, err := svc.Delegate(alice, indexer, big.NewInt(1000))
	require.NoError(t, err)

	_, _, err = svc.Undelegate(alice, indexer, big.NewInt(0), 0, 10)
	assert.True(t, reverts.Is(err, reverts.ZeroShares))

	_, _, err = svc.Undelegate(alice, indexer, big.NewInt(1001), 0, 10)
	assert.True(t, reverts.Is(err, reverts.InsufficientShares))

	tokens, withdrawn, err := svc.Undelegate(alice, indexer, big.NewInt(400), 0, 10)
	assert.NoError(t, err)
	assertBig(t, 400, tokens)
	assertBig(t, 0, withdrawn)

	del, err := svc.GetDelegation(indexer, alice)
	assert.NoError(t, err)
	assertBig(t, 600, del.Shares)
	assertBig(t, 400, del.TokensLocked)
	assert.Equal(t, uint64(10), del.TokensLockedUntil)

	_, err = svc.WithdrawDelegated(alice, indexer, 9)
	assert.True(t, reverts.Is(err, reverts.NothingToWithdraw))

	// unbonded tokens are withdrawn before locking again
	tokens, withdrawn, err = svc.Undelegate(alice, indexer, big.NewInt(600), 10, 10)
	assert.NoError(t, err)
	assertBig(t, 600, tokens)
	assertBig(t, 400, withdrawn)

	pool, _ := svc.GetPool(indexer)
	assertBig(t, 0, pool.Tokens)
	assertBig(t, 0, pool.Shares)

	tokens, err = svc.WithdrawDelegated(alice, indexer, 20)
	assert.NoError(t, err)
	assertBig(t, 600, tokens)

	del, _ = svc.GetDelegation(indexer, alice)
	assert.True(t, del.IsEmpty())
}

func TestDelegatedCapacity(t *testing.T) {
	svc := newService(t)
	indexer := datagen.RandAddress()

	_, err := svc.Delegate(datagen.RandAddress(), indexer, big.NewInt(1000))
	require.NoError(t, err)

	capacity, err := svc.DelegatedCapacity(indexer, big.NewInt(100), 16)
	assert.NoError(t, err)
	assertBig(t, 1000, capacity)

	capacity, err = svc.DelegatedCapacity(indexer, big.NewInt(100), 5)
	assert.NoError(t, err)
	assertBig(t, 500, capacity)

	capacity, err = svc.DelegatedCapacity(indexer, big.NewInt(100), 0)
	assert.NoError(t, err)
	assertBig(t, 0, capacity)
}

func TestSetParameters(t *testing.T) {
	svc := newService(t)
	indexer := datagen.RandAddress()

	err := svc.SetParameters(indexer, ledger.MaxPPM+1, 0, 5, 0, 1)
	assert.True(t, reverts.Is(err, reverts.OutOfBounds))
	err = svc.SetParameters(indexer, 0, ledger.MaxPPM+1, 5, 0, 1)
	assert.True(t, reverts.Is(err, reverts.OutOfBounds))
	err = svc.SetParameters(indexer, 0, 0, 5, 6, 1)
	assert.True(t, reverts.Is(err, reverts.OutOfBounds))

	assert.NoError(t, svc.SetParameters(indexer, 100_000, 200_000, 5, 0, 1))
	pool, _ := svc.GetPool(indexer)
	assert.Equal(t, uint32(100_000), pool.IndexingRewardCut)
	assert.Equal(t, uint32(200_000), pool.QueryFeeCut)
	assert.Equal(t, uint64(5), pool.CooldownEpochs)
	assert.Equal(t, uint64(1), pool.UpdatedAtEpoch)

	err = svc.SetParameters(indexer, 0, 0, 5, 0, 5)
	assert.True(t, reverts.Is(err, reverts.CooldownActive))

	assert.NoError(t, svc.SetParameters(indexer, 0, 0, 0, 0, 6))
}

func TestInitParameters(t *testing.T) {
	svc := newService(t)
	indexer := datagen.RandAddress()

	assert.NoError(t, svc.InitParameters(indexer, 3, 2))
	pool, _ := svc.GetPool(indexer)
	assert.Equal(t, ledger.MaxPPM, pool.IndexingRewardCut)
	assert.Equal(t, ledger.MaxPPM, pool.QueryFeeCut)
	assert.Equal(t, uint64(3), pool.CooldownEpochs)
	assert.Equal(t, uint64(2), pool.UpdatedAtEpoch)
	assert.True(t, pool.Configured)

	err := svc.SetParameters(indexer, 0, 0, 3, 0, 4)
	assert.True(t, reverts.Is(err, reverts.CooldownActive))

	// configured pools keep their parameters
	assert.NoError(t, svc.SetParameters(indexer, 0, 500_000, 3, 0, 5))
	assert.NoError(t, svc.InitParameters(indexer, 3, 9))
	pool, _ = svc.GetPool(indexer)
	assert.Equal(t, uint32(500_000), pool.QueryFeeCut)
	assert.Equal(t, uint64(5), pool.UpdatedAtEpoch)
}

func TestCollectQueryRewards(t *testing.T) {
	svc := newService(t)
	indexer := datagen.RandAddress()

	// nothing delegated, nothing routed
	added, err := svc.CollectQueryRewards(indexer, big.NewInt(100))
	assert.NoError(t, err)
	assertBig(t, 0, added)

	_, err = svc.Delegate(datagen.RandAddress(), indexer, big.NewInt(1000))
	require.NoError(t, err)
	require.NoError(t, svc.SetParameters(indexer, 0, 250_000, 0, 0, 0))

	added, err = svc.CollectQueryRewards(indexer, big.NewInt(100))
	assert.NoError(t, err)
	assertBig(t, 75, added)

	pool, _ := svc.GetPool(indexer)
	assertBig(t, 1075, pool.Tokens)
	assertBig(t, 1000, pool.Shares)
}
