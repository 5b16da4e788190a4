// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package allocation

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestStatus(t *testing.T) {
	indexer := datagen.RandAddress()
	tests := []struct {
		name       string
		alloc      Allocation
		sinceClose uint64
		expected   Status
	}{
		{"unused", Allocation{}, 0, StatusNull},
		{"active", Allocation{Indexer: indexer, CreatedAtEpoch: 3}, 0, StatusActive},
		{"closed", Allocation{Indexer: indexer, ClosedAtEpoch: 4}, 6, StatusClosed},
		{"finalized", Allocation{Indexer: indexer, ClosedAtEpoch: 4}, 7, StatusFinalized},
		{"claimed", Allocation{Indexer: indexer, Claimed: true}, 100, StatusClaimed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.alloc.Status(tt.sinceClose, 7))
		})
	}
	assert.Equal(t, "finalized", StatusFinalized.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestEffectiveAllocation(t *testing.T) {
	assert.Equal(t, "5000", EffectiveAllocation(big.NewInt(1000), 5, 28).String())
	assert.Equal(t, "28000", EffectiveAllocation(big.NewInt(1000), 40, 28).String())
	assert.Equal(t, "40000", EffectiveAllocation(big.NewInt(1000), 40, 0).String())
	assert.Equal(t, "0", EffectiveAllocation(big.NewInt(1000), 0, 28).String())
}

func TestProof(t *testing.T) {
	key, allocationID := datagen.RandKey()
	indexer := datagen.RandAddress()

	proof, err := SignProof(key, indexer)
	require.NoError(t, err)

	assert.True(t, VerifyProof(indexer, allocationID, proof))
	assert.False(t, VerifyProof(datagen.RandAddress(), allocationID, proof), "bound to another indexer")
	assert.False(t, VerifyProof(indexer, datagen.RandAddress(), proof), "signed by another key")
	assert.False(t, VerifyProof(indexer, ledger.Address{}, proof), "zero identifier")
	assert.False(t, VerifyProof(indexer, allocationID, proof[:64]), "truncated")
	assert.False(t, VerifyProof(indexer, allocationID, nil))
}

func TestServiceLifecycle(t *testing.T) {
	svc := newService(t)
	id := datagen.RandAddress()
	indexer := datagen.RandAddress()
	workload := datagen.RandomHash()

	alloc, err := svc.GetAllocation(id)
	require.NoError(t, err)
	assert.True(t, alloc.IsEmpty())
	assert.Equal(t, "0", alloc.Tokens.String())

	_, err = svc.Add(id, indexer, workload, big.NewInt(1000), 2)
	require.NoError(t, err)

	alloc, err = svc.GetAllocation(id)
	require.NoError(t, err)
	assert.Equal(t, indexer, alloc.Indexer)
	assert.Equal(t, workload, alloc.WorkloadID)
	assert.Equal(t, uint64(2), alloc.CreatedAtEpoch)
	assert.Equal(t, StatusActive, alloc.Status(0, 7))

	require.NoError(t, svc.AddFees(id, alloc, big.NewInt(30)))
	require.NoError(t, svc.Close(id, alloc, 7, 28))

	alloc, err = svc.GetAllocation(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), alloc.ClosedAtEpoch)
	assert.Equal(t, "5000", alloc.EffectiveAllocation.String())
	assert.Equal(t, "30", alloc.CollectedFees.String())

	require.NoError(t, svc.Claim(id, alloc))
	alloc, err = svc.GetAllocation(id)
	require.NoError(t, err)
	assert.False(t, alloc.IsEmpty(), "identifier stays in use")
	assert.True(t, alloc.Claimed)
	assert.Equal(t, indexer, alloc.Indexer)
	assert.Equal(t, "0", alloc.Tokens.String())
	assert.Equal(t, uint64(0), alloc.ClosedAtEpoch)
	assert.Equal(t, StatusClaimed, alloc.Status(0, 7))
}
