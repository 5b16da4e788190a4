// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.NoError(t, err)
	assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())

	bare, err := ParseAddress("7567D83B7B8D80ADDCB281A71D54FC7B3364FFED")
	assert.NoError(t, err)
	assert.Equal(t, addr, bare)

	_, err = ParseAddress("1x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.Error(t, err)
	_, err = ParseAddress("0x7567")
	assert.ErrorContains(t, err, "invalid length")
	_, err = ParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffzz")
	assert.Error(t, err)

	var text Address
	assert.NoError(t, text.UnmarshalText([]byte(addr.String())))
	assert.Equal(t, addr, text)
	assert.False(t, text.IsZero())
	assert.True(t, Address{}.IsZero())
}

func TestParseBytes32(t *testing.T) {
	b := Keccak256([]byte("workload"))
	parsed, err := ParseBytes32(b.String())
	assert.NoError(t, err)
	assert.Equal(t, b, parsed)

	_, err = ParseBytes32("0x00")
	assert.Error(t, err)

	assert.Equal(t, "0x00000000…000000aa", BytesToBytes32([]byte{0xaa}).AbbrevString())
	assert.True(t, Bytes32{}.IsZero())
}

func TestKeccak256(t *testing.T) {
	data := [][]byte{[]byte("indexer"), []byte("allocation")}
	assert.Equal(t, Bytes32(crypto.Keccak256Hash(data...)), Keccak256(data...))
}

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, big.NewInt(100), PercentOf(10_000, big.NewInt(10_000)))
	assert.Equal(t, big.NewInt(0), PercentOf(0, big.NewInt(10_000)))
	assert.Equal(t, big.NewInt(0), PercentOf(1, big.NewInt(999_999)))
	assert.Equal(t, big.NewInt(10_000), PercentOf(MaxPPM, big.NewInt(10_000)))
	assert.True(t, ValidPPM(MaxPPM))
	assert.False(t, ValidPPM(MaxPPM+1))
}
