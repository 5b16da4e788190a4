// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"hash"

	"github.com/ethereum/go-ethereum/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Blake2b hashes the concatenation of data. Storage positions and
// role keys are derived with it.
func Blake2b(data ...[]byte) Bytes32 {
	h, _ := blake2b.New256(nil)
	return sum(h, data)
}

// Keccak256 hashes the concatenation of data the way secp256k1
// signatures expect, so allocation proofs can be verified with
// go-ethereum's crypto package.
func Keccak256(data ...[]byte) Bytes32 {
	return sum(sha3.NewLegacyKeccak256(), data)
}

func sum(h hash.Hash, data [][]byte) (out Bytes32) {
	for _, b := range data {
		h.Write(b)
	}
	h.Sum(out[:0])
	return
}
