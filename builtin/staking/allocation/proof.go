// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package allocation

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/stakeledger/ledger"
)

// ProofHash is the message an allocation key signs to bind the allocation to indexer.
func ProofHash(indexer, allocationID ledger.Address) ledger.Bytes32 {
	return ledger.Keccak256(indexer.Bytes(), allocationID.Bytes())
}

// SignProof signs the binding of the allocation identified by key to indexer.
func SignProof(key *ecdsa.PrivateKey, indexer ledger.Address) ([]byte, error) {
	allocationID := ledger.Address(crypto.PubkeyToAddress(key.PublicKey))
	hash := ProofHash(indexer, allocationID)
	return crypto.Sign(hash.Bytes(), key)
}

// VerifyProof returns whether proof was signed by the key of allocationID over the binding to indexer.
func VerifyProof(indexer, allocationID ledger.Address, proof []byte) bool {
	if allocationID.IsZero() || len(proof) != crypto.SignatureLength {
		return false
	}
	hash := ProofHash(indexer, allocationID)
	pub, err := crypto.SigToPub(hash.Bytes(), proof)
	if err != nil {
		return false
	}
	return ledger.Address(crypto.PubkeyToAddress(*pub)) == allocationID
}
