// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/stakeledger/ledger"
)

// RandKey generates a fresh secp256k1 key and its ledger address.
func RandKey() (*ecdsa.PrivateKey, ledger.Address) {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return key, ledger.Address(crypto.PubkeyToAddress(key.PublicKey))
}
