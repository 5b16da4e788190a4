// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen produces random identifiers for tests.
package datagen

import (
	"crypto/rand"

	"github.com/vechain/stakeledger/ledger"
)

// RandomHash returns a random workload or key identifier.
func RandomHash() (h ledger.Bytes32) {
	rand.Read(h[:])
	return
}

// RandAddress returns a random indexer, delegator or allocation address.
func RandAddress() (addr ledger.Address) {
	rand.Read(addr[:])
	return
}
