// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
)

// Address identifies an indexer, delegator, operator or allocation.
type Address common.Address

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	return parseHex(string(text), a[:])
}

// ParseAddress parses 40 hex digits, with or without the 0x prefix.
func ParseAddress(s string) (a Address, err error) {
	err = parseHex(s, a[:])
	return
}

// MustParseAddress is ParseAddress for constants; it panics on malformed input.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// BytesToAddress left-pads b to 20 bytes, or keeps its last 20 bytes if longer.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}
