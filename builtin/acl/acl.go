// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package acl

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/state"
)

// Role names a privilege which can be granted to an account.
type Role string

const (
	// Governor may change network parameters.
	Governor Role = "governor"
	// Slasher may slash indexers.
	Slasher Role = "slasher"
)

type entry struct {
	Granted bool
}

func (e *entry) IsEmpty() bool {
	return !e.Granted
}

// ACL implements role based authorization backed by state.
type ACL struct {
	addr  ledger.Address
	state *state.State
}

// New create a new instance.
func New(addr ledger.Address, state *state.State) *ACL {
	return &ACL{addr, state}
}

func entryKey(role Role, account ledger.Address) ledger.Bytes32 {
	return ledger.Blake2b([]byte(role), account.Bytes())
}

func (a *ACL) getEntry(role Role, account ledger.Address) (*entry, error) {
	var entry entry
	if err := a.state.DecodeStorage(a.addr, entryKey(role, account), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &entry)
	}); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (a *ACL) setEntry(role Role, account ledger.Address, entry *entry) error {
	return a.state.EncodeStorage(a.addr, entryKey(role, account), func() ([]byte, error) {
		if entry.IsEmpty() {
			return nil, nil
		}
		return rlp.EncodeToBytes(entry)
	})
}

// IsAuthorized returns whether account holds role.
func (a *ACL) IsAuthorized(account ledger.Address, role Role) (bool, error) {
	entry, err := a.getEntry(role, account)
	if err != nil {
		return false, err
	}
	return entry.Granted, nil
}

// Grant gives role to account.
// It returns false if the account already holds the role.
func (a *ACL) Grant(role Role, account ledger.Address) (bool, error) {
	entry, err := a.getEntry(role, account)
	if err != nil {
		return false, err
	}
	if entry.Granted {
		return false, nil
	}
	entry.Granted = true
	return true, a.setEntry(role, account, entry)
}

// Revoke takes role from account.
// It returns false if the account does not hold the role.
func (a *ACL) Revoke(role Role, account ledger.Address) (bool, error) {
	entry, err := a.getEntry(role, account)
	if err != nil {
		return false, err
	}
	if !entry.Granted {
		return false, nil
	}
	entry.Granted = false
	return true, a.setEntry(role, account, entry)
}
