// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/state"
)

// Context binds typed storage wrappers to the slot space of one builtin module.
type Context struct {
	address ledger.Address
	state   *state.State
}

func NewContext(address ledger.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() ledger.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
