// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/ledger"
)

// Genesis to build genesis state.
type Genesis struct {
	builder *Builder
	id      ledger.Bytes32
	name    string
	epoch   uint64
}

// Build writes the genesis state into db.
func (g *Genesis) Build(db kv.Store) (ledger.Bytes32, error) {
	return g.builder.Build(db)
}

// ID returns genesis ID.
func (g *Genesis) ID() ledger.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Epoch returns the epoch the network starts at.
func (g *Genesis) Epoch() uint64 {
	return g.epoch
}
