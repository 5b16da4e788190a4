// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/state"
)

// Builder helper to build genesis state.
type Builder struct {
	stateProcs []func(state *state.State) error
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (ledger.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return ledger.Bytes32{}, err
	}
	defer db.Close()

	return b.Build(db)
}

// Build runs all state processes over a fresh state and commits it to db.
// The returned ID is the digest of the genesis changes.
func (b *Builder) Build(db kv.Store) (ledger.Bytes32, error) {
	st := state.New(db)
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return ledger.Bytes32{}, errors.Wrap(err, "state process")
		}
	}

	stage := st.Stage()
	id := stage.Hash()
	if err := stage.Commit(); err != nil {
		return ledger.Bytes32{}, errors.Wrap(err, "commit state")
	}
	return id, nil
}
