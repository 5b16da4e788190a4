// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/stakeledger/builtin/acl"
	"github.com/vechain/stakeledger/builtin/curation"
	"github.com/vechain/stakeledger/builtin/params"
	"github.com/vechain/stakeledger/builtin/staking"
	"github.com/vechain/stakeledger/builtin/token"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/state"
)

// Builtin modules binding.
var (
	Params   = &paramsContract{newContract("Params")}
	ACL      = &aclContract{newContract("ACL")}
	Token    = &tokenContract{newContract("Token")}
	Curation = &curationContract{newContract("Curation")}
	Staking  = &stakingContract{newContract("Staking")}
)

type (
	paramsContract   struct{ *contract }
	aclContract      struct{ *contract }
	tokenContract    struct{ *contract }
	curationContract struct{ *contract }
	stakingContract  struct{ *contract }
)

func (p *paramsContract) WithState(state *state.State) *params.Params {
	return params.New(p.Address, state)
}

func (a *aclContract) WithState(state *state.State) *acl.ACL {
	return acl.New(a.Address, state)
}

func (t *tokenContract) WithState(state *state.State) *token.Token {
	return token.New(t.Address, state)
}

func (c *curationContract) WithState(state *state.State) *curation.Curation {
	return curation.New(c.Address, state)
}

// WithState binds the staking engine to state, settling with the other builtin modules.
func (s *stakingContract) WithState(state *state.State, clk clock.Clock) *staking.Engine {
	return staking.New(
		s.Address,
		state,
		Params.WithState(state),
		clk,
		staking.Collaborators{
			Token:           Token.WithState(state),
			Curation:        Curation.WithState(state),
			CurationAddress: Curation.Address,
			Authority:       ACL.WithState(state),
		},
	)
}
