// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/api/utils"
	engine "github.com/vechain/stakeledger/builtin/staking"
	"github.com/vechain/stakeledger/ledger"
)

type Staking struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *Staking {
	return &Staking{e}
}

func parseAddress(req *http.Request, name string) (ledger.Address, error) {
	addr, err := ledger.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return ledger.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func (s *Staking) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	p, err := s.engine.Parameters()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertParams(p))
}

func (s *Staking) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	indexer, err := parseAddress(req, "indexer")
	if err != nil {
		return err
	}
	stake, err := s.engine.GetStake(indexer)
	if err != nil {
		return err
	}
	capacity, err := s.engine.IndexerCapacity(indexer)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertStake(stake, capacity))
}

func (s *Staking) handleGetOperator(w http.ResponseWriter, req *http.Request) error {
	indexer, err := parseAddress(req, "indexer")
	if err != nil {
		return err
	}
	operator, err := parseAddress(req, "operator")
	if err != nil {
		return err
	}
	ok, err := s.engine.IsOperator(indexer, operator)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, map[string]bool{"allowed": ok})
}

func (s *Staking) handleGetAllocation(w http.ResponseWriter, req *http.Request) error {
	id, err := parseAddress(req, "id")
	if err != nil {
		return err
	}
	exists, err := s.engine.IsAllocation(id)
	if err != nil {
		return err
	}
	if !exists {
		return utils.NotFound(errors.New("allocation not found"))
	}
	alloc, err := s.engine.GetAllocation(id)
	if err != nil {
		return err
	}
	status, err := s.engine.GetAllocationState(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAllocation(alloc, status))
}

func (s *Staking) handleGetDelegationPool(w http.ResponseWriter, req *http.Request) error {
	indexer, err := parseAddress(req, "indexer")
	if err != nil {
		return err
	}
	pool, err := s.engine.GetDelegationPool(indexer)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPool(pool))
}

func (s *Staking) handleGetDelegation(w http.ResponseWriter, req *http.Request) error {
	indexer, err := parseAddress(req, "indexer")
	if err != nil {
		return err
	}
	delegator, err := parseAddress(req, "delegator")
	if err != nil {
		return err
	}
	pool, err := s.engine.GetDelegationPool(indexer)
	if err != nil {
		return err
	}
	del, err := s.engine.GetDelegation(indexer, delegator)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertDelegation(del, pool))
}

func (s *Staking) handleGetRebatePool(w http.ResponseWriter, req *http.Request) error {
	epoch, err := strconv.ParseUint(mux.Vars(req)["epoch"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "epoch"))
	}
	pool, err := s.engine.GetRebatePool(epoch)
	if err != nil {
		return err
	}
	if pool.IsEmpty() {
		return utils.NotFound(errors.New("rebate pool not found"))
	}
	return utils.WriteJSON(w, convertRebatePool(pool))
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/params").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetParams))
	sub.Path("/stakes/{indexer}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/stakes/{indexer}/operators/{operator}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetOperator))
	sub.Path("/allocations/{id}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetAllocation))
	sub.Path("/delegations/{indexer}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetDelegationPool))
	sub.Path("/delegations/{indexer}/{delegator}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetDelegation))
	sub.Path("/rebates/{epoch}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetRebatePool))
}
