// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/builtin/token"
	"github.com/vechain/stakeledger/ledger"
)

// Account for marshal account
type Account struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}

// Supply for marshal token supply
type Supply struct {
	Total  *math.HexOrDecimal256 `json:"total"`
	Burned *math.HexOrDecimal256 `json:"burned"`
}

type Accounts struct {
	token *token.Token
}

func New(token *token.Token) *Accounts {
	return &Accounts{token}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := ledger.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	balance, err := a.token.BalanceOf(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{Balance: (*math.HexOrDecimal256)(balance)})
}

func (a *Accounts) handleGetSupply(w http.ResponseWriter, _ *http.Request) error {
	var total, burned *big.Int
	var err error
	if total, err = a.token.TotalSupply(); err != nil {
		return err
	}
	if burned, err = a.token.TotalBurned(); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Supply{
		Total:  (*math.HexOrDecimal256)(total),
		Burned: (*math.HexOrDecimal256)(burned),
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/supply").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetSupply))
	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
