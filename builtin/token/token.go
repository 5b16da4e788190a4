// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/reverts"
	"github.com/vechain/stakeledger/builtin/storage"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/state"
)

var (
	slotBalances = ledger.BytesToBytes32([]byte("balances"))
	slotSupply   = ledger.BytesToBytes32([]byte("total-supply"))
	slotBurned   = ledger.BytesToBytes32([]byte("total-burned"))
)

// Token is the value ledger of the stake token.
type Token struct {
	balances *storage.Mapping[ledger.Address, *big.Int]
	supply   *storage.Uint
	burned   *storage.Uint
}

func New(addr ledger.Address, state *state.State) *Token {
	sctx := storage.NewContext(addr, state)
	return &Token{
		balances: storage.NewMapping[ledger.Address, *big.Int](sctx, slotBalances),
		supply:   storage.NewUint(sctx, slotSupply),
		burned:   storage.NewUint(sctx, slotBurned),
	}
}

// BalanceOf returns the balance of addr.
func (t *Token) BalanceOf(addr ledger.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

// TotalSupply returns the amount of tokens in circulation.
func (t *Token) TotalSupply() (*big.Int, error) {
	return t.supply.Get()
}

// TotalBurned returns the amount of tokens ever burned.
func (t *Token) TotalBurned() (*big.Int, error) {
	return t.burned.Get()
}

func (t *Token) add(addr ledger.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	return t.balances.Set(addr, bal.Add(bal, amount))
}

func (t *Token) sub(addr ledger.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "insufficient balance: %s has %s, needs %s", addr, bal, amount)
	}
	return t.balances.Set(addr, bal.Sub(bal, amount))
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to ledger.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative amount")
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := t.sub(from, amount); err != nil {
		return err
	}
	return t.add(to, amount)
}

// Mint creates amount of new tokens held by to.
func (t *Token) Mint(to ledger.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative amount")
	}
	if err := t.add(to, amount); err != nil {
		return err
	}
	return t.supply.Add(amount)
}

// Burn destroys amount of tokens held by from.
func (t *Token) Burn(from ledger.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative amount")
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := t.sub(from, amount); err != nil {
		return err
	}
	if err := t.supply.Sub(amount); err != nil {
		return err
	}
	return t.burned.Add(amount)
}
