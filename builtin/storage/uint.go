// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/ledger"
)

// Uint is a wrapper for storage and retrieval of a non-negative big integer.
type Uint struct {
	context *Context
	pos     ledger.Bytes32
}

func NewUint(context *Context, pos ledger.Bytes32) *Uint {
	return &Uint{context: context, pos: pos}
}

func (u *Uint) Get() (*big.Int, error) {
	raw, err := u.context.state.GetRawStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

func (u *Uint) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return errors.New("negative value")
	}
	u.context.state.SetRawStorage(u.context.address, u.pos, value.Bytes())
	return nil
}

func (u *Uint) Add(value *big.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(current.Add(current, value))
}

func (u *Uint) Sub(value *big.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	if current.Cmp(value) < 0 {
		return errors.New("uint underflow")
	}
	return u.Set(current.Sub(current, value))
}
