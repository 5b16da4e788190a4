// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package curation

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakeledger/builtin/storage"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/state"
)

var (
	slotSignal = ledger.BytesToBytes32([]byte("signal"))
	slotFees   = ledger.BytesToBytes32([]byte("fees"))
)

// Curation keeps the curation signal of workloads and the fees they were paid.
// Tokens for the fees are held by the curation address; only the bookkeeping lives here.
type Curation struct {
	signal *storage.Mapping[ledger.Bytes32, *big.Int]
	fees   *storage.Mapping[ledger.Bytes32, *big.Int]
}

func New(addr ledger.Address, state *state.State) *Curation {
	sctx := storage.NewContext(addr, state)
	return &Curation{
		signal: storage.NewMapping[ledger.Bytes32, *big.Int](sctx, slotSignal),
		fees:   storage.NewMapping[ledger.Bytes32, *big.Int](sctx, slotFees),
	}
}

// IsCurated returns whether the workload has any curation signal.
func (c *Curation) IsCurated(workload ledger.Bytes32) (bool, error) {
	signal, err := c.signal.Get(workload)
	if err != nil {
		return false, errors.Wrap(err, "failed to get signal")
	}
	return signal.Sign() > 0, nil
}

// Signal returns the curation signal of the workload.
func (c *Curation) Signal(workload ledger.Bytes32) (*big.Int, error) {
	return c.signal.Get(workload)
}

// SetSignal sets the curation signal of the workload.
func (c *Curation) SetSignal(workload ledger.Bytes32, signal *big.Int) error {
	if signal.Sign() < 0 {
		return errors.New("negative signal")
	}
	if signal.Sign() == 0 {
		c.signal.Delete(workload)
		return nil
	}
	return c.signal.Set(workload, signal)
}

// DepositCurationFee records amount of fees paid to curators of the workload.
func (c *Curation) DepositCurationFee(workload ledger.Bytes32, amount *big.Int) error {
	fees, err := c.fees.Get(workload)
	if err != nil {
		return errors.Wrap(err, "failed to get fees")
	}
	return c.fees.Set(workload, fees.Add(fees, amount))
}

// Fees returns the total curation fees deposited for the workload.
func (c *Curation) Fees(workload ledger.Bytes32) (*big.Int, error) {
	return c.fees.Get(workload)
}
