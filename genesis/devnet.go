// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/stakeledger/builtin"
	"github.com/vechain/stakeledger/builtin/acl"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/state"
)

// DevAccount account for development.
type DevAccount struct {
	Address    ledger.Address
	PrivateKey *ecdsa.PrivateKey
}

// DevAccounts returns the pre-funded accounts of the dev network.
// The first one governs and slashes.
var DevAccounts = sync.OnceValue(func() []DevAccount {
	keys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}
	accs := make([]DevAccount, 0, len(keys))
	for _, k := range keys {
		pk := crypto.ToECDSAUnsafe(common.FromHex(k))
		accs = append(accs, DevAccount{
			Address:    ledger.Address(crypto.PubkeyToAddress(pk.PublicKey)),
			PrivateKey: pk,
		})
	}
	return accs
})

// DevEpoch is the epoch the dev network starts at.
const DevEpoch = 1

// NewDevnet builds the local development network. Every dev account holds 10M tokens.
func NewDevnet() *Genesis {
	accs := DevAccounts()
	balance := new(big.Int).Mul(big.NewInt(10_000_000), big.NewInt(1e18))

	builder := new(Builder).
		State(func(state *state.State) error {
			roles := builtin.ACL.WithState(state)
			if _, err := roles.Grant(acl.Governor, accs[0].Address); err != nil {
				return err
			}
			if _, err := roles.Grant(acl.Slasher, accs[0].Address); err != nil {
				return err
			}

			token := builtin.Token.WithState(state)
			for _, a := range accs {
				if err := token.Mint(a.Address, balance); err != nil {
					return err
				}
			}
			return nil
		})

	id, err := builder.ComputeID()
	if err != nil {
		panic(err)
	}
	return &Genesis{builder, id, "devnet", DevEpoch}
}
