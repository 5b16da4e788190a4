// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "math/big"

// MaxPPM is the denominator of every percentage parameter, in parts per million.
const MaxPPM = uint32(1_000_000)

var bigMaxPPM = big.NewInt(int64(MaxPPM))

// PercentOf returns amount * ppm / MaxPPM, rounded down.
func PercentOf(ppm uint32, amount *big.Int) *big.Int {
	if amount == nil || ppm == 0 {
		return new(big.Int)
	}
	v := new(big.Int).Mul(amount, big.NewInt(int64(ppm)))
	return v.Quo(v, bigMaxPPM)
}

// ValidPPM reports whether ppm is within [0, MaxPPM].
func ValidPPM(ppm uint32) bool {
	return ppm <= MaxPPM
}

// Keys of governance params.
var (
	KeyThawingPeriod                = BytesToBytes32([]byte("thawing-period"))
	KeyMaxAllocationEpochs          = BytesToBytes32([]byte("max-allocation-epochs"))
	KeyChannelDisputeEpochs         = BytesToBytes32([]byte("channel-dispute-epochs"))
	KeyCurationPercentage           = BytesToBytes32([]byte("curation-percentage"))
	KeyProtocolPercentage           = BytesToBytes32([]byte("protocol-percentage"))
	KeyDelegationRatio              = BytesToBytes32([]byte("delegation-ratio"))
	KeyMinimumIndexerStake          = BytesToBytes32([]byte("minimum-indexer-stake"))
	KeyDelegationTaxPercentage      = BytesToBytes32([]byte("delegation-tax-percentage"))
	KeyDelegationUnbondingPeriod    = BytesToBytes32([]byte("delegation-unbonding-period"))
	KeyDelegationParametersCooldown = BytesToBytes32([]byte("delegation-parameters-cooldown"))
	KeyAlphaNumerator               = BytesToBytes32([]byte("alpha-numerator"))
	KeyAlphaDenominator             = BytesToBytes32([]byte("alpha-denominator"))
	KeyLambdaNumerator              = BytesToBytes32([]byte("lambda-numerator"))
	KeyLambdaDenominator            = BytesToBytes32([]byte("lambda-denominator"))
)

// Initial values of governance params, used until a value is set.
var (
	InitialThawingPeriod                = big.NewInt(28) // epochs
	InitialMaxAllocationEpochs          = big.NewInt(28)
	InitialChannelDisputeEpochs         = big.NewInt(7)
	InitialCurationPercentage           = big.NewInt(10_000) // 1%
	InitialProtocolPercentage           = big.NewInt(10_000) // 1%
	InitialDelegationRatio              = big.NewInt(16)
	InitialMinimumIndexerStake          = new(big.Int).Mul(big.NewInt(100_000), big.NewInt(1e18))
	InitialDelegationTaxPercentage      = big.NewInt(5_000) // 0.5%
	InitialDelegationUnbondingPeriod    = big.NewInt(28)
	InitialDelegationParametersCooldown = big.NewInt(0)
	InitialAlphaNumerator               = big.NewInt(77)
	InitialAlphaDenominator             = big.NewInt(100)
	InitialLambdaNumerator              = big.NewInt(1)
	InitialLambdaDenominator            = big.NewInt(1)
)
