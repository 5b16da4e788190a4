// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(ZeroAmount, "test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, ZeroAmount, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_Is(t *testing.T) {
	revert := Newf(InsufficientStake, "need %d", 10)
	assert.Equal(t, "need 10", revert.Error())

	wrapped := errors.Wrap(revert, "unstake")
	assert.True(t, Is(wrapped, InsufficientStake))
	assert.False(t, Is(wrapped, ZeroAmount))
	assert.False(t, Is(errors.New("plain"), InsufficientStake))
	assert.Equal(t, InsufficientStake, KindOf(wrapped))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}

func Test_KindString(t *testing.T) {
	assert.Equal(t, "NotFinalized", NotFinalized.String())
	assert.Equal(t, "InsufficientBalance", InsufficientBalance.String())
	assert.Equal(t, "Kind(200)", Kind(200).String())
}
