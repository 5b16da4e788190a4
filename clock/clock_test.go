// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	c := NewManual(10)
	assert.Equal(t, uint64(10), c.CurrentEpoch())
	assert.Equal(t, uint64(4), c.EpochsSince(6))
	assert.Equal(t, uint64(0), c.EpochsSince(10))
	assert.Equal(t, uint64(0), c.EpochsSince(12))

	assert.Equal(t, uint64(13), c.Advance(3))
	assert.Equal(t, uint64(1), c.EpochsSince(12))

	c.Set(5)
	assert.Equal(t, uint64(13), c.CurrentEpoch())
	c.Set(20)
	assert.Equal(t, uint64(20), c.CurrentEpoch())
}

func TestManualImplementsClock(t *testing.T) {
	var c Clock = NewManual(0)
	assert.Equal(t, uint64(0), c.CurrentEpoch())
}
