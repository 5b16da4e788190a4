// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoad(t *testing.T) {
	c, err := NewLRU[string, []byte](2)
	require.NoError(t, err)

	loads := 0
	load := func(key string) ([]byte, error) {
		loads++
		return []byte(key + "-v"), nil
	}

	for range 3 {
		v, err := c.GetOrLoad("a", load)
		require.NoError(t, err)
		assert.Equal(t, []byte("a-v"), v)
	}
	assert.Equal(t, 1, loads)
	assert.Equal(t, Stats{Hits: 2, Misses: 1}, c.Stats())
	assert.InDelta(t, 2.0/3, c.Stats().HitRate(), 1e-9)

	_, err = c.GetOrLoad("b", func(string) ([]byte, error) { return nil, errors.New("boom") })
	assert.EqualError(t, err, "boom")
	assert.False(t, c.Contains("b"))
}

func TestEviction(t *testing.T) {
	c, err := NewLRU[int, string](2)
	require.NoError(t, err)

	for i := range 3 {
		c.Add(i, strconv.Itoa(i))
	}
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(0)
	assert.False(t, ok, "oldest entry evicted")
	v, ok := c.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestStatsEmpty(t *testing.T) {
	assert.Zero(t, Stats{}.HitRate())

	_, err := NewLRU[int, int](0)
	assert.Error(t, err)
}
