// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestJSONHandlerReplace(t *testing.T) {
	var buf bytes.Buffer
	l := New(JSONHandler(&buf), "pkg", "test")

	var nilInt *big.Int
	l.Info("hello", "amount", big.NewInt(42), "u", uint256.NewInt(7), "s", stringer{}, "nil", nilInt)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "info", rec["lvl"])
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, "42", rec["amount"])
	assert.Equal(t, "7", rec["u"])
	assert.Equal(t, "stringer", rec["s"])
	assert.Equal(t, "<nil>", rec["nil"])
	assert.Contains(t, rec, "t")
}

func TestLogfmtHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelInfo)
	l := New(LogfmtHandlerWithLevel(&buf, &level))

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.With("k", "v").Warn("shown", "n", 1)
	out := buf.String()
	assert.True(t, strings.Contains(out, "lvl=warn"), out)
	assert.True(t, strings.Contains(out, "k=v"), out)
	assert.True(t, strings.Contains(out, "n=1"), out)
}

func TestWithContextFollowsDefault(t *testing.T) {
	l := WithContext("pkg", "late")

	var buf bytes.Buffer
	SetDefault(LogfmtHandler(&buf))
	t.Cleanup(func() { SetDefault(DiscardHandler()) })

	l.Info("after default set")
	assert.Contains(t, buf.String(), "pkg=late")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "trace", LevelString(LevelTrace))
	assert.Equal(t, "crit", LevelString(LevelCrit))
	assert.Equal(t, LevelInfo, FromVerbosity(3))
	assert.Equal(t, LevelTrace, FromVerbosity(5))
}
