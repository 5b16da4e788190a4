// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"time"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

const timeFormat = "2006-01-02T15:04:05-0700"

// Format selects how records are rendered.
type Format int

const (
	FormatTerminal Format = iota // LEVEL [TIME] MESSAGE key=value ...
	FormatJSON
	FormatLogfmt
)

// NewHandler returns a handler writing records at or above level to w.
// Color only applies to FormatTerminal.
func NewHandler(w io.Writer, format Format, level slog.Leveler, color bool) slog.Handler {
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: replaceJSON})
	case FormatLogfmt:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLogfmt})
	default:
		return ethlog.NewTerminalHandlerWithLevel(w, level.Level(), color)
	}
}

// DiscardHandler drops every record.
func DiscardHandler() slog.Handler {
	return slog.DiscardHandler
}

func TerminalHandler(w io.Writer, level slog.Level, color bool) slog.Handler {
	return NewHandler(w, FormatTerminal, level, color)
}

// JSONHandler prints every record, trace included, as one JSON object per line.
func JSONHandler(w io.Writer) slog.Handler {
	return NewHandler(w, FormatJSON, LevelTrace, false)
}

// JSONHandlerWithLevel is JSONHandler filtered by a level that can change at runtime.
func JSONHandlerWithLevel(w io.Writer, level *slog.LevelVar) slog.Handler {
	return NewHandler(w, FormatJSON, level, false)
}

func LogfmtHandler(w io.Writer) slog.Handler {
	return NewHandler(w, FormatLogfmt, LevelTrace, false)
}

func LogfmtHandlerWithLevel(w io.Writer, level *slog.LevelVar) slog.Handler {
	return NewHandler(w, FormatLogfmt, level, false)
}

func replaceLogfmt(_ []string, attr slog.Attr) slog.Attr {
	return replace(attr, true)
}

func replaceJSON(_ []string, attr slog.Attr) slog.Attr {
	return replace(attr, false)
}

// replace shortens the time and level keys and renders amounts and
// identifiers as plain strings.
func replace(attr slog.Attr, logfmt bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			if logfmt {
				return slog.String("t", attr.Value.Time().Format(timeFormat))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			attr.Value = slog.StringValue(v.Format(timeFormat))
		}
	case *big.Int:
		attr.Value = slog.StringValue(orNil(v == nil, v.String))
	case *uint256.Int:
		attr.Value = slog.StringValue(orNil(v == nil, v.Dec))
	case fmt.Stringer:
		isNil := v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil())
		attr.Value = slog.StringValue(orNil(isNil, v.String))
	}
	return attr
}

func orNil(isNil bool, str func() string) string {
	if isNil {
		return "<nil>"
	}
	return str()
}
