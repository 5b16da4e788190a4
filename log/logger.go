// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
)

const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs to a handler.
type Logger interface {
	With(ctx ...any) Logger

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
}

var root atomic.Value

func init() {
	root.Store(ethlog.NewLogger(DiscardHandler()))
}

// SetDefault sets the handler all loggers write to, including those created
// by WithContext before the call.
func SetDefault(h slog.Handler) {
	root.Store(ethlog.NewLogger(h))
}

// Root returns the root logger.
func Root() Logger {
	return &logger{}
}

// New returns a logger writing to h, detached from the root.
func New(h slog.Handler, ctx ...any) Logger {
	return &logger{ctx: ctx, fixed: ethlog.NewLogger(h)}
}

// WithContext returns a logger carrying ctx in every record.
// It resolves the root handler on each write, so package level loggers follow SetDefault.
func WithContext(ctx ...any) Logger {
	return &logger{ctx: ctx}
}

type logger struct {
	ctx   []any
	fixed ethlog.Logger
}

func (l *logger) backend() ethlog.Logger {
	if l.fixed != nil {
		return l.fixed
	}
	return root.Load().(ethlog.Logger)
}

func (l *logger) write(level slog.Level, msg string, ctx []any) {
	b := l.backend()
	if !b.Enabled(context.Background(), level) {
		return
	}
	all := make([]any, 0, len(l.ctx)+len(ctx))
	all = append(all, l.ctx...)
	all = append(all, ctx...)
	b.Write(level, msg, all...)
}

func (l *logger) With(ctx ...any) Logger {
	all := make([]any, 0, len(l.ctx)+len(ctx))
	all = append(all, l.ctx...)
	all = append(all, ctx...)
	return &logger{ctx: all, fixed: l.fixed}
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx) }

func (l *logger) Crit(msg string, ctx ...any) {
	l.write(LevelCrit, msg, ctx)
	os.Exit(1)
}

// Legacy verbosity levels, as taken by FromVerbosity.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// FromVerbosity maps a verbosity from 0 (crit) to 5 (trace) to a level.
func FromVerbosity(v int) slog.Level {
	return ethlog.FromLegacyLevel(v)
}

// LevelString returns the lowercase name of a level.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelCrit:
		return "crit"
	default:
		return "unknown"
	}
}
