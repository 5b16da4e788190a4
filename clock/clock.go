// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"sync/atomic"
)

// Clock supplies the logical time of the ledger in epochs.
type Clock interface {
	// CurrentEpoch returns the current epoch, monotonically increasing.
	CurrentEpoch() uint64
	// EpochsSince returns the number of epochs elapsed since epoch, zero if it lies in the future.
	EpochsSince(epoch uint64) uint64
}

// Manual is a clock advanced explicitly by its owner.
type Manual struct {
	epoch atomic.Uint64
}

func NewManual(epoch uint64) *Manual {
	m := &Manual{}
	m.epoch.Store(epoch)
	return m
}

func (m *Manual) CurrentEpoch() uint64 {
	return m.epoch.Load()
}

func (m *Manual) EpochsSince(epoch uint64) uint64 {
	return since(m.CurrentEpoch(), epoch)
}

// Advance moves the clock forward by n epochs and returns the new epoch.
func (m *Manual) Advance(n uint64) uint64 {
	return m.epoch.Add(n)
}

// Set moves the clock to epoch. Moving backwards is ignored.
func (m *Manual) Set(epoch uint64) {
	for {
		cur := m.epoch.Load()
		if epoch <= cur || m.epoch.CompareAndSwap(cur, epoch) {
			return
		}
	}
}

func since(now, epoch uint64) uint64 {
	if epoch >= now {
		return 0
	}
	return now - epoch
}
