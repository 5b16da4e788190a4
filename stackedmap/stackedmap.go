// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stackedmap keeps uncommitted writes on top of a read-only source
// with checkpoints that can be rolled back.
package stackedmap

// MapGetter reads a key from the underlying source.
type MapGetter[K comparable, V any] func(key K) (value V, exist bool, err error)

// StackedMap is a write overlay split into levels. Every Put lands in the top
// level and Pop undoes the top level's writes in reverse order.
type StackedMap[K comparable, V any] struct {
	src     MapGetter[K, V]
	dirty   map[K]V
	journal []write[K, V]
	marks   []int // journal length at each Push
}

type write[K comparable, V any] struct {
	key    K
	value  V
	prev   V
	hadOld bool
}

// New returns a map reading through to src, with one base level.
func New[K comparable, V any](src MapGetter[K, V]) *StackedMap[K, V] {
	sm := &StackedMap[K, V]{src: src}
	sm.Reset()
	return sm
}

// Depth returns the number of levels.
func (sm *StackedMap[K, V]) Depth() int {
	return len(sm.marks)
}

// Push opens a new level and returns the depth before it.
func (sm *StackedMap[K, V]) Push() int {
	sm.marks = append(sm.marks, len(sm.journal))
	return len(sm.marks) - 1
}

// Pop discards the top level and every write made since its Push.
func (sm *StackedMap[K, V]) Pop() {
	mark := sm.marks[len(sm.marks)-1]
	for i := len(sm.journal) - 1; i >= mark; i-- {
		w := sm.journal[i]
		if w.hadOld {
			sm.dirty[w.key] = w.prev
		} else {
			delete(sm.dirty, w.key)
		}
	}
	sm.journal = sm.journal[:mark]
	sm.marks = sm.marks[:len(sm.marks)-1]
}

// PopTo pops levels until Depth equals depth.
func (sm *StackedMap[K, V]) PopTo(depth int) {
	for len(sm.marks) > depth {
		sm.Pop()
	}
}

// Get returns the latest written value, falling back to the source.
func (sm *StackedMap[K, V]) Get(key K) (V, bool, error) {
	if v, ok := sm.dirty[key]; ok {
		return v, true, nil
	}
	return sm.src(key)
}

// Put writes into the top level. The map must have at least one level.
func (sm *StackedMap[K, V]) Put(key K, value V) {
	if len(sm.marks) == 0 {
		panic("stackedmap: put on empty stack")
	}
	prev, had := sm.dirty[key]
	sm.dirty[key] = value
	sm.journal = append(sm.journal, write[K, V]{key: key, value: value, prev: prev, hadOld: had})
}

// Journal calls cb for every surviving Put, oldest first, until cb returns false.
func (sm *StackedMap[K, V]) Journal(cb func(key K, value V) bool) {
	for _, w := range sm.journal {
		if !cb(w.key, w.value) {
			return
		}
	}
}

// Reset drops all writes and leaves a single empty base level.
func (sm *StackedMap[K, V]) Reset() {
	sm.dirty = make(map[K]V)
	sm.journal = nil
	sm.marks = []int{0}
}
