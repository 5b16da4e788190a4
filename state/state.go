// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/vechain/stakeledger/cache"
	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/ledger"
	"github.com/vechain/stakeledger/stackedmap"
)

const (
	storageBucket = kv.Bucket("s")
	cacheSize     = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr ledger.Address
	key  ledger.Bytes32
}

func (k storageKey) bytes() []byte {
	return storageBucket.Key(append(k.addr.Bytes(), k.key.Bytes()...))
}

// State manages the ledger state.
// It is not safe for concurrent use; callers serialize access.
type State struct {
	db    kv.Store
	cache *cache.LRU[storageKey, []byte]             // committed raw values, nil for absent keys
	sm    *stackedmap.StackedMap[storageKey, []byte] // keeps revisions of uncommitted writes
}

// New create state object over the given kv store.
func New(db kv.Store) *State {
	lru, _ := cache.NewLRU[storageKey, []byte](cacheSize)
	s := &State{
		db:    db,
		cache: lru,
	}
	s.sm = stackedmap.New[storageKey, []byte](s.load)
	return s
}

// load implements stackedmap.MapGetter, reading committed values.
func (s *State) load(key storageKey) ([]byte, bool, error) {
	v, err := s.cache.GetOrLoad(key, func(key storageKey) ([]byte, error) {
		raw, err := s.db.Get(key.bytes())
		if err != nil {
			if s.db.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// GetRawStorage returns the raw value for given address and key.
// An absent value is returned as nil.
func (s *State) GetRawStorage(addr ledger.Address, key ledger.Bytes32) ([]byte, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage set the raw value. An empty value deletes the slot.
func (s *State) SetRawStorage(addr ledger.Address, key ledger.Bytes32, raw []byte) {
	if len(raw) == 0 {
		raw = nil
	}
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr ledger.Address, key ledger.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr ledger.Address, key ledger.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// CacheStats reports how often committed reads were served from memory.
func (s *State) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage makes a stage object to commit all uncommitted changes.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey][]byte)
	var order []storageKey
	s.sm.Journal(func(k storageKey, v []byte) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})
	return &Stage{state: s, changes: changes, order: order}
}

// Stage holds the net changes of a state, ready to be written.
type Stage struct {
	state   *State
	changes map[storageKey][]byte
	order   []storageKey
}

// Len returns the number of changed slots.
func (st *Stage) Len() int {
	return len(st.order)
}

// Hash computes a digest over the staged changes, in write order.
func (st *Stage) Hash() ledger.Bytes32 {
	data := make([][]byte, 0, len(st.order)*2)
	for _, k := range st.order {
		data = append(data, k.bytes(), st.changes[k])
	}
	return ledger.Blake2b(data...)
}

// Commit writes all changes atomically and resets the state journal.
func (st *Stage) Commit() error {
	batch := st.state.db.NewBatch()
	for _, k := range st.order {
		v := st.changes[k]
		var err error
		if len(v) == 0 {
			err = batch.Delete(k.bytes())
		} else {
			err = batch.Put(k.bytes(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	for _, k := range st.order {
		st.state.cache.Add(k, st.changes[k])
	}
	st.state.sm.Reset()
	return nil
}
