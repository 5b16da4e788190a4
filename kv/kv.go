// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the byte-oriented store the ledger state persists into.
package kv

// Getter reads single keys. A missing key is reported as an error
// recognized by IsNotFound.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(error) bool
}

type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch buffers writes and applies them at once on Write.
// Nothing is visible to readers before that.
type Batch interface {
	Putter
	Len() int
	Write() error
}

// Iterator walks a Range in ascending key order.
// Key and Value are only valid until the next call to Next.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}

// Range is the half-open interval [Start, Limit). A nil Limit means no upper bound.
type Range struct {
	Start []byte
	Limit []byte
}

// Store is the full store: point access, batched commits and range scans.
type Store interface {
	Getter
	Putter
	NewBatch() Batch
	Iterate(r Range) Iterator
	Close() error
}
