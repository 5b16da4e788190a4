// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides a typed LRU over golang-lru that counts hits and misses.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// Stats is a snapshot of lookups served by GetOrLoad.
type Stats struct {
	Hits   int64
	Misses int64
}

// HitRate returns hits per lookup in [0, 1], 0 when nothing was looked up.
func (s Stats) HitRate() float64 {
	if total := s.Hits + s.Misses; total > 0 {
		return float64(s.Hits) / float64(total)
	}
	return 0
}

// LRU is a fixed size cache of V keyed by K.
type LRU[K comparable, V any] struct {
	cache        *lru.Cache
	hits, misses atomic.Int64
}

// NewLRU creates a cache holding at most size entries. size must be positive.
func NewLRU[K comparable, V any](size int) (*LRU[K, V], error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{cache: c}, nil
}

func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.cache.Get(key); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

func (l *LRU[K, V]) Add(key K, value V) {
	l.cache.Add(key, value)
}

func (l *LRU[K, V]) Contains(key K) bool {
	return l.cache.Contains(key)
}

func (l *LRU[K, V]) Len() int {
	return l.cache.Len()
}

// GetOrLoad returns the cached value or loads and caches it. Failed loads are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		l.hits.Add(1)
		return v, nil
	}
	l.misses.Add(1)
	v, err := load(key)
	if err != nil {
		return v, err
	}
	l.cache.Add(key, v)
	return v, nil
}

func (l *LRU[K, V]) Stats() Stats {
	return Stats{Hits: l.hits.Load(), Misses: l.misses.Load()}
}
