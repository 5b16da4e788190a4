// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics holds the process wide meters. Every meter is a no-op until
// Enable is called, so packages declare theirs unconditionally at package level
// and resolve them on first use.
package metrics

import (
	"net/http"
	"sync"
)

// CounterVec is a set of monotonically increasing counters partitioned by label values.
// Values are given in the order the labels were declared.
type CounterVec interface {
	Inc(values ...string)
	Add(delta int64, values ...string)
}

// Gauge is a single value that can go up and down.
type Gauge interface {
	Set(int64)
}

// Histogram samples observations into buckets.
type Histogram interface {
	Observe(int64)
}

var (
	// EpochBuckets fits spans measured in epochs, up to a few max allocation periods.
	EpochBuckets = []float64{0, 1, 2, 4, 7, 14, 28, 56, 112}
	// LatencyBuckets fits request durations in milliseconds.
	LatencyBuckets = []float64{
		0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
		150, 200, 300, 400, 500, 750, 1000,
		1500, 2000, 3000, 4000, 5000, 10000,
	}
)

type backend interface {
	counterVec(name, help string, labels []string) CounterVec
	gauge(name, help string) Gauge
	histogram(name, help string, buckets []float64) Histogram
	handler() http.Handler
}

var (
	mu      sync.RWMutex
	current backend = noop{}
)

func active() backend {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Handler serves the enabled meters in the Prometheus exposition format.
func Handler() http.Handler {
	return active().handler()
}

// lazy resolves a meter against whichever backend is active on first call.
func lazy[T any](create func(b backend) T) func() T {
	var (
		once  sync.Once
		meter T
	)
	return func() T {
		once.Do(func() {
			meter = create(active())
		})
		return meter
	}
}

func NewCounterVec(name, help string, labels ...string) func() CounterVec {
	return lazy(func(b backend) CounterVec { return b.counterVec(name, help, labels) })
}

func NewGauge(name, help string) func() Gauge {
	return lazy(func(b backend) Gauge { return b.gauge(name, help) })
}

func NewHistogram(name, help string, buckets []float64) func() Histogram {
	return lazy(func(b backend) Histogram { return b.histogram(name, help, buckets) })
}

type noop struct{}

func (noop) counterVec(string, string, []string) CounterVec { return noop{} }
func (noop) gauge(string, string) Gauge { return noop{} }
func (noop) histogram(string, string, []float64) Histogram { return noop{} }
func (noop) handler() http.Handler { return http.NotFoundHandler() }
func (noop) Inc(...string) {}
func (noop) Add(int64, ...string) {}
func (noop) Set(int64) {}
func (noop) Observe(int64) {}
