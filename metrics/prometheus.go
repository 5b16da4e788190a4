// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vechain/stakeledger/log"
)

const namespace = "stakeledger"

var logger = log.WithContext("pkg", "metrics")

// Enable switches the process to Prometheus backed meters. Meters resolved
// before the call stay no-ops. Calling it again has no effect.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := current.(*promBackend); !ok {
		current = newPromBackend()
	}
}

// promBackend keeps its own registry so only ledger meters and the runtime
// collectors are exposed.
type promBackend struct {
	registry *prometheus.Registry
	meters   sync.Map // name => meter
}

func newPromBackend() *promBackend {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &promBackend{registry: reg}
}

// getOrCreate returns the meter registered under name, creating it once.
func getOrCreate[T any](p *promBackend, name string, create func() (T, prometheus.Collector)) T {
	if m, ok := p.meters.Load(name); ok {
		return m.(T)
	}
	meter, collector := create()
	if actual, loaded := p.meters.LoadOrStore(name, meter); loaded {
		return actual.(T)
	}
	if err := p.registry.Register(collector); err != nil {
		logger.Warn("unable to register metric", "name", name, "err", err)
	}
	return meter
}

func (p *promBackend) counterVec(name, help string, labels []string) CounterVec {
	return getOrCreate(p, name, func() (CounterVec, prometheus.Collector) {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
		return &promCounterVec{vec}, vec
	})
}

func (p *promBackend) gauge(name, help string) Gauge {
	return getOrCreate(p, name, func() (Gauge, prometheus.Collector) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
		return &promGauge{g}, g
	})
}

func (p *promBackend) histogram(name, help string, buckets []float64) Histogram {
	return getOrCreate(p, name, func() (Histogram, prometheus.Collector) {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: name, Help: help, Buckets: buckets})
		return &promHistogram{h}, h
	})
}

func (p *promBackend) handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

type promCounterVec struct {
	vec *prometheus.CounterVec
}

func (c *promCounterVec) Inc(values ...string) {
	c.vec.WithLabelValues(values...).Inc()
}

func (c *promCounterVec) Add(delta int64, values ...string) {
	c.vec.WithLabelValues(values...).Add(float64(delta))
}

type promGauge struct {
	gauge prometheus.Gauge
}

func (g *promGauge) Set(v int64) {
	g.gauge.Set(float64(v))
}

type promHistogram struct {
	histogram prometheus.Histogram
}

func (h *promHistogram) Observe(v int64) {
	h.histogram.Observe(float64(v))
}
