// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// #nosec G404
package metrics

import (
	"io"
	"math/rand/v2"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func reset() {
	mu.Lock()
	defer mu.Unlock()
	current = noop{}
}

func gather(t *testing.T) map[string]*dto.MetricFamily {
	p, ok := active().(*promBackend)
	require.True(t, ok, "prometheus backend not enabled")

	families, err := p.registry.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

func TestPromMetrics(t *testing.T) {
	reset()
	Enable()
	t.Cleanup(reset)

	ops := NewCounterVec("ops", "operations", "parity")()
	hist := NewHistogram("spans", "spans", EpochBuckets)()
	gauge := NewGauge("epoch", "epoch")()

	histTotal := 0
	for i := range rand.N(100) + 2 {
		hist.Observe(int64(i))
		histTotal += i
	}

	total := 0
	for i := range rand.N(100) + 2 {
		ops.Add(int64(i), strconv.Itoa(i%2))
		total += i
	}
	ops.Inc("0")
	total++

	gauge.Set(7)

	families := gather(t)
	require.Equal(t, float64(histTotal), families["stakeledger_spans"].Metric[0].GetHistogram().GetSampleSum())

	sum := 0.0
	for _, m := range families["stakeledger_ops"].Metric {
		sum += m.GetCounter().GetValue()
	}
	require.Equal(t, float64(total), sum)
	require.Equal(t, float64(7), families["stakeledger_epoch"].Metric[0].GetGauge().GetValue())
	assert.Contains(t, families, "go_goroutines")

	// same name resolves to the same meter
	NewCounterVec("ops", "operations", "parity")().Inc("1")
	sum = 0
	for _, m := range gather(t)["stakeledger_ops"].Metric {
		sum += m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(total+1), sum)
}

func TestHandler(t *testing.T) {
	reset()
	t.Cleanup(reset)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)

	Enable()
	NewGauge("handler_gauge", "test gauge")().Set(3)

	rec = httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "stakeledger_handler_gauge 3")
}

func TestLazyLoading(t *testing.T) {
	reset()
	t.Cleanup(reset)

	early := NewGauge("early", "resolved before enabling")
	require.IsType(t, noop{}, early())

	lazyGauge := NewGauge("lazy_gauge", "lazy gauge")
	lazyCounter := NewCounterVec("lazy_counter", "lazy counter")
	lazyHistogram := NewHistogram("lazy_histogram", "lazy histogram", nil)

	Enable()

	require.IsType(t, &promGauge{}, lazyGauge())
	require.IsType(t, &promCounterVec{}, lazyCounter())
	require.IsType(t, &promHistogram{}, lazyHistogram())
	// already resolved meters keep their backend
	require.IsType(t, noop{}, early())
}
