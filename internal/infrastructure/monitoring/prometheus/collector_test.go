package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/internal/testutil"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestNewMetricsCollector_RuntimeCollectors(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "rt", EnableGoMetrics: true}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Contains(t, scrapeMetrics(t, c), "go_goroutines")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("things_total", "Things", "kind")
	vec.WithLabelValues("a").Inc()
	vec.WithLabelValues("a").Add(2)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_things_total{kind="a"} 3`)
}

func TestRegisterCounter_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	first := c.RegisterCounter("dup_total", "Dup", "k")
	second := c.RegisterCounter("dup_total", "Dup", "k")
	first.WithLabelValues("x").Inc()
	second.WithLabelValues("x").Inc()
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_dup_total{k="x"} 2`)
}

func TestRegister_TypeMismatch(t *testing.T) {
	log := testutil.NewMockLogger()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test"}, log)
	require.NoError(t, err)

	c.RegisterCounter("mixed", "Mixed")
	g := c.RegisterGauge("mixed", "Mixed")
	g.WithLabelValues().Set(5)
	assert.True(t, log.HasMessage("warn", "metric type mismatch"))
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("level", "Level", "name")
	g.WithLabelValues("n").Set(4)
	g.WithLabelValues("n").Inc()
	g.WithLabelValues("n").Dec()
	g.WithLabelValues("n").Dec()
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_level{name="n"} 3`)
}

func TestRegisterGaugeFunc(t *testing.T) {
	c := newTestCollector(t)
	n := 0.0
	c.RegisterGaugeFunc("sampled", "Sampled", func() float64 { return n })
	n = 7
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_sampled 7")
}

func TestRegisterHistogram(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("latency_seconds", "Latency", []float64{1, 2}, "op")
	h.WithLabelValues("read").Observe(1.5)
	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_latency_seconds_bucket{op="read",le="1"} 0`)
	assert.Contains(t, out, `test_unit_latency_seconds_bucket{op="read",le="2"} 1`)
	assert.Contains(t, out, `test_unit_latency_seconds_count{op="read"} 1`)
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timed_seconds", "Timed", nil)
	timer := NewTimer(h.WithLabelValues())
	time.Sleep(time.Millisecond)
	assert.Greater(t, timer.ObserveDuration(), time.Duration(0))
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_timed_seconds_count 1")

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

//Personal.AI order the ending
