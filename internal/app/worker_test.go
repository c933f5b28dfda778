package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolViz/internal/config"
	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolViz/internal/testutil"
	"github.com/turtacn/MolViz/pkg/errors"
)

type fakeSource struct {
	events []*session.VisualizedEvent
	err    error
}

func (f *fakeSource) Run(ctx context.Context, handler kafka.VisualizedHandler) error {
	for _, ev := range f.events {
		if err := handler(ctx, ev); err != nil {
			return err
		}
	}
	return f.err
}

func (f *fakeSource) Close() error { return nil }

type fakeStats struct {
	fail   map[string]int
	calls  map[string]int
	seen   map[string]bool
	failed error
}

func newFakeStats() *fakeStats {
	return &fakeStats{fail: map[string]int{}, calls: map[string]int{}, seen: map[string]bool{}}
}

func (f *fakeStats) Record(_ context.Context, ev *session.VisualizedEvent) (bool, error) {
	f.calls[ev.ID]++
	if f.fail[ev.ID] > 0 {
		f.fail[ev.ID]--
		if f.failed != nil {
			return false, f.failed
		}
		return false, errors.New(errors.CodeSessionStore, "redis down")
	}
	if f.seen[ev.ID] {
		return false, nil
	}
	f.seen[ev.ID] = true
	return true, nil
}

func newTestWorker(t *testing.T, stats StatsRecorder, source EventSource, retries int) (*Worker, prometheus.MetricsCollector, *testutil.MockLogger) {
	t.Helper()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "molviz", Subsystem: "worker"}, logging.NewNopLogger())
	require.NoError(t, err)
	log := testutil.NewMockLogger()
	w := &Worker{
		source:  source,
		stats:   stats,
		metrics: prometheus.NewAppMetrics(collector),
		cfg:     config.WorkerConfig{MaxRetries: retries, RetryBackoff: time.Millisecond},
		logger:  log,
		sleep:   func(context.Context, time.Duration) error { return nil },
	}
	return w, collector, log
}

func scrape(t *testing.T, c prometheus.MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return w.Body.String()
}

func visualized(id string) *session.VisualizedEvent {
	ev := session.NewVisualizedEvent("s", "CCO", "C2H6O", 9, 3)
	ev.ID = id
	return ev
}

func TestWorker_RecordsAndDeduplicates(t *testing.T) {
	stats := newFakeStats()
	src := &fakeSource{events: []*session.VisualizedEvent{visualized("a"), visualized("b"), visualized("a")}}
	w, c, _ := newTestWorker(t, stats, src, 3)

	require.NoError(t, w.Run(context.Background()))

	body := scrape(t, c)
	assert.Contains(t, body, `molviz_worker_events_consumed_total{status="recorded",type="molecule.visualized"} 2`)
	assert.Contains(t, body, `molviz_worker_events_consumed_total{status="duplicate",type="molecule.visualized"} 1`)
}

func TestWorker_RetriesThenSucceeds(t *testing.T) {
	stats := newFakeStats()
	stats.fail["a"] = 2
	w, _, log := newTestWorker(t, stats, nil, 3)

	var slept []time.Duration
	w.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	require.NoError(t, w.Handle(context.Background(), visualized("a")))
	assert.Equal(t, 3, stats.calls["a"])
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, slept)
	assert.True(t, log.HasMessage("warn", "event record failed"))
	assert.False(t, log.HasMessage("error", "dropping event"))
}

func TestWorker_DropsAfterRetries(t *testing.T) {
	stats := newFakeStats()
	stats.fail["a"] = 10
	w, c, log := newTestWorker(t, stats, nil, 2)

	require.NoError(t, w.Handle(context.Background(), visualized("a")))
	assert.Equal(t, 3, stats.calls["a"])
	assert.True(t, log.HasMessage("error", "dropping event"))
	assert.Contains(t, scrape(t, c), `status="failed"`)
}

func TestWorker_InvalidEventNotRetried(t *testing.T) {
	stats := newFakeStats()
	stats.fail["a"] = 10
	stats.failed = errors.New(errors.CodeInvalidParam, "event has no SMILES")
	w, _, _ := newTestWorker(t, stats, nil, 3)

	require.NoError(t, w.Handle(context.Background(), visualized("a")))
	assert.Equal(t, 1, stats.calls["a"])
}

func TestWorker_CancelDuringBackoff(t *testing.T) {
	stats := newFakeStats()
	stats.fail["a"] = 10
	w, _, _ := newTestWorker(t, stats, nil, 3)
	w.sleep = sleepCtx

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.Handle(ctx, visualized("a"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecorders_FreshWhenAnyStoreIsNew(t *testing.T) {
	primary, history := newFakeStats(), newFakeStats()
	history.seen["a"] = true
	rs := recorders{primary, history}

	fresh, err := rs.Record(context.Background(), visualized("a"))
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, 1, history.calls["a"])

	fresh, err = rs.Record(context.Background(), visualized("a"))
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestRecorders_RetriesWholeFanOut(t *testing.T) {
	primary, history := newFakeStats(), newFakeStats()
	history.fail["a"] = 1
	w, collector, _ := newTestWorker(t, recorders{primary, history}, nil, 2)

	require.NoError(t, w.Handle(context.Background(), visualized("a")))
	assert.Equal(t, 2, primary.calls["a"])
	assert.Equal(t, 2, history.calls["a"])
	assert.Contains(t, scrape(t, collector), `status="recorded"`)
	assert.NotContains(t, scrape(t, collector), `status="duplicate"`)
}

func TestNewWorker_RedisUnavailable(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Redis.Addr = "127.0.0.1:1"
	cfg.Redis.DialTimeout = 100 * time.Millisecond

	var (
		w   *Worker
		err error
	)
	require.NotPanics(t, func() { w, err = NewWorker(cfg, logging.NewNopLogger()) })
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeServiceUnavailable))
	assert.Nil(t, w)
}

func TestNewWorker_ClosesRedisWhenHistoryFails(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Redis.Addr = mr.Addr()
	cfg.Postgres.Enabled = true
	cfg.Postgres.Host = "127.0.0.1"
	cfg.Postgres.Port = 1

	var (
		w   *Worker
		err error
	)
	require.NotPanics(t, func() { w, err = NewWorker(cfg, logging.NewNopLogger()) })
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDatabaseError))
	assert.Nil(t, w)
	assert.Eventually(t, func() bool { return mr.CurrentConnectionCount() == 0 },
		2*time.Second, 20*time.Millisecond, "redis connection left open")
}

func TestSleepCtx(t *testing.T) {
	assert.NoError(t, sleepCtx(context.Background(), time.Millisecond))
}

//Personal.AI order the ending
