package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolViz/internal/config"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Server.Mode = "test"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Metrics.Enabled = true
	cfg.Toxicity.Endpoint = ""
	cfg.PubChem.BaseURL = "http://127.0.0.1:1"
	cfg.PubChem.Timeout = 200 * time.Millisecond
	return cfg
}

func TestNew_MemoryBackend(t *testing.T) {
	a, err := New(testConfig(), logging.NewNopLogger())
	require.NoError(t, err)
	defer a.Close()

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"`+Version+`"`)

	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "molviz_active_sessions 0")
}

func TestNew_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Session.Backend = "redis"
	cfg.Redis.Addr = mr.Addr()

	a, err := New(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	defer a.Close()

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis"`)

	body := strings.NewReader(`{"smiles":"CCO"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/molecules/visualize", body)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, mr.Keys())
}

func TestNew_RedisUnavailable(t *testing.T) {
	cfg := testConfig()
	cfg.Session.Backend = "redis"
	cfg.Redis.Addr = "127.0.0.1:1"
	cfg.Redis.DialTimeout = 100 * time.Millisecond

	var (
		a   *App
		err error
	)
	require.NotPanics(t, func() { a, err = New(cfg, logging.NewNopLogger()) })
	require.Error(t, err)
	assert.Nil(t, a)
}

func TestNew_ClosesRedisWhenKafkaFails(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Session.Backend = "redis"
	cfg.Redis.Addr = mr.Addr()
	cfg.Kafka.Enabled = true
	cfg.Kafka.Brokers = nil

	var (
		a   *App
		err error
	)
	require.NotPanics(t, func() { a, err = New(cfg, logging.NewNopLogger()) })
	require.Error(t, err)
	assert.Nil(t, a)
	assert.Eventually(t, func() bool { return mr.CurrentConnectionCount() == 0 },
		2*time.Second, 20*time.Millisecond, "redis connection left open")
}

func TestApp_CloseNil(t *testing.T) {
	var a *App
	assert.NotPanics(t, a.Close)
}

func TestRun_StopsOnCancel(t *testing.T) {
	a, err := New(testConfig(), logging.NewNopLogger())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Render.ImageWidth = 400
	cfg.Conformer.Timeout = time.Second

	sc := ServiceConfig(cfg)
	assert.Equal(t, 400, sc.ImageWidth)
	assert.Equal(t, time.Second, sc.EmbedTimeout)
	assert.Equal(t, "/molecule.xyz", sc.DownloadURL)
}

func TestRedisConfig_Modes(t *testing.T) {
	rc := config.RedisConfig{Mode: "cluster", Addrs: []string{"a:1", "b:2"}}
	assert.Equal(t, []string{"a:1", "b:2"}, RedisConfig(rc).ClusterAddrs)
	assert.Empty(t, RedisConfig(rc).SentinelAddrs)

	rc.Mode = "sentinel"
	rc.MasterName = "mymaster"
	out := RedisConfig(rc)
	assert.Equal(t, []string{"a:1", "b:2"}, out.SentinelAddrs)
	assert.Equal(t, "mymaster", out.MasterName)
}

func TestDescribe_NoServer(t *testing.T) {
	svc := NewService(testConfig(), logging.NewNopLogger(), nil, nil)
	res, err := svc.Describe(context.Background(), "c1ccccc1O")
	require.NoError(t, err)
	assert.Len(t, res.Properties, 9)
}

func TestWatchLogLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "molviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))

	logger, err := NewLogger(config.LogConfig{Level: "info", Format: "json", Output: filepath.Join(dir, "out.log")})
	require.NoError(t, err)
	require.NoError(t, WatchLogLevel(path, logger))

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
	assert.Eventually(t, func() bool {
		logger.Debug("probe")
		data, _ := os.ReadFile(filepath.Join(dir, "out.log"))
		return strings.Contains(string(data), "probe")
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatchLogLevel_MissingFile(t *testing.T) {
	logger, err := NewLogger(config.LogConfig{Level: "info", Output: "stderr"})
	require.NoError(t, err)
	assert.Error(t, WatchLogLevel(filepath.Join(t.TempDir(), "absent.yaml"), logger))
}

//Personal.AI order the ending
