package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 9090
  mode: debug
log:
  level: debug
  format: console
session:
  backend: redis
  ttl: 2h
redis:
  addr: "redis:6379"
kafka:
  enabled: true
  brokers: ["kafka-1:9092", "kafka-2:9092"]
toxicity:
  endpoint: "http://tox.local/predict"
  timeout: 3s
conformer:
  max_attempts: 5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultKafkaTopic, cfg.Kafka.Topic)
	assert.Equal(t, "http://tox.local/predict", cfg.Toxicity.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Toxicity.Timeout)
	assert.Equal(t, 5, cfg.Conformer.MaxAttempts)
	assert.Equal(t, DefaultConformerIter, cfg.Conformer.MaxIterations)
	assert.Equal(t, DefaultPubChemBaseURL, cfg.PubChem.BaseURL)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "molviz:", cfg.Redis.KeyPrefix)
	assert.False(t, cfg.Postgres.Enabled)
	assert.True(t, cfg.Postgres.AutoMigrate)
	assert.Equal(t, 30*time.Minute, cfg.Postgres.ConnMaxLifetime)
	assert.Equal(t, DefaultWorkerHealthPort, cfg.Worker.HealthPort)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValue(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  mode: production\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MOLVIZ_SERVER_PORT", "7070")
	t.Setenv("MOLVIZ_TOXICITY_ENDPOINT", "http://env.local/tox")

	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "http://env.local/tox", cfg.Toxicity.Endpoint)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MOLVIZ_SESSION_COOKIE_NAME", "sid")
	t.Setenv("MOLVIZ_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)

	viaLoad, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, cfg, viaLoad)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yaml")) })
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")

	var (
		mu     sync.Mutex
		levels []string
	)
	err := Watch(path, func(cfg *Config) {
		mu.Lock()
		levels = append(levels, cfg.Log.Level)
		mu.Unlock()
	}, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(levels) > 0 && levels[len(levels)-1] == "debug"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatch_MissingFile(t *testing.T) {
	assert.Error(t, Watch(filepath.Join(t.TempDir(), "absent.yaml"), func(*Config) {}, nil))
}

//Personal.AI order the ending
