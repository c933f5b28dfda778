// Package config defines the MolViz configuration structures. No I/O or
// parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"`
}

// SessionConfig selects and tunes the session store.
type SessionConfig struct {
	Backend       string        `mapstructure:"backend"` // "memory" | "redis"
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	CookieName    string        `mapstructure:"cookie_name"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Mode         string        `mapstructure:"mode"` // "standalone" | "sentinel" | "cluster"
	Addr         string        `mapstructure:"addr"`
	Addrs        []string      `mapstructure:"addrs"`
	MasterName   string        `mapstructure:"master_name"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	TLSEnabled   bool          `mapstructure:"tls_enabled"`
}

// KafkaConfig holds the event publisher parameters.
type KafkaConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Brokers          []string      `mapstructure:"brokers"`
	Topic            string        `mapstructure:"topic"`
	GroupID          string        `mapstructure:"group_id"`
	Acks             string        `mapstructure:"acks"`
	CompressionCodec string        `mapstructure:"compression"`
	MaxRetries       int           `mapstructure:"max_retries"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	SASLEnabled      bool          `mapstructure:"sasl_enabled"`
	SASLMechanism    string        `mapstructure:"sasl_mechanism"`
	SASLUsername     string        `mapstructure:"sasl_username"`
	SASLPassword     string        `mapstructure:"sasl_password"`
	TLSEnabled       bool          `mapstructure:"tls_enabled"`
	TLSCAPath        string        `mapstructure:"tls_ca_path"`
}

// PostgresConfig configures the visualization history database written by
// the event worker. History is off unless Enabled is set.
type PostgresConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Database         string        `mapstructure:"database"`
	Username         string        `mapstructure:"username"`
	Password         string        `mapstructure:"password"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
	AutoMigrate      bool          `mapstructure:"auto_migrate"`
}

// PubChemConfig configures the compound existence lookup.
type PubChemConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ToxicityConfig configures the toxicity prediction lookup. An empty
// endpoint makes every lookup return an error record.
type ToxicityConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ConformerConfig tunes 3D coordinate generation.
type ConformerConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	MaxIterations  int           `mapstructure:"max_iterations"`
	ErrorTolerance float64       `mapstructure:"error_tolerance"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// RenderConfig sizes the 2D image and the 3D viewer.
type RenderConfig struct {
	ImageWidth   int `mapstructure:"image_width"`
	ImageHeight  int `mapstructure:"image_height"`
	ViewerWidth  int `mapstructure:"viewer_width"`
	ViewerHeight int `mapstructure:"viewer_height"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// RateLimitConfig bounds how often one session may request coordinate
// generation.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// WorkerConfig tunes the event worker that aggregates visualized events.
type WorkerConfig struct {
	HealthPort     int           `mapstructure:"health_port"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
}

// CORSConfig lists the origins allowed to call the JSON API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	PubChem   PubChemConfig   `mapstructure:"pubchem"`
	Toxicity  ToxicityConfig  `mapstructure:"toxicity"`
	Conformer ConformerConfig `mapstructure:"conformer"`
	Render    RenderConfig    `mapstructure:"render"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	switch c.Session.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" && len(c.Redis.Addrs) == 0 {
			return fmt.Errorf("config: redis.addr is required when session.backend is redis")
		}
	default:
		return fmt.Errorf("config: session.backend %q is invalid; expected memory|redis", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: session.ttl must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("config: session.cookie_name is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("config: kafka.topic is required")
		}
	}

	if c.Postgres.Enabled {
		if c.Postgres.Host == "" || c.Postgres.Database == "" {
			return fmt.Errorf("config: postgres.host and postgres.database are required when postgres is enabled")
		}
		if c.Postgres.Port < 1 || c.Postgres.Port > 65535 {
			return fmt.Errorf("config: postgres.port %d is out of range [1, 65535]", c.Postgres.Port)
		}
	}

	if c.PubChem.BaseURL == "" {
		return fmt.Errorf("config: pubchem.base_url is required")
	}
	if c.PubChem.Timeout <= 0 || c.Toxicity.Timeout <= 0 {
		return fmt.Errorf("config: lookup timeouts must be positive")
	}

	if c.Conformer.MaxAttempts < 1 {
		return fmt.Errorf("config: conformer.max_attempts must be ≥ 1, got %d", c.Conformer.MaxAttempts)
	}
	if c.Conformer.ErrorTolerance <= 0 {
		return fmt.Errorf("config: conformer.error_tolerance must be positive")
	}
	if c.Render.ImageWidth < 1 || c.Render.ImageHeight < 1 {
		return fmt.Errorf("config: render image size %dx%d is invalid", c.Render.ImageWidth, c.Render.ImageHeight)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("config: ratelimit.requests_per_second and ratelimit.burst must be positive")
	}

	if c.Worker.HealthPort < 0 || c.Worker.HealthPort > 65535 {
		return fmt.Errorf("config: worker.health_port %d is out of range [0, 65535]", c.Worker.HealthPort)
	}
	if c.Worker.MaxRetries < 0 {
		return fmt.Errorf("config: worker.max_retries must be ≥ 0, got %d", c.Worker.MaxRetries)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}
	return nil
}

//Personal.AI order the ending
