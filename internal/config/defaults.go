// Package config provides configuration loading, defaults, and validation for
// MolViz.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "release"

	DefaultSessionBackend = "memory"
	DefaultSessionTTL     = 24 * time.Hour
	DefaultCookieName     = "molviz_session"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "molviz:"

	DefaultKafkaBroker = "localhost:9092"
	DefaultKafkaTopic  = "molviz.molecule.visualized"
	DefaultKafkaGroup  = "molviz-events"

	DefaultPostgresHost     = "localhost"
	DefaultPostgresPort     = 5432
	DefaultPostgresDatabase = "molviz"

	DefaultPubChemBaseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	DefaultLookupTimeout  = 10 * time.Second

	DefaultConformerAttempts  = 30
	DefaultConformerIter      = 400
	DefaultConformerTolerance = 0.25
	DefaultConformerTimeout   = 20 * time.Second

	DefaultImageSize    = 300
	DefaultViewerWidth  = 320
	DefaultViewerHeight = 300

	DefaultMetricsNamespace = "molviz"
	DefaultMetricsPath      = "/metrics"

	DefaultRateLimitRPS   = 2.0
	DefaultRateLimitBurst = 10

	DefaultWorkerHealthPort     = 8081
	DefaultWorkerHandlerTimeout = 10 * time.Second
	DefaultWorkerMaxRetries     = 3
	DefaultWorkerRetryBackoff   = time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// defaultValues maps every viper key to its default. Registering them with
// viper also makes each key reachable through MOLVIZ_* environment variables.
var defaultValues = map[string]interface{}{
	"server.host":             "",
	"server.port":             DefaultServerPort,
	"server.mode":             DefaultServerMode,
	"server.read_timeout":     15 * time.Second,
	"server.write_timeout":    60 * time.Second,
	"server.max_body_size":    int64(1 << 20),
	"server.shutdown_timeout": 15 * time.Second,

	"log.level":  DefaultLogLevel,
	"log.format": DefaultLogFormat,
	"log.output": "stdout",

	"session.backend":        DefaultSessionBackend,
	"session.ttl":            DefaultSessionTTL,
	"session.sweep_interval": 10 * time.Minute,
	"session.cookie_name":    DefaultCookieName,
	"session.cookie_secure":  false,

	"redis.mode":          "standalone",
	"redis.addr":          DefaultRedisAddr,
	"redis.password":      "",
	"redis.master_name":   "",
	"redis.db":            0,
	"redis.pool_size":     10,
	"redis.dial_timeout":  5 * time.Second,
	"redis.read_timeout":  3 * time.Second,
	"redis.write_timeout": 3 * time.Second,
	"redis.key_prefix":    DefaultRedisKeyPrefix,
	"redis.tls_enabled":   false,

	"kafka.enabled":        false,
	"kafka.brokers":        []string{DefaultKafkaBroker},
	"kafka.topic":          DefaultKafkaTopic,
	"kafka.group_id":       DefaultKafkaGroup,
	"kafka.acks":           "one",
	"kafka.compression":    "",
	"kafka.max_retries":    3,
	"kafka.write_timeout":  10 * time.Second,
	"kafka.sasl_enabled":   false,
	"kafka.sasl_mechanism": "PLAIN",
	"kafka.sasl_username":  "",
	"kafka.sasl_password":  "",
	"kafka.tls_enabled":    false,
	"kafka.tls_ca_path":    "",

	"postgres.enabled":            false,
	"postgres.host":               DefaultPostgresHost,
	"postgres.port":               DefaultPostgresPort,
	"postgres.database":           DefaultPostgresDatabase,
	"postgres.username":           "molviz",
	"postgres.password":           "",
	"postgres.ssl_mode":           "disable",
	"postgres.max_open_conns":     10,
	"postgres.max_idle_conns":     5,
	"postgres.conn_max_lifetime":  30 * time.Minute,
	"postgres.conn_max_idle_time": 5 * time.Minute,
	"postgres.statement_timeout":  30 * time.Second,
	"postgres.auto_migrate":       true,

	"pubchem.base_url": DefaultPubChemBaseURL,
	"pubchem.timeout":  DefaultLookupTimeout,

	"toxicity.endpoint": "",
	"toxicity.timeout":  DefaultLookupTimeout,

	"conformer.max_attempts":    DefaultConformerAttempts,
	"conformer.max_iterations":  DefaultConformerIter,
	"conformer.error_tolerance": DefaultConformerTolerance,
	"conformer.timeout":         DefaultConformerTimeout,

	"render.image_width":   DefaultImageSize,
	"render.image_height":  DefaultImageSize,
	"render.viewer_width":  DefaultViewerWidth,
	"render.viewer_height": DefaultViewerHeight,

	"metrics.enabled":   true,
	"metrics.namespace": DefaultMetricsNamespace,
	"metrics.path":      DefaultMetricsPath,

	"cors.allowed_origins": []string{"*"},

	"ratelimit.enabled":             true,
	"ratelimit.requests_per_second": DefaultRateLimitRPS,
	"ratelimit.burst":               DefaultRateLimitBurst,

	"worker.health_port":     DefaultWorkerHealthPort,
	"worker.handler_timeout": DefaultWorkerHandlerTimeout,
	"worker.max_retries":     DefaultWorkerMaxRetries,
	"worker.retry_backoff":   DefaultWorkerRetryBackoff,
}

// ApplyDefaults fills every zero-value field in cfg with its default. Fields
// already set by the caller are left unchanged so explicit configuration
// always wins. Booleans are not touched.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 1 << 20
	}

	// ── Session ───────────────────────────────────────────────────────────────
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = DefaultSessionBackend
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = DefaultSessionTTL
	}
	if cfg.Session.SweepInterval == 0 {
		cfg.Session.SweepInterval = 10 * time.Minute
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = DefaultCookieName
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" && len(cfg.Redis.Addrs) == 0 {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroup
	}

	// ── Lookups ───────────────────────────────────────────────────────────────
	if cfg.PubChem.BaseURL == "" {
		cfg.PubChem.BaseURL = DefaultPubChemBaseURL
	}
	if cfg.PubChem.Timeout == 0 {
		cfg.PubChem.Timeout = DefaultLookupTimeout
	}
	if cfg.Toxicity.Timeout == 0 {
		cfg.Toxicity.Timeout = DefaultLookupTimeout
	}

	// ── Conformer ─────────────────────────────────────────────────────────────
	if cfg.Conformer.MaxAttempts == 0 {
		cfg.Conformer.MaxAttempts = DefaultConformerAttempts
	}
	if cfg.Conformer.MaxIterations == 0 {
		cfg.Conformer.MaxIterations = DefaultConformerIter
	}
	if cfg.Conformer.ErrorTolerance == 0 {
		cfg.Conformer.ErrorTolerance = DefaultConformerTolerance
	}
	if cfg.Conformer.Timeout == 0 {
		cfg.Conformer.Timeout = DefaultConformerTimeout
	}

	// ── Render ────────────────────────────────────────────────────────────────
	if cfg.Render.ImageWidth == 0 {
		cfg.Render.ImageWidth = DefaultImageSize
	}
	if cfg.Render.ImageHeight == 0 {
		cfg.Render.ImageHeight = DefaultImageSize
	}
	if cfg.Render.ViewerWidth == 0 {
		cfg.Render.ViewerWidth = DefaultViewerWidth
	}
	if cfg.Render.ViewerHeight == 0 {
		cfg.Render.ViewerHeight = DefaultViewerHeight
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Rate limit ────────────────────────────────────────────────────────────
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = DefaultRateLimitBurst
	}

	// ── Postgres ──────────────────────────────────────────────────────────────
	if cfg.Postgres.Host == "" {
		cfg.Postgres.Host = DefaultPostgresHost
	}
	if cfg.Postgres.Port == 0 {
		cfg.Postgres.Port = DefaultPostgresPort
	}
	if cfg.Postgres.Database == "" {
		cfg.Postgres.Database = DefaultPostgresDatabase
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.HealthPort == 0 {
		cfg.Worker.HealthPort = DefaultWorkerHealthPort
	}
	if cfg.Worker.HandlerTimeout == 0 {
		cfg.Worker.HandlerTimeout = DefaultWorkerHandlerTimeout
	}
	if cfg.Worker.RetryBackoff == 0 {
		cfg.Worker.RetryBackoff = DefaultWorkerRetryBackoff
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

//Personal.AI order the ending
