// Package app assembles MolViz from its configuration: the chemistry toolkit,
// session store, lookup clients, event publisher, metrics and HTTP server.
// cmd/apiserver and the CLI both build on it.
package app

import (
	"context"
	"net"
	"strconv"

	"github.com/gin-gonic/gin"

	appmol "github.com/turtacn/MolViz/internal/application/molecule"
	"github.com/turtacn/MolViz/internal/config"
	domainMol "github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/conformer"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/depict"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/descriptor"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/smiles"
	redisinfra "github.com/turtacn/MolViz/internal/infrastructure/database/redis"
	"github.com/turtacn/MolViz/internal/infrastructure/external/pubchem"
	"github.com/turtacn/MolViz/internal/infrastructure/external/toxicity"
	"github.com/turtacn/MolViz/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/MolViz/internal/interfaces/http"
	"github.com/turtacn/MolViz/internal/interfaces/http/handlers"
	"github.com/turtacn/MolViz/internal/interfaces/http/middleware"
	"github.com/turtacn/MolViz/pkg/errors"
)

// Build information, set with -ldflags at release time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewLogger builds the server logger from the log section.
func NewLogger(lc config.LogConfig) (logging.Logger, error) {
	out := []string{"stdout"}
	if lc.Output != "" {
		out = []string{lc.Output}
	}
	return logging.NewLogger(logging.LogConfig{
		Level:       lc.Level,
		Format:      lc.Format,
		OutputPaths: out,
	})
}

// WatchLogLevel applies log.level edits of configPath to logger at runtime.
// Other settings need a restart.
func WatchLogLevel(configPath string, logger logging.Logger) error {
	ls, ok := logger.(logging.LevelSetter)
	if !ok {
		return nil
	}
	return config.Watch(configPath, func(cfg *config.Config) {
		ls.SetLevel(cfg.Log.Level)
		logger.Info("log level reloaded", logging.String("level", cfg.Log.Level))
	}, func(err error) {
		logger.Warn("ignoring invalid config change", logging.Err(err))
	})
}

// Toolkit builds the pure-Go chemistry backend.
func Toolkit(cfg config.ConformerConfig) domainMol.Toolkit {
	return domainMol.Toolkit{
		Parser: smiles.NewParser(),
		Conformers: conformer.NewGenerator(
			conformer.WithMaxAttempts(cfg.MaxAttempts),
			conformer.WithMaxIterations(cfg.MaxIterations),
			conformer.WithTolerance(cfg.ErrorTolerance),
		),
		Descriptors: descriptor.NewEngine(),
		Renderer:    depict.NewRenderer(),
	}
}

// LookupClients builds the toxicity and PubChem clients. metrics may be nil.
func LookupClients(cfg *config.Config, logger logging.Logger, metrics *prometheus.AppMetrics) (*toxicity.Client, *pubchem.Client) {
	userAgent := "MolViz/" + Version
	toxOpts := []toxicity.Option{
		toxicity.WithTimeout(cfg.Toxicity.Timeout),
		toxicity.WithUserAgent(userAgent),
		toxicity.WithLogger(logger.Named("toxicity")),
	}
	pcOpts := []pubchem.Option{
		pubchem.WithTimeout(cfg.PubChem.Timeout),
		pubchem.WithUserAgent(userAgent),
		pubchem.WithLogger(logger.Named("pubchem")),
	}
	if metrics != nil {
		toxOpts = append(toxOpts, toxicity.WithObserver(prometheus.LookupObserver(metrics, "toxicity")))
		pcOpts = append(pcOpts, pubchem.WithObserver(prometheus.LookupObserver(metrics, "pubchem")))
	}
	return toxicity.NewClient(cfg.Toxicity.Endpoint, toxOpts...), pubchem.NewClient(cfg.PubChem.BaseURL, pcOpts...)
}

// ServiceConfig maps the render and conformer sections onto the service.
func ServiceConfig(cfg *config.Config) appmol.Config {
	sc := appmol.DefaultConfig()
	if cfg.Render.ImageWidth > 0 {
		sc.ImageWidth = cfg.Render.ImageWidth
	}
	if cfg.Render.ImageHeight > 0 {
		sc.ImageHeight = cfg.Render.ImageHeight
	}
	if cfg.Render.ViewerWidth > 0 {
		sc.ViewerWidth = cfg.Render.ViewerWidth
	}
	if cfg.Render.ViewerHeight > 0 {
		sc.ViewerHeight = cfg.Render.ViewerHeight
	}
	sc.EmbedTimeout = cfg.Conformer.Timeout
	return sc
}

// NewService builds the visualization service over store. metrics may be nil.
func NewService(cfg *config.Config, logger logging.Logger, store session.Store, metrics *prometheus.AppMetrics, opts ...appmol.Option) appmol.Service {
	tox, pc := LookupClients(cfg, logger, metrics)
	base := []appmol.Option{appmol.WithConfig(ServiceConfig(cfg))}
	if metrics != nil {
		base = append(base, appmol.WithMetrics(metrics))
	}
	return appmol.NewService(Toolkit(cfg.Conformer), store, tox, pc, logger.Named("molecule"), append(base, opts...)...)
}

// RedisConfig translates the redis section for the infrastructure client.
func RedisConfig(rc config.RedisConfig) *redisinfra.Config {
	out := &redisinfra.Config{
		Mode:         rc.Mode,
		Addr:         rc.Addr,
		MasterName:   rc.MasterName,
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
		KeyPrefix:    rc.KeyPrefix,
		TLSEnabled:   rc.TLSEnabled,
	}
	switch rc.Mode {
	case "sentinel":
		out.SentinelAddrs = rc.Addrs
	case "cluster":
		out.ClusterAddrs = rc.Addrs
	}
	return out
}

// KafkaSecurity translates the kafka TLS and SASL settings.
func KafkaSecurity(kc config.KafkaConfig) kafka.SecurityConfig {
	return kafka.SecurityConfig{
		SASLEnabled:   kc.SASLEnabled,
		SASLMechanism: kc.SASLMechanism,
		SASLUsername:  kc.SASLUsername,
		SASLPassword:  kc.SASLPassword,
		TLSEnabled:    kc.TLSEnabled,
		TLSCAPath:     kc.TLSCAPath,
	}
}

// NewEventsConsumer builds a consumer for the visualized-event topic.
func NewEventsConsumer(kc config.KafkaConfig, startOffset string, logger logging.Logger) (*kafka.Consumer, error) {
	return kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:     kc.Brokers,
		GroupID:     kc.GroupID,
		Topic:       kc.Topic,
		StartOffset: startOffset,
		Security:    KafkaSecurity(kc),
	}, logger)
}

type closer struct {
	name string
	fn   func() error
}

// App is a fully wired MolViz server.
type App struct {
	cfg     *config.Config
	logger  logging.Logger
	server  *httpserver.Server
	engine  *gin.Engine
	service appmol.Service
	memory  *session.MemoryStore
	limiter *middleware.TokenBucketLimiter
	closers []closer
}

// New wires every component described by cfg. On error, anything already
// opened is closed again.
func New(cfg *config.Config, logger logging.Logger) (_ *App, err error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	gin.SetMode(cfg.Server.Mode)

	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.AppMetrics
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger.Named("metrics"))
		if err != nil {
			return nil, err
		}
		metrics = prometheus.NewAppMetrics(collector)
	}

	var checkers []handlers.HealthChecker
	var store session.Store
	switch cfg.Session.Backend {
	case "redis":
		client, cerr := redisinfra.NewClient(RedisConfig(cfg.Redis), logger.Named("redis"))
		if cerr != nil {
			return nil, errors.Wrap(cerr, errors.CodeServiceUnavailable, "connect session store")
		}
		a.closers = append(a.closers, closer{"redis", client.Close})
		rs := redisinfra.NewSessionStore(client, cfg.Session.TTL, logger.Named("session"))
		checkers = append(checkers, handlers.NewHealthCheck("redis", rs.Ping))
		store = rs
	default:
		a.memory = session.NewMemoryStore(cfg.Session.TTL)
		store = a.memory
		if collector != nil {
			collector.RegisterGaugeFunc("active_sessions", "Sessions held in memory", func() float64 {
				return float64(a.memory.Len())
			})
		}
	}

	var publisher appmol.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer, perr := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:          cfg.Kafka.Brokers,
			Acks:             cfg.Kafka.Acks,
			MaxRetries:       cfg.Kafka.MaxRetries,
			CompressionCodec: cfg.Kafka.CompressionCodec,
			WriteTimeout:     cfg.Kafka.WriteTimeout,
			Security:         KafkaSecurity(cfg.Kafka),
		}, logger.Named("kafka"))
		if perr != nil {
			return nil, perr
		}
		pub := kafka.NewPublisher(producer, cfg.Kafka.Topic, logger.Named("events"))
		a.closers = append(a.closers, closer{"kafka", pub.Close})
		publisher = pub
	}

	a.service = NewService(cfg, logger, store, metrics, appmol.WithPublisher(publisher))

	page, err := handlers.NewPageHandler(a.service, logger.Named("page"), handlers.PageConfig{
		ImageWidth:  cfg.Render.ImageWidth,
		ImageHeight: cfg.Render.ImageHeight,
	})
	if err != nil {
		return nil, err
	}

	var limiter middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		a.limiter = middleware.NewTokenBucketLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.Session.SweepInterval)
		limiter = a.limiter
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		cors.AllowedOrigins = cfg.CORS.AllowedOrigins
	}

	a.engine = httpserver.NewRouter(httpserver.RouterConfig{
		PageHandler:     page,
		MoleculeHandler: handlers.NewMoleculeHandler(a.service),
		HealthHandler:   handlers.NewHealthHandler(Version, checkers...),
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			MaxAge:     int(cfg.Session.TTL.Seconds()),
			Secure:     cfg.Session.CookieSecure,
		},
		CORS:             cors,
		Logging:          middleware.DefaultLoggingConfig(),
		RateLimiter:      limiter,
		MaxBodySize:      cfg.Server.MaxBodySize,
		Logger:           logger.Named("http"),
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	})

	a.server = httpserver.NewServer(httpserver.ServerConfig{
		Addr:            net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, a.engine, logger)
	return a, nil
}

// Handler returns the gin engine.
func (a *App) Handler() *gin.Engine { return a.engine }

// Service returns the visualization service.
func (a *App) Service() appmol.Service { return a.service }

// Run serves until ctx is cancelled or the server fails. Cancellation drains
// in-flight requests within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.memory != nil && a.cfg.Session.SweepInterval > 0 {
		go a.memory.RunSweeper(ctx, a.cfg.Session.SweepInterval)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.server.Start() }()
	a.logger.Info("MolViz started",
		logging.String("addr", a.server.Addr()),
		logging.String("version", Version),
		logging.String("session_backend", a.cfg.Session.Backend))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := a.server.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

// Close releases external connections in reverse order of creation.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			a.logger.Warn("close failed", logging.String("component", c.name), logging.Err(err))
		}
	}
	a.closers = nil
}

//Personal.AI order the ending
