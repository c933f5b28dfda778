package app

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/turtacn/MolViz/internal/config"
	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/database/postgres"
	"github.com/turtacn/MolViz/internal/infrastructure/database/postgres/repositories"
	redisinfra "github.com/turtacn/MolViz/internal/infrastructure/database/redis"
	"github.com/turtacn/MolViz/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/MolViz/internal/interfaces/http"
	"github.com/turtacn/MolViz/internal/interfaces/http/handlers"
	"github.com/turtacn/MolViz/pkg/errors"
)

// EventSource delivers visualized events to a handler until ctx is done.
type EventSource interface {
	Run(ctx context.Context, handler kafka.VisualizedHandler) error
	Close() error
}

// StatsRecorder folds an event into the aggregates. It reports false for an
// event it has already seen.
type StatsRecorder interface {
	Record(ctx context.Context, ev *session.VisualizedEvent) (bool, error)
}

// recorders fans an event out to every store. The event counts as new when
// any store had not seen it; all stores are idempotent, so retrying after a
// partial failure is safe.
type recorders []StatsRecorder

func (rs recorders) Record(ctx context.Context, ev *session.VisualizedEvent) (bool, error) {
	fresh := false
	for _, r := range rs {
		ok, err := r.Record(ctx, ev)
		if err != nil {
			return false, err
		}
		fresh = fresh || ok
	}
	return fresh, nil
}

// Worker consumes visualized events into the Redis statistics, optionally
// into the PostgreSQL history, and serves probes and metrics on a side port.
type Worker struct {
	source  EventSource
	stats   StatsRecorder
	server  *httpserver.Server
	metrics *prometheus.AppMetrics
	cfg     config.WorkerConfig
	logger  logging.Logger
	sleep   func(ctx context.Context, d time.Duration) error
	closers []closer
}

// NewWorker connects to Redis and Kafka as described by cfg.
func NewWorker(cfg *config.Config, logger logging.Logger) (_ *Worker, err error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	w := &Worker{cfg: cfg.Worker, logger: logger, sleep: sleepCtx}
	defer func() {
		if err != nil {
			w.Close()
		}
	}()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		Subsystem:            "worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger.Named("metrics"))
	if err != nil {
		return nil, err
	}
	w.metrics = prometheus.NewAppMetrics(collector)

	client, err := redisinfra.NewClient(RedisConfig(cfg.Redis), logger.Named("redis"))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeServiceUnavailable, "connect stats store")
	}
	w.closers = append(w.closers, closer{"redis", client.Close})
	stats := redisinfra.NewStatsStore(client, logger.Named("stats"))
	checks := []handlers.HealthChecker{handlers.NewHealthCheck("redis", stats.Ping)}
	stores := recorders{stats}

	if cfg.Postgres.Enabled {
		conn, err := OpenHistory(context.Background(), cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, closer{"postgres", conn.Close})
		stores = append(stores, repositories.NewHistoryRepository(conn, logger.Named("history")))
		checks = append(checks, handlers.NewHealthCheck("postgres", conn.HealthCheck))
	}
	w.stats = stores

	consumer, err := NewEventsConsumer(cfg.Kafka, "earliest", logger.Named("consumer"))
	if err != nil {
		return nil, err
	}
	w.closers = append(w.closers, closer{"kafka", consumer.Close})
	w.source = consumer

	engine := httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(Version, checks...),
		Logger:           logger.Named("http"),
		Metrics:          w.metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	})
	w.server = httpserver.NewServer(httpserver.ServerConfig{
		Addr:            net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Worker.HealthPort)),
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, engine, logger)
	return w, nil
}

// OpenHistory connects to the history database and applies pending
// migrations when AutoMigrate is set.
func OpenHistory(ctx context.Context, cfg config.PostgresConfig, logger logging.Logger) (*postgres.Connection, error) {
	conn, err := postgres.NewConnection(ctx, cfg, logger.Named("postgres"))
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(conn.DB()); err != nil {
			_ = conn.Close()
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "migrate history schema")
		}
	}
	return conn, nil
}

// Handle records one event, retrying with exponential backoff. An event that
// still fails is logged and dropped so one bad record cannot stall the topic.
func (w *Worker) Handle(ctx context.Context, ev *session.VisualizedEvent) error {
	backoff := w.cfg.RetryBackoff
	var lastErr error
	for attempt := 0; attempt <= w.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := w.sleep(ctx, backoff); err != nil {
				return err
			}
			backoff *= 2
		}
		recorded, err := w.record(ctx, ev)
		if err == nil {
			status := "recorded"
			if !recorded {
				status = "duplicate"
			}
			w.count(ev, status)
			return nil
		}
		lastErr = err
		if errors.IsCode(err, errors.CodeInvalidParam) {
			break
		}
		w.logger.Warn("event record failed",
			logging.String("event_id", ev.ID),
			logging.Int("attempt", attempt+1),
			logging.Err(err))
	}
	w.count(ev, "failed")
	w.logger.Error("dropping event", logging.String("event_id", ev.ID), logging.Err(lastErr))
	return nil
}

func (w *Worker) record(ctx context.Context, ev *session.VisualizedEvent) (bool, error) {
	if w.cfg.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.HandlerTimeout)
		defer cancel()
	}
	return w.stats.Record(ctx, ev)
}

func (w *Worker) count(ev *session.VisualizedEvent, status string) {
	if w.metrics != nil {
		prometheus.RecordConsumed(w.metrics, ev.Type, status)
	}
}

// Run consumes until ctx is cancelled, then stops the probe server.
func (w *Worker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	if w.server != nil {
		go func() { errCh <- w.server.Start() }()
	}
	w.logger.Info("MolViz worker started", logging.String("version", Version))

	runErr := w.source.Run(ctx, w.Handle)
	if ctx.Err() != nil {
		runErr = nil
	}

	if w.server != nil {
		if err := w.server.Stop(context.Background()); err != nil && runErr == nil {
			runErr = err
		}
		if err := <-errCh; err != nil && runErr == nil {
			runErr = err
		}
	}
	w.logger.Info("MolViz worker stopped")
	return runErr
}

// Close releases the consumer and the Redis connection.
func (w *Worker) Close() {
	if w == nil {
		return
	}
	for i := len(w.closers) - 1; i >= 0; i-- {
		c := w.closers[i]
		if err := c.fn(); err != nil {
			w.logger.Warn("close failed", logging.String("component", c.name), logging.Err(err))
		}
	}
	w.closers = nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

//Personal.AI order the ending
