package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/turtacn/MolViz/internal/config"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/pkg/errors"
)

// driverName is the database/sql name registered by pgx's stdlib package.
const driverName = "pgx"

// sqlOpen is a variable to allow mocking in tests.
var sqlOpen = func(driverName, dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// Connection manages the PostgreSQL database connection pool.
type Connection struct {
	db     *sql.DB
	logger logging.Logger
	once   sync.Once
}

// NewConnection opens the pool described by cfg and verifies it with a ping.
func NewConnection(ctx context.Context, cfg config.PostgresConfig, log logging.Logger) (*Connection, error) {
	db, err := sqlOpen(driverName, buildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to open database connection")
	}

	db.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, 10))
	db.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, 5))
	db.SetConnMaxLifetime(orDefaultDuration(cfg.ConnMaxLifetime, 30*time.Minute))
	db.SetConnMaxIdleTime(orDefaultDuration(cfg.ConnMaxIdleTime, 5*time.Minute))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "database connection failed")
	}

	log.Info("connected to PostgreSQL",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.Database),
	)
	return &Connection{db: db, logger: log}, nil
}

// NewConnectionWithDB wraps an existing pool.
func NewConnectionWithDB(db *sql.DB, log logging.Logger) *Connection {
	return &Connection{db: db, logger: log}
}

// DB returns the underlying pool.
func (c *Connection) DB() *sql.DB {
	return c.db
}

// HealthCheck pings the database and warns when the pool is nearly
// exhausted.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "database health check failed")
	}
	stats := c.db.Stats()
	if stats.MaxOpenConnections > 0 {
		usage := float64(stats.InUse) / float64(stats.MaxOpenConnections)
		if usage > 0.8 {
			c.logger.Warn("high database connection pool usage",
				logging.Int("in_use", stats.InUse),
				logging.Int("max_open", stats.MaxOpenConnections),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

// Close closes the pool once.
func (c *Connection) Close() error {
	var err error
	c.once.Do(func() {
		err = c.db.Close()
		if err != nil {
			c.logger.Error("failed to close PostgreSQL connection", logging.Err(err))
			return
		}
		c.logger.Info("closed PostgreSQL connection")
	})
	return err
}

// buildDSN constructs the connection URL. Statement timeout defaults to 30s.
func buildDSN(cfg config.PostgresConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.Database,
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	} else {
		q.Set("sslmode", "disable")
	}
	q.Set("statement_timeout", fmt.Sprintf("%d", orDefaultDuration(cfg.StatementTimeout, 30*time.Second).Milliseconds()))
	u.RawQuery = q.Encode()
	return u.String()
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orDefaultDuration(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

//Personal.AI order the ending
