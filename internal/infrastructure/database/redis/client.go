// Package redis wraps go-redis for MolViz: a connection client supporting
// standalone, sentinel and cluster deployments, and a session store that keeps
// each visualization session in a single hash.
package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/pkg/errors"
)

var (
	ErrClientClosed     = errors.New(errors.CodeSessionStore, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.CodeServiceUnavailable, "redis connection failed")
)

// Config holds connection parameters.
type Config struct {
	Mode          string        `mapstructure:"mode"` // standalone, sentinel, cluster
	Addr          string        `mapstructure:"addr"`
	MasterName    string        `mapstructure:"master_name"`
	SentinelAddrs []string      `mapstructure:"sentinel_addrs"`
	ClusterAddrs  []string      `mapstructure:"cluster_addrs"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	PoolSize      int           `mapstructure:"pool_size"`
	MinIdleConns  int           `mapstructure:"min_idle_conns"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TLSEnabled    bool          `mapstructure:"tls_enabled"`
	TLSCAFile     string        `mapstructure:"tls_ca_file"`
	TLSInsecure   bool          `mapstructure:"tls_insecure"`
}

// Client is a closable handle over a go-redis UniversalClient.
type Client struct {
	rdb    redis.UniversalClient
	config *Config
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient connects according to cfg.Mode and verifies the connection with
// a PING.
func NewClient(cfg *Config, log logging.Logger) (*Client, error) {
	applyDefaults(cfg)

	tlsConfig, err := buildTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	var rdb redis.UniversalClient
	switch cfg.Mode {
	case "cluster":
		rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.ClusterAddrs,
			Username:     cfg.Username,
			Password:     cfg.Password,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			MaxRetries:   cfg.MaxRetries,
			TLSConfig:    tlsConfig,
		})
	case "sentinel":
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.MasterName,
			SentinelAddrs: cfg.SentinelAddrs,
			Username:      cfg.Username,
			Password:      cfg.Password,
			DB:            cfg.DB,
			PoolSize:      cfg.PoolSize,
			MinIdleConns:  cfg.MinIdleConns,
			DialTimeout:   cfg.DialTimeout,
			ReadTimeout:   cfg.ReadTimeout,
			WriteTimeout:  cfg.WriteTimeout,
			MaxRetries:    cfg.MaxRetries,
			TLSConfig:     tlsConfig,
		})
	default:
		if cfg.Mode != "" && cfg.Mode != "standalone" {
			log.Warn("Invalid redis mode, defaulting to standalone", logging.String("mode", cfg.Mode))
		}
		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			MaxRetries:   cfg.MaxRetries,
			TLSConfig:    tlsConfig,
		})
	}

	client := &Client{rdb: rdb, config: cfg, logger: log}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, ErrConnectionFailed.WithCause(err)
	}

	log.Info("Redis client connected",
		logging.String("mode", cfg.Mode),
		logging.String("addr", cfg.Addr),
	)
	return client, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = "standalone"
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 10 * runtime.GOMAXPROCS(0)
	}
	if cfg.MinIdleConns == 0 {
		cfg.MinIdleConns = 2
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 3 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "molviz:"
	}
}

func buildTLSConfig(cfg *Config) (*tls.Config, error) {
	if !cfg.TLSEnabled {
		return nil, nil
	}
	tlsConfig := &tls.Config{InsecureSkipVerify: cfg.TLSInsecure}
	if cfg.TLSCAFile != "" {
		caCert, err := os.ReadFile(cfg.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read ca cert: %w", err)
		}
		pool := x509.NewCertPool()
		pool.AppendCertsFromPEM(caCert)
		tlsConfig.RootCAs = pool
	}
	return tlsConfig, nil
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection pool. Closing twice is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.rdb.Close()
	if err == nil {
		c.logger.Info("Closed Redis client")
	} else {
		c.logger.Error("Failed to close Redis client", logging.Err(err))
	}
	return err
}

// KeyPrefix returns the namespace prepended to every key.
func (c *Client) KeyPrefix() string {
	if c.config == nil {
		return ""
	}
	return c.config.KeyPrefix
}

// Underlying exposes the go-redis client.
func (c *Client) Underlying() redis.UniversalClient {
	return c.rdb
}

// IsCluster reports whether the client talks to a cluster.
func (c *Client) IsCluster() bool {
	_, ok := c.rdb.(*redis.ClusterClient)
	return ok
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

//Personal.AI order the ending
