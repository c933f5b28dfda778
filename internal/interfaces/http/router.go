// Package http wires the gin engine: middleware chain, page routes, the JSON
// API, probes and the metrics endpoint.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolViz/internal/interfaces/http/handlers"
	"github.com/turtacn/MolViz/internal/interfaces/http/middleware"
)

// RouterConfig collects everything NewRouter mounts. Nil handlers are skipped.
type RouterConfig struct {
	PageHandler     *handlers.PageHandler
	MoleculeHandler *handlers.MoleculeHandler
	HealthHandler   *handlers.HealthHandler

	Session middleware.SessionConfig
	CORS    middleware.CORSConfig
	Logging middleware.LoggingConfig
	// RateLimiter guards coordinate generation; nil disables limiting.
	RateLimiter middleware.RateLimiter
	// MaxBodySize caps request bodies in bytes; zero means no cap.
	MaxBodySize int64

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter builds the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.RequestID())
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.RequestLogging(logger, cfg.Logging))
	if cfg.MaxBodySize > 0 {
		r.Use(limitBody(cfg.MaxBodySize))
	}

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	var visualize []gin.HandlerFunc
	if cfg.RateLimiter != nil {
		visualize = append(visualize, middleware.RateLimit(cfg.RateLimiter))
	}

	sessionMW := middleware.Session(cfg.Session)
	if cfg.PageHandler != nil {
		page := r.Group("/", sessionMW)
		cfg.PageHandler.RegisterRoutes(page, visualize...)
	}
	if cfg.MoleculeHandler != nil {
		api := r.Group("/api/v1", middleware.CORS(cfg.CORS))
		// preflight requests only need to reach the CORS middleware
		api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		cfg.MoleculeHandler.RegisterRoutes(api.Group("", sessionMW), visualize...)
	}

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "404 page not found")
	})
	return r
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

//Personal.AI order the ending
