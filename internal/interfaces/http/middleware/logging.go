package middleware

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/pkg/errors"
	"github.com/turtacn/MolViz/pkg/types/common"
)

// HeaderRequestID carries the request correlation ID.
const HeaderRequestID = "X-Request-ID"

// LoggingConfig holds configuration for the request logging middleware.
type LoggingConfig struct {
	// SkipPaths are not logged (probes, metrics).
	SkipPaths []string
	// SlowThreshold marks a request as slow; zero disables the check.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig skips probe and scrape paths.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// RequestID reuses an incoming X-Request-ID or assigns a new one, and echoes
// it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(string(common.ContextKeyRequestID), id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the ID assigned by RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(common.ContextKeyRequestID))
}

// RequestLogging logs one line per request: 5xx at Error, 4xx and slow
// requests at Warn, everything else at Info.
func RequestLogging(logger logging.Logger, config LoggingConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.Int("bytes", c.Writer.Size()),
			logging.String("client_ip", c.ClientIP()),
			logging.String("request_id", GetRequestID(c)),
		}
		if sid := GetSessionID(c); sid != "" {
			fields = append(fields, logging.String("session_id", sid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("HTTP request completed with server error", fields...)
		case status >= 400:
			logger.Warn("HTTP request completed with client error", fields...)
		case config.SlowThreshold > 0 && duration >= config.SlowThreshold:
			logger.Warn("HTTP request completed (slow)", fields...)
		default:
			logger.Info("HTTP request completed", fields...)
		}
	}
}

// Recovery turns a panic into a 500 and logs it.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		logger.Error("panic recovered",
			logging.Any("panic", recovered),
			logging.String("path", c.Request.URL.Path),
			logging.String("request_id", GetRequestID(c)))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			common.NewErrorResponse(errors.CodeInternal.String(), errors.DefaultMessageForCode(errors.CodeInternal)))
	})
}

//Personal.AI order the ending
