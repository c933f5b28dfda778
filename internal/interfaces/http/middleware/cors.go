package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists exact origins; "*" allows any origin.
	AllowedOrigins []string
	MaxAge         time.Duration
}

// DefaultCORSConfig allows no cross-origin callers.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{MaxAge: 12 * time.Hour}
}

// CORS returns the gin-contrib/cors handler for the JSON API. Credentials
// are never allowed, so the session cookie is not sent cross-origin.
func CORS(config CORSConfig) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Accept", "Content-Type", HeaderRequestID},
		ExposeHeaders: []string{HeaderRequestID},
		MaxAge:        config.MaxAge,
	}
	allowAll := false
	for _, o := range config.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else if len(config.AllowedOrigins) > 0 {
		cfg.AllowOrigins = config.AllowedOrigins
	} else {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(cfg)
}

//Personal.AI order the ending
