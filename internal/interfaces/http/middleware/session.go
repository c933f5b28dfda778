package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/MolViz/pkg/types/common"
)

// SessionConfig configures the session cookie.
type SessionConfig struct {
	CookieName string
	// MaxAge in seconds; zero makes a browser-session cookie.
	MaxAge int
	Secure bool
}

// Session assigns every browser a session ID held in an HttpOnly,
// SameSite=Lax cookie. A missing or malformed cookie is replaced.
func Session(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, id, cfg.MaxAge, "/", "", cfg.Secure, true)
		}
		c.Set(string(common.ContextKeySessionID), id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), common.ContextKeySessionID, id))
		c.Next()
	}
}

// GetSessionID returns the ID assigned by Session, or "".
func GetSessionID(c *gin.Context) string {
	return c.GetString(string(common.ContextKeySessionID))
}

//Personal.AI order the ending
