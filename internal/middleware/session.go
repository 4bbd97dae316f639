package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "sid"
	sessionKey    = "session"
	maxSessionLen = 128
)

// Session identifies the caller by the X-Session-ID header or the sid
// cookie, issuing a new id (as both a cookie and a response header) when
// neither is present.
func Session(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := clean(c.GetHeader(SessionHeader))
		if id == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				id = clean(cookie)
			}
		}
		if id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, 365*24*60*60, "/", "", secureCookie, true)
		}

		c.Set(sessionKey, id)
		c.Header(SessionHeader, id)
		c.Next()
	}
}

// SessionID returns the id set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

func clean(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > maxSessionLen || strings.ContainsAny(id, ": \t") {
		return ""
	}
	return id
}
