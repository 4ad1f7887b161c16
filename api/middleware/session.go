package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikann/photo-gallery/api/common"
	"github.com/mikann/photo-gallery/internal/auth"
)

// Session resolves the session cookie when present and attaches the
// identity to the request context. Anonymous requests pass through, the
// handlers decide what anonymity may see.
func Session(sessions *auth.SessionService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		session, err := sessions.Parse(token)
		if err != nil {
			// An invalid cookie degrades to anonymous instead of failing.
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// RequireSession aborts requests that carry no valid session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.IsAuthenticated(c.Request.Context()) {
			common.RespondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}
