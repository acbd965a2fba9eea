package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session"

// UserKey is the gin context key holding the authenticated username.
const UserKey = "username"

// TokenParser validates a session token and returns its username.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// RequireSession rejects requests without a valid session by redirecting to /login.
func RequireSession(parser TokenParser, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		username, err := parser.ParseToken(token)
		if err != nil {
			logger.Debug("rejected session token", zap.Error(err))
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(UserKey, username)
		c.Next()
	}
}

// CurrentUser returns the username stored by RequireSession, or "".
func CurrentUser(c *gin.Context) string {
	return c.GetString(UserKey)
}
