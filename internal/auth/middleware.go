package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/response"
)

const userKey = "user"

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// abortUnavailable answers a request whose token could not be checked because
// the user store or the session service failed.
func abortUnavailable(c *gin.Context, logger internal.Logger, err error) {
	logger.Errorf("[request_id=%s] authentication unavailable: %v", c.GetString("request_id"), err)
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		response.Failure(http.StatusInternalServerError, "Authentication unavailable"))
}

// RequireUser rejects requests without a valid bearer token.
func RequireUser(provider Provider, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			user, err := provider.Authenticate(c.Request.Context(), token)
			if err == nil {
				c.Set(userKey, user)
				c.Next()
				return
			}
			if !errors.Is(err, ErrInvalidToken) {
				abortUnavailable(c, logger, err)
				return
			}
			logger.Warnf("[request_id=%s] authentication failed: %v", c.GetString("request_id"), err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized())
	}
}

// OptionalUser attaches the user when a valid token is present and lets
// anonymous requests through.
func OptionalUser(provider Provider, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			user, err := provider.Authenticate(c.Request.Context(), token)
			switch {
			case err == nil:
				c.Set(userKey, user)
			case errors.Is(err, ErrInvalidToken):
				logger.Debugf("[request_id=%s] ignoring invalid token: %v", c.GetString("request_id"), err)
			default:
				abortUnavailable(c, logger, err)
				return
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *internal.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*internal.User); ok {
			return user
		}
	}
	return nil
}
