package routers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/huddle-io/huddle/internal/auth"
	"github.com/huddle-io/huddle/internal/handlers"
	"github.com/huddle-io/huddle/internal/models"
	"go.uber.org/zap"
)

// TokenCookieName is read when a request carries no Authorization header.
const TokenCookieName = "huddle_token"

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewApiError(errors.New(message)))
}

// ValidateJWT authenticates requests by a bearer token, or by the token
// cookie set for browsers.
func ValidateJWT(logger *zap.SugaredLogger, signingKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if authz := c.Request.Header.Get("Authorization"); authz != "" {
			parts := strings.Split(authz, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				unauthorized(c, "malformed authorization header")
				return
			}
			token = parts[1]
		} else if cookie, err := c.Cookie(TokenCookieName); err == nil {
			token = cookie
		}
		if token == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		userID, err := auth.ParseToken(signingKey, token)
		if err != nil {
			logger.Debugw("rejected token", "error", err)
			unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(gin.AuthUserKey, userID)
		c.Next()
	}
}

// RequireUser rejects tokens of users that no longer exist.
func RequireUser(api *handlers.API) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := api.CurrentUser(c); err != nil {
			if errors.Is(err, handlers.ErrUserNotFound) {
				unauthorized(c, "user not found")
				return
			}
			api.SendInternalServerError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// LimitConcurrency serves at most the limiter's capacity of requests at
// once. Requests canceled while waiting get a 503.
func LimitConcurrency(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		canceled := limiter.Do(c.Request.Context(), c.Next)
		if canceled {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, models.NewApiError(errors.New("server is busy")))
		}
	}
}
