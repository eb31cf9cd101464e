package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/okonev/orderdesk/internal/domain/model"
	pkgAuth "github.com/okonev/orderdesk/internal/pkg/auth"
)

const (
	// ActorContextKey is a gin context key for the authenticated actor.
	ActorContextKey = "actor"
	authCookieName  = "orderdesk_token"
)

// TokenParser resolves bearer tokens into acting principals.
type TokenParser interface {
	ParseToken(token string) (model.Actor, error)
}

// AuthRequired ensures the caller is authenticated before reaching a handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		actor, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(ActorContextKey, actor)
		c.Next()
	}
}

// AdminRequired rejects non-admin actors. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get(ActorContextKey)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		actor, _ := val.(model.Actor)
		if !actor.IsAdmin() {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	// Websocket clients cannot set headers, they pass the token in the query.
	if token := c.Query("token"); token != "" {
		return token
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
