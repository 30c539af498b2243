package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/orderengine/internal/pkg/auth"
	"github.com/polkiloo/orderengine/internal/server/http/dto"
)

const (
	// ActorIDContextKey is a gin context key for the authenticated staff actor.
	ActorIDContextKey = "actorID"
	// RoleContextKey is a gin context key for the actor role.
	RoleContextKey = "actorRole"
)

// TokenParser validates bearer tokens.
type TokenParser interface {
	ParseToken(token string) (pkgAuth.Claims, error)
}

// AuthRequired rejects requests without a valid token carrying one of roles.
func AuthRequired(parser TokenParser, roles ...pkgAuth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			return
		}
		claims, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token")
				return
			}
			abort(c, http.StatusInternalServerError, "INTERNAL", "token verification failed")
			return
		}
		if !claims.HasRole(roles...) {
			abort(c, http.StatusForbidden, "FORBIDDEN", "insufficient role")
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// AuthOptional records the actor when a valid token is present and lets anonymous requests through.
// A malformed token is still rejected.
func AuthOptional(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := parser.ParseToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token")
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

func setClaims(c *gin.Context, claims pkgAuth.Claims) {
	c.Set(ActorIDContextKey, claims.ActorID)
	c.Set(RoleContextKey, claims.Role)
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Code: code, Message: message})
}
