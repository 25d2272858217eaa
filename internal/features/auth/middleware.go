package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/whistleblow/internal/access"
	idToken "github.com/xyz-asif/whistleblow/internal/pkg/jwt"
	"github.com/xyz-asif/whistleblow/internal/pkg/response"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

const (
	userKey  = "user"
	actorKey = "actor"
)

// NewAuthMiddleware creates a Gin middleware for JWT authentication
func NewAuthMiddleware(repo *Repository, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Unauthorized(c, "Authorization header required", "AUTH_REQUIRED")
			c.Abort()
			return
		}
		if !authenticate(c, repo, secret) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth authenticates the caller when a token is present and lets
// anonymous callers through otherwise. A bad token is still rejected.
func OptionalAuth(repo *Repository, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Set(actorKey, access.Actor{})
			c.Next()
			return
		}
		if !authenticate(c, repo, secret) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the authenticated user holds one of roles
func RequireRoles(roles ...access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "User not authenticated", "AUTH_REQUIRED")
			c.Abort()
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "Access forbidden", string(apperrors.KindForbidden))
		c.Abort()
	}
}

func authenticate(c *gin.Context, repo *Repository, secret string) bool {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		response.Unauthorized(c, "Invalid authorization format", "INVALID_AUTH_FORMAT")
		return false
	}

	claims, err := idToken.ValidateToken(parts[1], secret)
	if err != nil {
		response.Unauthorized(c, "Invalid or expired token", "INVALID_TOKEN")
		return false
	}

	user, err := repo.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		// a deleted account keeps its token until expiry; treat it as invalid
		response.Unauthorized(c, "User not found", "USER_NOT_FOUND")
		return false
	}

	c.Set(userKey, user)
	c.Set(actorKey, user.Actor())
	return true
}

// CurrentUser returns the authenticated user or nil
func CurrentUser(c *gin.Context) *User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*User)
	return user
}

// ActorFrom returns the caller as seen by the access gate. Routes without
// authentication yield an anonymous actor.
func ActorFrom(c *gin.Context) access.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(access.Actor); ok {
			return actor
		}
	}
	return access.Actor{}
}
