package middleware

import (
	"net/http"
	"strings"

	"drought-watch-api/models"
	"drought-watch-api/services"

	"github.com/gin-gonic/gin"
)

const identityKey = "caller_identity"

// RequireAuth validates the bearer token and stores the caller identity in
// the request context. Role enforcement happens after this, in the service,
// so an unauthorized caller never learns whether a record exists.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if tokenStr == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(identityKey, claims.Identity())
		c.Next()
	}
}

// RequireAdmin guards routes whose handlers talk to the database directly
// and therefore cannot defer the role check to a service.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := services.RequireRole(CallerIdentity(c), models.RoleAdmin); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// CallerIdentity returns the identity stored by RequireAuth, or the zero
// identity on public routes.
func CallerIdentity(c *gin.Context) services.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return services.Identity{}
	}
	id, ok := v.(services.Identity)
	if !ok {
		return services.Identity{}
	}
	return id
}
