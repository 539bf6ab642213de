package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "authClaims"

// Authenticate validates the Bearer token and stores the claims on the gin
// context for downstream handlers.
func Authenticate(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		claims, err := tm.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireRoles rejects requests whose authenticated role is outside the
// allowed set.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := FromContext(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

// BlockManagerWrites enforces the manager read-only contract on write routes.
func BlockManagerWrites() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := FromContext(c)
		if claims != nil && claims.Role == RoleManager {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Managers have read-only access. Cannot perform this action.",
			})
			return
		}
		c.Next()
	}
}

// FromContext returns the authenticated claims, or nil outside an
// authenticated route.
func FromContext(c *gin.Context) *Claims {
	v, exists := c.Get(claimsContextKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
