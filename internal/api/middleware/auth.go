package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"food-donation-api-server/internal/auth"
	"food-donation-api-server/internal/models"
)

// Context keys set by Authenticate for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "user_role"
	CtxEmail  = "user_email"
)

// Authenticate validates the bearer JWT and puts the user identity into the
// request context.
func Authenticate(issuer auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := issuer.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, string(claims.Role))
		c.Set(CtxEmail, claims.Email)

		c.Next()
	}
}

// Authorize is a middleware factory checking the authenticated user's role
// against an allow-list. Must run after Authenticate.
func Authorize(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(CtxRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "User role not found in context"})
			return
		}

		role, ok := userRole.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "User role has an invalid type"})
			return
		}

		for _, allowed := range allowedRoles {
			if string(allowed) == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
	}
}
