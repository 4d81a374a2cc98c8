package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireAuth rejects anonymous callers with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerFrom(c).IsAnonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrNotAuthenticated.APIError())
			return
		}
		c.Next()
	}
}

// RequireRole is a middleware that checks if the user has the required role.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller.IsAnonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrNotAuthenticated.APIError())
			return
		}

		if caller.Role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Insufficient permissions", map[string]interface{}{
				"required_role": requiredRole,
				"user_role":     caller.Role,
				"user_id":       caller.UserID,
			}))
			return
		}

		c.Next()
	}
}
