package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/repository"
	"github.com/visionify/partner-api/pkg/errors"
)

const userContextKey = "authenticated_user"

// AuthMiddleware authenticates requests via Bearer API key
func AuthMiddleware(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		apiKey := strings.TrimPrefix(header, "Bearer ")
		if apiKey == header || apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed Authorization header"})
			return
		}

		user, err := repos.User.GetByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			if _, ok := err.(*errors.ErrUnauthorized); ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
				return
			}
			logger.Error("Failed to authenticate request", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// AdminOnly rejects callers without the admin role. Must run after
// AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserFromContext(c)
		if !ok || user.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// GetUserFromContext returns the authenticated user set by AuthMiddleware
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}
