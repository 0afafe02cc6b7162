package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/api/middleware"
	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/repository"
)

// UserResponse is the wire representation of a user. The API key hash
// never leaves the server.
type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	CompanyName *string `json:"company_name,omitempty"`
	Role        string  `json:"role"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		Name:        u.Name,
		CompanyName: u.CompanyName,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}

// HandleGetMe handles GET /v1/me
func HandleGetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// HandleListUsers handles GET /v1/admin/users
func HandleListUsers(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			users []*domain.User
			err   error
		)
		if c.Query("role") == string(domain.RolePartner) {
			users, err = repos.User.ListPartners(c.Request.Context())
		} else {
			users, err = repos.User.List(c.Request.Context())
		}
		if err != nil {
			logger.Error("Failed to list users", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		out := make([]UserResponse, 0, len(users))
		for _, u := range users {
			out = append(out, toUserResponse(u))
		}
		c.JSON(http.StatusOK, gin.H{"users": out})
	}
}
