package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/api/middleware"
	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/repository"
	"github.com/visionify/partner-api/internal/service"
	"github.com/visionify/partner-api/pkg/errors"
)

// HandleListResources handles GET /v1/resources. Partners only see
// published materials; admins see everything.
func HandleListResources(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		publishedOnly := user.Role != domain.RoleAdmin

		resources, err := repos.Resource.List(c.Request.Context(), publishedOnly)
		if err != nil {
			logger.Error("Failed to list resources", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"resources": resources})
	}
}

// HandleCreateResource handles POST /v1/admin/resources
func HandleCreateResource(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.ResourceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		res := &domain.LearningResource{
			Title:       req.Title,
			Type:        req.Type,
			URL:         req.URL,
			Description: req.Description,
			Tags:        req.Tags,
			Published:   req.Published,
			CreatedBy:   &user.ID,
		}

		if err := repos.Resource.Create(c.Request.Context(), res); err != nil {
			logger.Error("Failed to create resource", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, res)
	}
}

// HandleUpdateResource handles PUT /v1/admin/resources/:id
func HandleUpdateResource(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, ok := loadResource(c, repos, logger)
		if !ok {
			return
		}

		var req service.ResourceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		res.Title = req.Title
		res.Type = req.Type
		res.URL = req.URL
		res.Description = req.Description
		res.Tags = req.Tags
		res.Published = req.Published

		if err := repos.Resource.Update(c.Request.Context(), res); err != nil {
			logger.Error("Failed to update resource", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// HandleDeleteResource handles DELETE /v1/admin/resources/:id
func HandleDeleteResource(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, ok := loadResource(c, repos, logger)
		if !ok {
			return
		}

		if err := repos.Resource.Delete(c.Request.Context(), res.ID); err != nil {
			logger.Error("Failed to delete resource", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func loadResource(c *gin.Context, repos *repository.Repositories, logger *zap.Logger) (*domain.LearningResource, bool) {
	resourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource ID"})
		return nil, false
	}

	res, err := repos.Resource.GetByID(c.Request.Context(), resourceID)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return nil, false
		}
		logger.Error("Failed to get resource", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}

	return res, true
}
