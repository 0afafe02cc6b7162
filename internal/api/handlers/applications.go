package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/visionify/partner-api/internal/api/middleware"
	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/repository"
	"github.com/visionify/partner-api/internal/service"
	"github.com/visionify/partner-api/pkg/errors"
)

// HandleSubmitApplication handles POST /v1/partner-applications (public)
func HandleSubmitApplication(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.ApplicationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		app := &domain.PartnerApplication{
			CompanyName:  req.CompanyName,
			ContactName:  req.ContactName,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
			Website:      req.Website,
			Country:      req.Country,
			Message:      req.Message,
			Status:       domain.ApplicationStatusPending,
		}

		if err := repos.Application.Create(c.Request.Context(), app); err != nil {
			logger.Error("Failed to create partner application", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":     app.ID.String(),
			"status": app.Status,
		})
	}
}

// HandleListApplications handles GET /v1/admin/partner-applications
func HandleListApplications(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := domain.ApplicationStatus(c.Query("status"))
		if status != "" && !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		apps, err := repos.Application.List(c.Request.Context(), status)
		if err != nil {
			logger.Error("Failed to list partner applications", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"applications": apps})
	}
}

// RejectApplicationRequest represents the reject payload
type RejectApplicationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// HandleApproveApplication handles POST /v1/admin/partner-applications/:id/approve
//
// Approval provisions the partner user and its API key. The key is returned
// exactly once in this response; only its bcrypt hash is stored.
func HandleApproveApplication(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		app, ok := loadApplication(c, repos, logger)
		if !ok {
			return
		}

		if !app.Status.CanTransitionTo(domain.ApplicationStatusApproved) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": (&errors.ErrInvalidStateTransition{
					From: string(app.Status),
					To:   string(domain.ApplicationStatusApproved),
				}).Error(),
			})
			return
		}

		apiKey := uuid.NewString()
		apiKeyHash, err := bcrypt.GenerateFromPassword([]byte(apiKey), 10)
		if err != nil {
			logger.Error("Failed to hash API key", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		partner := &domain.User{
			Email:       app.ContactEmail,
			Name:        app.ContactName,
			CompanyName: &app.CompanyName,
			Role:        domain.RolePartner,
			APIKeyHash:  string(apiKeyHash),
			IsActive:    true,
		}
		if err := repos.User.Create(c.Request.Context(), partner); err != nil {
			logger.Error("Failed to create partner user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		app.Status = domain.ApplicationStatusApproved
		app.ReviewedBy = &admin.ID
		if err := repos.Application.Update(c.Request.Context(), app); err != nil {
			logger.Error("Failed to update partner application", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":         app.ID.String(),
			"status":     app.Status,
			"partner_id": partner.ID.String(),
			"api_key":    apiKey,
		})
	}
}

// HandleRejectApplication handles POST /v1/admin/partner-applications/:id/reject
func HandleRejectApplication(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		app, ok := loadApplication(c, repos, logger)
		if !ok {
			return
		}

		var req RejectApplicationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if !app.Status.CanTransitionTo(domain.ApplicationStatusRejected) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": (&errors.ErrInvalidStateTransition{
					From: string(app.Status),
					To:   string(domain.ApplicationStatusRejected),
				}).Error(),
			})
			return
		}

		app.Status = domain.ApplicationStatusRejected
		app.ReviewNote = &req.Reason
		app.ReviewedBy = &admin.ID
		if err := repos.Application.Update(c.Request.Context(), app); err != nil {
			logger.Error("Failed to update partner application", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":     app.ID.String(),
			"status": app.Status,
		})
	}
}

func loadApplication(c *gin.Context, repos *repository.Repositories, logger *zap.Logger) (*domain.PartnerApplication, bool) {
	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application ID"})
		return nil, false
	}

	app, err := repos.Application.GetByID(c.Request.Context(), appID)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
			return nil, false
		}
		logger.Error("Failed to get partner application", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}

	return app, true
}
