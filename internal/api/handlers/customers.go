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

// HandleListCustomers handles GET /v1/customers
func HandleListCustomers(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		customers, err := repos.Customer.ListByPartnerID(c.Request.Context(), user.ID)
		if err != nil {
			logger.Error("Failed to list customers", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"customers": customers})
	}
}

// HandleGetCustomer handles GET /v1/customers/:id
func HandleGetCustomer(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		customer, ok := loadOwnedCustomer(c, repos, logger, user)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, customer)
	}
}

// HandleCreateCustomer handles POST /v1/customers
func HandleCreateCustomer(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.CustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		customer := &domain.Customer{
			PartnerID:    user.ID,
			Name:         req.Name,
			ContactName:  req.ContactName,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
			Address:      req.Address,
			City:         req.City,
			Country:      req.Country,
			Notes:        req.Notes,
		}

		if err := repos.Customer.Create(c.Request.Context(), customer); err != nil {
			logger.Error("Failed to create customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, customer)
	}
}

// HandleUpdateCustomer handles PUT /v1/customers/:id
func HandleUpdateCustomer(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		customer, ok := loadOwnedCustomer(c, repos, logger, user)
		if !ok {
			return
		}

		var req service.CustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		customer.Name = req.Name
		customer.ContactName = req.ContactName
		customer.ContactEmail = req.ContactEmail
		customer.ContactPhone = req.ContactPhone
		customer.Address = req.Address
		customer.City = req.City
		customer.Country = req.Country
		customer.Notes = req.Notes

		if err := repos.Customer.Update(c.Request.Context(), customer); err != nil {
			logger.Error("Failed to update customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, customer)
	}
}

// HandleDeleteCustomer handles DELETE /v1/customers/:id
func HandleDeleteCustomer(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		customer, ok := loadOwnedCustomer(c, repos, logger, user)
		if !ok {
			return
		}

		if err := repos.Customer.Delete(c.Request.Context(), customer.ID); err != nil {
			logger.Error("Failed to delete customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func loadOwnedCustomer(c *gin.Context, repos *repository.Repositories, logger *zap.Logger, user *domain.User) (*domain.Customer, bool) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer ID"})
		return nil, false
	}

	customer, err := repos.Customer.GetByID(c.Request.Context(), customerID)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return nil, false
		}
		logger.Error("Failed to get customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}

	if user.Role != domain.RoleAdmin && customer.PartnerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return nil, false
	}

	return customer, true
}
