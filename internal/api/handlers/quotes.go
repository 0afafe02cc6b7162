package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/api/middleware"
	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/exchange"
	"github.com/visionify/partner-api/internal/payments"
	"github.com/visionify/partner-api/internal/pricing"
	"github.com/visionify/partner-api/internal/repository"
	"github.com/visionify/partner-api/internal/service"
	"github.com/visionify/partner-api/pkg/errors"
)

// HandlePreviewQuote handles POST /v1/quotes/preview
func HandlePreviewQuote(table *pricing.Table, repos *repository.Repositories, exchangeClient *exchange.Client, logger *zap.Logger) gin.HandlerFunc {
	quoteService := service.NewQuoteService(table, repos, exchangeClient, logger)
	return func(c *gin.Context) {
		var req service.QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		details, err := quoteService.Preview(c.Request.Context(), req)
		if err != nil {
			respondQuoteError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, details)
	}
}

// HandleCreateQuote handles POST /v1/quotes
func HandleCreateQuote(table *pricing.Table, repos *repository.Repositories, exchangeClient *exchange.Client, logger *zap.Logger) gin.HandlerFunc {
	quoteService := service.NewQuoteService(table, repos, exchangeClient, logger)
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		// A replayed idempotency key returns the quote created the first time
		if existing, ok := loadReplayedQuote(c, repos, logger); ok {
			if existing == nil {
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"id":    existing.ID.String(),
				"quote": existing,
			})
			return
		}

		var req service.QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		quote, details, err := quoteService.CreateQuote(c.Request.Context(), user, req)
		if err != nil {
			respondQuoteError(c, logger, err)
			return
		}

		storeIdempotencyKey(c, repos, logger, user, quote.ID)

		c.JSON(http.StatusCreated, gin.H{
			"id":      quote.ID.String(),
			"details": details,
		})
	}
}

// HandleGetQuote handles GET /v1/quotes/:id
func HandleGetQuote(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		quote, ok := loadOwnedQuote(c, repos, logger, user)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, quote)
	}
}

// HandleListQuotes handles GET /v1/quotes
func HandleListQuotes(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var quotes []*domain.Quote
		var err error
		if user.Role == domain.RoleAdmin {
			quotes, err = repos.Quote.List(c.Request.Context())
		} else {
			quotes, err = repos.Quote.ListByCreator(c.Request.Context(), user.ID)
		}
		if err != nil {
			logger.Error("Failed to list quotes", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"quotes": quotes})
	}
}

// CheckoutRequest represents the checkout payload
type CheckoutRequest struct {
	PayerEmail string `json:"payer_email" binding:"required,email"`
}

// HandleCheckoutQuote handles POST /v1/quotes/:id/checkout
func HandleCheckoutQuote(repos *repository.Repositories, gateway *payments.Gateway, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if gateway == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment gateway not configured"})
			return
		}

		// A replayed idempotency key returns the payment recorded the first
		// time instead of charging again
		if existing, ok := loadReplayedQuote(c, repos, logger); ok {
			if existing == nil {
				return
			}
			reference := ""
			if existing.PaymentReference != nil {
				reference = *existing.PaymentReference
			}
			status := ""
			if existing.PaymentStatus != nil {
				status = *existing.PaymentStatus
			}
			c.JSON(http.StatusOK, gin.H{
				"quote_id":          existing.ID.String(),
				"payment_reference": reference,
				"payment_status":    status,
			})
			return
		}

		quote, ok := loadOwnedQuote(c, repos, logger, user)
		if !ok {
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		result, err := gateway.CreateCheckout(c.Request.Context(), quote, req.PayerEmail)
		if err != nil {
			logger.Error("Failed to create checkout", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider error"})
			return
		}

		if err := repos.Quote.SetPayment(c.Request.Context(), quote.ID, result.Reference, result.Status); err != nil {
			logger.Error("Failed to record payment on quote", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		storeIdempotencyKey(c, repos, logger, user, quote.ID)

		c.JSON(http.StatusOK, gin.H{
			"quote_id":          quote.ID.String(),
			"payment_reference": result.Reference,
			"payment_status":    result.Status,
		})
	}
}

func loadOwnedQuote(c *gin.Context, repos *repository.Repositories, logger *zap.Logger, user *domain.User) (*domain.Quote, bool) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote ID"})
		return nil, false
	}

	quote, err := repos.Quote.GetByID(c.Request.Context(), quoteID)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "quote not found"})
			return nil, false
		}
		logger.Error("Failed to get quote", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}

	if user.Role != domain.RoleAdmin && quote.CreatedBy != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return nil, false
	}

	return quote, true
}

// loadReplayedQuote resolves the quote recorded for a replayed idempotency
// key. The second return reports whether the request was a replay at all; a
// replay with a nil quote means the error response was already written.
func loadReplayedQuote(c *gin.Context, repos *repository.Repositories, logger *zap.Logger) (*domain.Quote, bool) {
	_, _, existingQuoteID, isExisting := middleware.GetIdempotencyInfo(c)
	if !isExisting {
		return nil, false
	}

	quoteID, err := uuid.Parse(existingQuoteID)
	if err != nil {
		logger.Error("Invalid quote ID recorded for idempotency key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, true
	}

	quote, err := repos.Quote.GetByID(c.Request.Context(), quoteID)
	if err != nil {
		logger.Error("Failed to get quote for replayed idempotency key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, true
	}

	return quote, true
}

// storeIdempotencyKey records the outcome for the request's idempotency key,
// if one was supplied. Storage failures never fail the request.
func storeIdempotencyKey(c *gin.Context, repos *repository.Repositories, logger *zap.Logger, user *domain.User, quoteID uuid.UUID) {
	key, requestHash, _, _ := middleware.GetIdempotencyInfo(c)
	if key == "" {
		return
	}

	record := &domain.IdempotencyKey{
		Key:         key,
		UserID:      user.ID,
		QuoteID:     quoteID,
		RequestHash: requestHash,
	}
	if err := repos.IdempotencyKey.Create(c.Request.Context(), record); err != nil {
		logger.Warn("Failed to store idempotency key", zap.Error(err))
	}
}

func respondQuoteError(c *gin.Context, logger *zap.Logger, err error) {
	switch err.(type) {
	case *errors.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case *errors.ErrConfiguration:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to compute quote", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
