package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/api/handlers"
	"github.com/visionify/partner-api/internal/api/middleware"
	"github.com/visionify/partner-api/internal/config"
	"github.com/visionify/partner-api/internal/exchange"
	"github.com/visionify/partner-api/internal/payments"
	"github.com/visionify/partner-api/internal/pricing"
	"github.com/visionify/partner-api/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(
	cfg *config.Config,
	repos *repository.Repositories,
	table *pricing.Table,
	exchangeClient *exchange.Client,
	gateway *payments.Gateway,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Public: anyone can apply to become a partner
		v1.POST("/partner-applications", handlers.HandleSubmitApplication(repos, logger))

		// Authenticated routes (partners and admins)
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(repos, logger))
		authed.Use(middleware.IdempotencyMiddleware(repos, logger))
		{
			authed.GET("/me", handlers.HandleGetMe())

			authed.GET("/deals", handlers.HandleListDeals(repos, logger))
			authed.GET("/deals/export", handlers.HandleExportDeals(repos, logger))
			authed.GET("/deals/:id", handlers.HandleGetDeal(repos, logger))
			authed.POST("/deals", handlers.HandleRegisterDeal(repos, logger))
			authed.PATCH("/deals/:id", handlers.HandleUpdateDeal(repos, logger))
			authed.DELETE("/deals/:id", handlers.HandleDeleteDeal(repos, logger))

			authed.POST("/quotes/preview", handlers.HandlePreviewQuote(table, repos, exchangeClient, logger))
			authed.POST("/quotes", handlers.HandleCreateQuote(table, repos, exchangeClient, logger))
			authed.GET("/quotes", handlers.HandleListQuotes(repos, logger))
			authed.GET("/quotes/:id", handlers.HandleGetQuote(repos, logger))
			authed.POST("/quotes/:id/checkout", handlers.HandleCheckoutQuote(repos, gateway, logger))

			authed.GET("/exchange-rates", handlers.HandleGetExchangeRates(exchangeClient, table, logger))

			authed.GET("/customers", handlers.HandleListCustomers(repos, logger))
			authed.GET("/customers/:id", handlers.HandleGetCustomer(repos, logger))
			authed.POST("/customers", handlers.HandleCreateCustomer(repos, logger))
			authed.PUT("/customers/:id", handlers.HandleUpdateCustomer(repos, logger))
			authed.DELETE("/customers/:id", handlers.HandleDeleteCustomer(repos, logger))

			authed.GET("/resources", handlers.HandleListResources(repos, logger))
		}

		// Admin routes
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(repos, logger))
		adminRoutes.Use(middleware.AdminOnly())
		{
			adminRoutes.GET("/partner-applications", handlers.HandleListApplications(repos, logger))
			adminRoutes.POST("/partner-applications/:id/approve", handlers.HandleApproveApplication(repos, logger))
			adminRoutes.POST("/partner-applications/:id/reject", handlers.HandleRejectApplication(repos, logger))

			adminRoutes.GET("/users", handlers.HandleListUsers(repos, logger))

			adminRoutes.POST("/resources", handlers.HandleCreateResource(repos, logger))
			adminRoutes.PUT("/resources/:id", handlers.HandleUpdateResource(repos, logger))
			adminRoutes.DELETE("/resources/:id", handlers.HandleDeleteResource(repos, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
