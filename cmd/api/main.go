package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/api"
	"github.com/visionify/partner-api/internal/config"
	"github.com/visionify/partner-api/internal/exchange"
	"github.com/visionify/partner-api/internal/payments"
	"github.com/visionify/partner-api/internal/pricing"
	"github.com/visionify/partner-api/internal/repository/postgres"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run startup migrations
	if err := postgres.Migrate(context.Background(), db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Load and validate the pricing table
	table, err := pricing.LoadTable(cfg.PricingTable)
	if err != nil {
		logger.Fatal("Failed to load pricing table",
			zap.String("path", cfg.PricingTable),
			zap.Error(err),
		)
	}
	logger.Info("Pricing table loaded",
		zap.String("path", cfg.PricingTable),
		zap.Int("tiers", len(table.Tiers)),
		zap.Int("scenarios", len(table.Scenarios)),
	)

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	// Exchange rate provider
	exchangeClient := exchange.NewClient(cfg.Exchange, logger)

	// Payment gateway is optional: without a token, checkout returns 503
	var gateway *payments.Gateway
	if cfg.Payment.AccessToken != "" {
		gateway, err = payments.NewGateway(cfg.Payment.AccessToken, logger)
		if err != nil {
			logger.Fatal("Failed to initialize payment gateway", zap.Error(err))
		}
	} else {
		logger.Warn("MERCADOPAGO_ACCESS_TOKEN not set, quote checkout disabled")
	}

	// Create and start router
	router := api.NewRouter(cfg, repos, table, exchangeClient, gateway, logger)

	addr := ":" + cfg.Port
	logger.Info("Starting server",
		zap.String("addr", addr),
		zap.String("environment", cfg.Environment),
	)

	if err := router.Run(addr); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
