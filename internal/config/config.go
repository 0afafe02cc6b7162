package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	Environment    string
	Database       DatabaseConfig
	Payment        PaymentConfig
	Exchange       ExchangeConfig
	PricingTable   string
	AllowedOrigins []string
	LogLevel       string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type PaymentConfig struct {
	AccessToken string
}

type ExchangeConfig struct {
	BaseURL      string
	BaseCurrency string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PRICING_TABLE", "config/pricing.json")
	viper.SetDefault("EXCHANGE_BASE_URL", "https://open.er-api.com/v6")
	viper.SetDefault("EXCHANGE_BASE_CURRENCY", "USD")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "partnerapi"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Payment: PaymentConfig{
			AccessToken: getEnvOrViper("MERCADOPAGO_ACCESS_TOKEN", ""),
		},
		Exchange: ExchangeConfig{
			BaseURL:      getEnvOrViper("EXCHANGE_BASE_URL", "https://open.er-api.com/v6"),
			BaseCurrency: getEnvOrViper("EXCHANGE_BASE_CURRENCY", "USD"),
		},
		PricingTable:   getEnvOrViper("PRICING_TABLE", "config/pricing.json"),
		AllowedOrigins: splitOrigins(getEnvOrViper("ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:       getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.PricingTable == "" {
		return nil, fmt.Errorf("PRICING_TABLE is required")
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
