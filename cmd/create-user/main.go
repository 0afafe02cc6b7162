package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/config"
	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 5 {
		fmt.Println("Usage: go run cmd/create-user/main.go <name> <email> <role> <api-key>")
		fmt.Println("Example: go run cmd/create-user/main.go \"Jane Ops\" jane@example.com admin \"jane-api-key-12345\"")
		os.Exit(1)
	}

	name := os.Args[1]
	email := os.Args[2]
	role := domain.UserRole(os.Args[3])
	apiKey := os.Args[4]

	if !role.IsValid() {
		fmt.Fprintf(os.Stderr, "Invalid role %q: must be admin or partner\n", os.Args[3])
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Hash the API key
	apiKeyHash, err := bcrypt.GenerateFromPassword([]byte(apiKey), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash API key: %v\n", err)
		os.Exit(1)
	}

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	// Create user
	user := &domain.User{
		Name:       name,
		Email:      email,
		Role:       role,
		APIKeyHash: string(apiKeyHash),
		IsActive:   true,
	}

	err = repos.User.Create(context.Background(), user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ User created successfully!\n\n")
	fmt.Printf("User ID: %s\n", user.ID.String())
	fmt.Printf("Name: %s\n", user.Name)
	fmt.Printf("Role: %s\n", user.Role)
	fmt.Printf("API Key: %s\n", apiKey)
	fmt.Printf("\n⚠️  IMPORTANT: Save this API key securely! You won't be able to see it again.\n")
	fmt.Printf("\nUse this API key in the Authorization header:\n")
	fmt.Printf("Authorization: Bearer %s\n", apiKey)
}
