package main

import (
	"fmt"
	"os"

	"fincheck/internal/config"
	"fincheck/internal/database"
	"fincheck/internal/logger"
	"fincheck/internal/mailer"
	"fincheck/internal/router"
	"fincheck/internal/validator"
)

// @title           Fincheck API
// @version         1.0
// @description     Fincheck tracks monthly budgets and transactions, resolves per-user categories and reports on spending over time.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	svc := router.NewServices(dbManager.DB())
	created, err := svc.Categories.SeedGlobalDefaults()
	if err != nil {
		return fmt.Errorf("failed to seed default categories: %w", err)
	}
	if created > 0 {
		log.Infof("Seeded %d default categories", created)
	}

	validator.Register()
	engine := router.New(appConfig, svc, mailer.New(appConfig, logger.Named("mailer")))

	log.Infof("Starting Fincheck server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}
