package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"fincheck/internal/config"
	"fincheck/internal/database"
	"fincheck/internal/logger"
	"fincheck/internal/router"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: migrate <up|down|version|seed> [N]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	command := os.Args[1]
	if command == "seed" {
		return seed(cfg)
	}

	m, err := database.NewMigrator(cfg.MigrationURL())
	if err != nil {
		return err
	}
	defer database.CloseMigrator(m)

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		logger.Get().Info("Migrations applied successfully")

	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				return fmt.Errorf("invalid step count: %w", err)
			}
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)

	default:
		return fmt.Errorf("unknown command: %s (use up, down, version or seed)", command)
	}

	return nil
}

// seed inserts the missing global default categories.
func seed(cfg *config.Config) error {
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return err
	}
	defer dbManager.Close()

	created, err := router.NewServices(dbManager.DB()).Categories.SeedGlobalDefaults()
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	logger.Get().Infof("Seeded %d default categories", created)
	return nil
}
