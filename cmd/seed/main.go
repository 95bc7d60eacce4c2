package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"super-heroes-api/internal/config"
	"super-heroes-api/internal/database"
	"super-heroes-api/internal/logger"
	"super-heroes-api/internal/repository"
)

// seed prepares a fresh database: it applies the schema and inserts the
// baseline roles, the administrator account and the protection areas.
func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stdout)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	seeder := database.NewSeeder(
		repository.NewRoleRepository(db.Pool),
		repository.NewUserRepository(db.Pool),
		repository.NewProtectionAreaRepository(db.Pool),
		cfg.BcryptCost,
	)
	if err := seeder.Run(ctx); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	slog.Info("seed complete")
}
