package main

import (
	"context"
	"log/slog"
	"os"

	"pizzaservice/internal/config"
	"pizzaservice/internal/db"
	"pizzaservice/internal/logger"
	"pizzaservice/internal/repository"
	"pizzaservice/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	log.Info("starting seed script")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := db.Migrate(gormDB, false); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := service.NewCredentialStore(repository.NewUserRepository(gormDB), cfg.BcryptCost)
	created, err := service.SeedAdmin(context.Background(), store, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Error("failed to seed admin", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if created {
		log.Info("admin user created", slog.String("email", cfg.AdminEmail))
	} else {
		log.Info("admin user already present", slog.String("email", cfg.AdminEmail))
	}
}
