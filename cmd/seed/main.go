package main

import (
	"log/slog"
	"os"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/config"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/database"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/logging"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/seed"
)

func main() {
	logging.Setup(nil)
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if _, err := seed.Run(db, seed.Options{}); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("demo accounts ready",
		"admin", "admin@demo.com",
		"vendors", "vendor@demo.com, mary@demo.com, ahmed@demo.com",
		"users", "user@demo.com, michael@demo.com, jennifer@demo.com",
		"password", seed.DemoPassword,
	)
}
