package main

import (
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/ekotto/cashbook/internal/app"
	"github.com/ekotto/cashbook/internal/config"
)

// The GUI shell owns the long-running process; this binary bootstraps the
// local store so first launch never sees a missing database.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	a, err := app.New(cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialise store: %v", err)
	}

	sqlDB, err := a.DB.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	logger.Info().
		Str("app", cfg.AppName).
		Str("env", cfg.AppEnv).
		Str("database", cfg.DatabaseURL).
		Msg("cashbook store ready")
}
