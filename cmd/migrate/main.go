// Command migrate applies embedded database migrations and exits.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/bookshelf-backend/internal/adapter/postgres"
	"github.com/heartmarshall/bookshelf-backend/internal/app"
	"github.com/heartmarshall/bookshelf-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
		logger.Error("apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("migrations applied")
}
