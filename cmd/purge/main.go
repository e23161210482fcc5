// Command purge deletes settled expenses older than the retention window.
// It is a one-shot job, meant to run from cron.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/roomtab/roomtab/internal/config"
	"github.com/roomtab/roomtab/internal/storage/sqlite"
	"github.com/roomtab/roomtab/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	cutoff := time.Now().AddDate(0, 0, -cfg.RetentionDays).Unix()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := store.PurgeSettledBefore(ctx, cutoff)
	if err != nil {
		slog.Error("Purge failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Purge complete", "deleted", deleted, "retention_days", cfg.RetentionDays)
}
