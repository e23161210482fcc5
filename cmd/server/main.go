package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/roomtab/roomtab/internal/api"
	"github.com/roomtab/roomtab/internal/auth"
	"github.com/roomtab/roomtab/internal/config"
	"github.com/roomtab/roomtab/internal/service"
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
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	server := api.NewServer(
		service.NewAuthService(authenticator, jwtManager),
		service.NewGroupService(store),
		service.NewLedgerService(store),
		service.NewNotifyService(store),
		service.NewGroceryService(store),
		jwtManager,
		cfg.CORSOrigin,
	)

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server.Handler()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
