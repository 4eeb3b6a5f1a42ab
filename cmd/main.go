package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mehular0ra/pingme/config"
	"github.com/mehular0ra/pingme/pkg/fanout"
	"github.com/mehular0ra/pingme/pkg/hub"
	"github.com/mehular0ra/pingme/pkg/presence"
	"github.com/mehular0ra/pingme/pkg/routes"
	sig "github.com/mehular0ra/pingme/pkg/signal"
	"github.com/mehular0ra/pingme/pkg/store"

	_ "github.com/mehular0ra/pingme/docs"
)

// @title PingMe API
// @version 1.0
// @description Real-time chat server: contacts, groups, messaging and call signaling.
// @host localhost:8080
// @BasePath /
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger.Info("Starting PingMe server", "port", cfg.Server.Port, "env", cfg.Server.Env)

	storage, err := store.NewStore(ctx, cfg.Database.URL, cfg.Redis.URL, logger)
	if err != nil {
		logger.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	if err := storage.InitSchema(); err != nil {
		logger.Error("Failed to initialize schema", "error", err)
		os.Exit(1)
	}

	if err := storage.EnsureAdminUser(cfg.Chat.AdminUsername); err != nil {
		logger.Error("Failed to seed admin user", "error", err)
		os.Exit(1)
	}
	globalGroup, err := storage.EnsureGlobalGroup(cfg.Chat.GlobalGroupName)
	if err != nil {
		logger.Error("Failed to seed global group", "error", err)
		os.Exit(1)
	}
	logger.Info("Global group ready", "code", globalGroup.Code, "name", globalGroup.Name)

	go storage.StartCleanupWorker(cfg.Cleanup.Interval, cfg.Cleanup.MaxAge)

	registry := presence.NewRegistry()
	engine := fanout.NewEngine(registry, storage, storage, logger)
	relay := sig.NewRelay(registry, logger)

	wsHub := hub.NewHub(registry, engine, relay, storage, logger)
	go wsHub.Run()

	router := routes.NewRouter(wsHub, storage, engine, globalGroup.Code, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	// Every connected session goes offline in one sweep so contacts are not
	// left seeing stale online flags after the process exits.
	now := time.Now()
	for _, code := range registry.Codes() {
		if err := storage.SetUserPresence(code, false, now); err != nil {
			logger.Warn("Failed to mark user offline during shutdown", "code", code, "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
