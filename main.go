package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/rainlens/station-viewer/config"
	"github.com/rainlens/station-viewer/db"
	httpserver "github.com/rainlens/station-viewer/http"
	"github.com/rainlens/station-viewer/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.AppEnv)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connection failed", "error", err)
		return
	}
	defer store.Close()

	srv, err := httpserver.New(cfg, store, logger)
	if err != nil {
		logger.Error("server setup failed", "error", err)
		return
	}
	logger.Info("dashboard API listening", "addr", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
	}
}
