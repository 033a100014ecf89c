package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/user/district-runner/config"
	"github.com/user/district-runner/internal/content"
	"github.com/user/district-runner/internal/game"
	"github.com/user/district-runner/internal/httpapi"
	"github.com/user/district-runner/internal/storage/sqlite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	envPath := flag.String("env", ".env", "Path to an optional .env file")
	flag.Parse()

	// Load .env before config so DISTRICT_* overrides apply
	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *envPath, err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	logger, err := setupLogger(cfg.Server.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load game content
	bundle, err := loadContent(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load game content", zap.Error(err))
	}

	// Open snapshot storage
	store, closer, err := openStore(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer closer.Close()

	// Initialize game manager
	gameManager, err := game.NewGameManager(cfg, bundle, store)
	if err != nil {
		logger.Fatal("Failed to create game manager", zap.Error(err))
	}
	gameManager.SetLogger(logger)

	// Start autosave after everything else is initialized
	gameManager.StartAutoSave(time.Duration(cfg.Storage.AutosaveSeconds) * time.Second)
	defer gameManager.StopAutoSave()

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: httpapi.NewServer(gameManager, logger).Router(),
	}

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(server, logger)
}

func setupLogger(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	return config.Build()
}

func loadContent(cfg config.Config, logger *zap.Logger) (*content.Bundle, error) {
	format, err := content.ParseFormat(cfg.Content.Format)
	if err != nil {
		return nil, err
	}

	loader := content.NewLoader(cfg.Content.Dir, format)
	loader.SetLogger(logger)
	return loader.Load()
}

// openStore returns the configured snapshot store and what to close on exit
func openStore(cfg config.StorageConfig) (game.SnapshotStore, io.Closer, error) {
	switch cfg.Driver {
	case "", "file":
		store, err := game.NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, io.NopCloser(nil), nil
	case "sqlite":
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func waitForShutdown(server *http.Server, logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Stop accepting requests, then let deferred autosave flush
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	logger.Info("Shutting down")
}
