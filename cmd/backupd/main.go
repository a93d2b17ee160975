package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opsarc/backupd/internal/api"
	"github.com/opsarc/backupd/internal/auth"
	"github.com/opsarc/backupd/internal/backup"
	"github.com/opsarc/backupd/internal/config"
	"github.com/opsarc/backupd/internal/operators"
)

var (
	version    = "0.1.0"
	listenAddr = flag.String("listen", "", "Override listen address (e.g., :8280)")
	devMode    = flag.Bool("dev", false, "Enable development mode")
)

func main() {
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *devMode || config.IsDevMode() {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if *devMode || config.IsDevMode() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}))
	}

	slog.SetDefault(logger)
	logger.Info("Starting backupd", "version", version)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	logger.Info("Backup directory", "path", cfg.BackupDir)

	// Open the privileged-operator store
	operatorStore, err := operators.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open operator store", "error", err)
		os.Exit(1)
	}
	defer operatorStore.Close()

	// Wire the service: one guard shared by the API and the scheduler
	verifier := auth.NewVerifier(cfg.JWTSecret, operatorStore)
	guard := backup.NewGuard()
	archive := backup.NewStore(cfg.BackupDir)
	executor := backup.NewExecutor(cfg.BackupDir, cfg.DatabaseURL, cfg.JobTimeout, logger)

	scheduler, err := backup.NewScheduler(cfg.Schedule, guard, executor, logger)
	if err != nil {
		logger.Error("Failed to set up backup schedule", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("Recurring backup scheduled", "schedule", cfg.Schedule)

	apiServer := api.NewServer(verifier, guard, archive, executor, cfg.CORSOrigin, logger)

	// Setup HTTP server. No write timeout: a dump response stays open for the
	// length of the dump.
	server := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     apiServer,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("API server starting", "address", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down backupd...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// Let any in-flight scheduled backup finish before exiting
	<-scheduler.Stop().Done()

	logger.Info("Shutdown complete")
}
