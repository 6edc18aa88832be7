package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rtchat/internal/app/auth"
	"rtchat/internal/app/chat"
	"rtchat/internal/app/db"
	"rtchat/internal/app/presence"
	"rtchat/internal/app/storage"
	"rtchat/internal/handler"
	"rtchat/internal/pkg/logx"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("storage_enabled", cfg.StorageEnabled()).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, pool, "up"); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	stores := db.NewStore(pool)

	deps := &handler.AppDeps{
		Hub:      chat.NewHub(presence.NewRegistry(), stores, cfg.StoreTimeout),
		Config:   cfg,
		Stores:   stores,
		Verifier: auth.NewJWTVerifier(cfg.JWTSecret, stores, cfg.StoreTimeout),
	}

	if cfg.StorageEnabled() {
		deps.Storage, err = storage.NewStorageService(ctx, storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
			S3Region:          cfg.S3Region,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
	} else {
		logx.Warn("S3 storage is not configured; uploads are disabled")
	}

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler.Router(ctx, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logx.Info(fmt.Sprintf("RT Chat Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
	}
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	// Hijacked websocket connections are not tracked by http.Server.
	deps.Hub.Shutdown()
	waitForDrain(shutdownCtx, deps.Hub)

	logx.Info("Server gracefully stopped.")
	return nil
}

// waitForDrain blocks until every connection has run its teardown or ctx expires, so offline
// status is written before the pool closes.
func waitForDrain(ctx context.Context, hub *chat.Hub) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for hub.Registry().Len() > 0 {
		select {
		case <-ctx.Done():
			logx.Warn("Shutdown deadline reached with live connections", "remaining", hub.Registry().Len())
			return
		case <-ticker.C:
		}
	}
}
