package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/sessionlog/internal/backup"
	"github.com/groblegark/sessionlog/internal/config"
	"github.com/groblegark/sessionlog/internal/dispatch"
	"github.com/groblegark/sessionlog/internal/events"
	"github.com/groblegark/sessionlog/internal/server"
	"github.com/groblegark/sessionlog/internal/session"
	"github.com/groblegark/sessionlog/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sessionlog server",
	// Override PersistentPreRunE so we don't create an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres. The store client is created once here and
		// injected everywhere; nothing lazily opens its own connection.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()

		// Create notification publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publisher = pub
			logger.Info("notifications enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("notifications disabled (SESSIONLOG_NATS_URL not set)")
		}
		defer publisher.Close()

		engine := session.NewEngine(store, publisher, logger)
		dispatcher := dispatch.NewDispatcher(engine, logger)

		// Start the queue ingress when NATS is configured.
		var consumer *dispatch.Consumer
		if cfg.NATSURL != "" {
			sub, err := events.NewNATSSubscriber(cfg.NATSURL)
			if err != nil {
				return err
			}
			defer sub.Close()

			consumer = dispatch.NewConsumer(sub, dispatcher, cfg.IngestSubject, logger)
			if err := consumer.Start(); err != nil {
				return err
			}
			logger.Info("queue ingress listening", "subject", cfg.IngestSubject)
		}

		// Start HTTP server.
		httpHandler := server.New(dispatcher, engine, store, logger).NewHTTPHandler(cfg.AuthToken)
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: httpHandler,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start backup scheduler when a destination is configured.
		var scheduler *backup.Scheduler
		if cfg.BackupInterval > 0 && cfg.BackupS3Bucket != "" {
			dest, err := backup.NewS3Destination(
				context.Background(),
				cfg.BackupS3Bucket,
				cfg.BackupS3Key,
				cfg.BackupS3Region,
				cfg.BackupS3Endpoint,
			)
			if err != nil {
				logger.Error("failed to create S3 backup destination", "err", err)
			} else {
				scheduler = backup.NewScheduler(store, []backup.Destination{dest}, cfg.BackupInterval, logger)
				scheduler.Start()
				logger.Info("backup enabled", "bucket", cfg.BackupS3Bucket, "key", cfg.BackupS3Key, "interval", cfg.BackupInterval)
			}
		}

		// Wait for shutdown signal.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())

		if scheduler != nil {
			scheduler.Stop()
		}
		if consumer != nil {
			consumer.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown error", "err", err)
		}

		return nil
	},
}
