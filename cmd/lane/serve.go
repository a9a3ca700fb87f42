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

	"github.com/alfredjeanlab/lanes/internal/automation"
	"github.com/alfredjeanlab/lanes/internal/catalog"
	"github.com/alfredjeanlab/lanes/internal/config"
	"github.com/alfredjeanlab/lanes/internal/events"
	"github.com/alfredjeanlab/lanes/internal/export"
	"github.com/alfredjeanlab/lanes/internal/server"
	"github.com/alfredjeanlab/lanes/internal/store/postgres"
	"github.com/alfredjeanlab/lanes/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Lanes server",
	// Override PersistentPreRunE so we don't construct an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres.
		st, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				st.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (LANES_NATS_URL not set)")
		}

		// Register the built-in automations.
		registry := automation.NewRegistry()
		for _, a := range []automation.Automation{automation.NewDemo(), automation.NewReport()} {
			if err := registry.Register(a); err != nil {
				publisher.Close()
				st.Close()
				return err
			}
		}

		// Load the catalog.
		snapshot, err := catalog.Open(cfg.CatalogPath)
		if err != nil {
			publisher.Close()
			st.Close()
			return err
		}
		logger.Info("catalog loaded",
			"path", cfg.CatalogPath,
			"categories", len(snapshot.Current().Categories),
			"blocks", len(snapshot.Current().Blocks),
		)

		// Start the worker pool and requeue work left over from a previous run.
		pool := worker.New(st, registry, publisher, logger, worker.Options{
			Workers:    cfg.Workers,
			QueueSize:  cfg.QueueSize,
			RunTimeout: cfg.ProcessTimeout,
		})
		if n, err := pool.Requeue(context.Background()); err != nil {
			logger.Error("failed to requeue pending submissions", "err", err)
		} else if n > 0 {
			logger.Info("requeued pending submissions", "count", n)
		}

		// Start the HTTP server.
		lanesServer := server.NewLanesServer(st, publisher, registry, snapshot, pool)
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: server.LoggingMiddleware(lanesServer.NewHTTPHandler(cfg.AuthToken)),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the export scheduler if configured.
		var scheduler *export.Scheduler
		if cfg.ExportInterval > 0 {
			var dests []export.Destination

			if cfg.ExportS3Bucket != "" {
				s3Dest, err := export.NewS3Destination(
					context.Background(),
					cfg.ExportS3Bucket,
					cfg.ExportS3Key,
					cfg.ExportS3Region,
					cfg.ExportS3Endpoint,
				)
				if err != nil {
					logger.Error("failed to create S3 export destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("export S3 destination enabled", "bucket", cfg.ExportS3Bucket, "key", cfg.ExportS3Key)
				}
			}

			if len(dests) > 0 {
				scheduler = export.NewScheduler(st, dests, cfg.ExportInterval, logger)
				scheduler.Start()
				logger.Info("export scheduler started", "interval", cfg.ExportInterval)
			}
		}

		logger.Info("lanes server started", "http_addr", cfg.HTTPAddr)

		// SIGHUP reloads the catalog; SIGINT/SIGTERM shut down.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		for {
			sig := <-sigCh
			if sig != syscall.SIGHUP {
				logger.Info("received signal, shutting down", "signal", sig)
				break
			}
			if err := snapshot.Reload(); err != nil {
				logger.Error("catalog reload failed, keeping previous catalog", "err", err)
				continue
			}
			cur := snapshot.Current()
			logger.Info("catalog reloaded", "categories", len(cur.Categories), "blocks", len(cur.Blocks))
			if err := publisher.Publish(context.Background(), events.TopicCatalogReloaded, events.CatalogReloaded{
				Categories: len(cur.Categories),
				Blocks:     len(cur.Blocks),
			}); err != nil {
				logger.Warn("failed to publish catalog reload event", "err", err)
			}
		}

		// Graceful shutdown.
		if scheduler != nil {
			scheduler.Stop()
			logger.Info("export scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		pool.Stop()
		logger.Info("worker pool stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
