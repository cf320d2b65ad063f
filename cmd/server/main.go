package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"housemap/internal/config"
	"housemap/internal/core"
	"housemap/internal/dataset"
	"housemap/internal/geomap"
	"housemap/internal/logging"
	"housemap/internal/watch"
	"housemap/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"dataset", cfg.Data.Path,
		"watch", cfg.Data.Watch,
		"render_max_concurrent", cfg.Render.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Load the listings dataset
	ds, err := dataset.ReadFile(cfg.Data.Path)
	if err != nil {
		slog.Error("failed to load dataset", "path", cfg.Data.Path, "error", err)
		os.Exit(1)
	}
	slog.Info("dataset loaded",
		"path", cfg.Data.Path,
		"rows", ds.RowCount(),
		"columns", len(ds.Columns()),
	)
	if stats := ds.Stats(); stats.ParseWarnings > 0 {
		slog.Warn("dataset parse warnings",
			"count", stats.ParseWarnings,
			"samples", stats.WarningSamples,
		)
	}

	// Map artifact store and renderer
	store, err := geomap.NewStore(cfg.Render.ArtifactDir, cfg.Render.KeepArtifacts)
	if err != nil {
		slog.Error("failed to open artifact store", "dir", cfg.Render.ArtifactDir, "error", err)
		os.Exit(1)
	}
	renderer := geomap.NewRenderer(store, geomap.Options{
		Style:  cfg.Render.DefaultStyle,
		Zoom:   cfg.Render.DefaultZoom,
		Sample: cfg.Render.SampleSize,
	})

	// Create service with config
	service := core.NewService(ds, renderer, core.ServiceOptions{
		StrictNumeric:        cfg.Filter.StrictNumeric,
		MaxConcurrentRenders: cfg.Render.MaxConcurrent,
		MaxRenderWait:        cfg.Render.MaxWaitTime,
	})

	// Create server with config
	server := web.NewServer(service, store, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	// Watch the dataset file for changes when enabled
	if cfg.Data.Watch {
		watcher, err := watch.New(cfg.Data.Path, service, cfg.Data.WatchDebounce)
		if err != nil {
			slog.Error("failed to start dataset watcher", "error", err)
			os.Exit(1)
		}
		go watcher.Run(jobCtx)
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active renders to complete (with timeout)
		renderStatus := service.RenderStatus()
		if renderStatus.Active > 0 {
			slog.Info("waiting for renders to complete", "active", renderStatus.Active)
			if err := service.DrainRenders(shutdownCtx); err != nil {
				slog.Warn("renders did not complete in time", "error", err)
			} else {
				slog.Info("all renders completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
