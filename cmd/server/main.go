package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/OpenNSW/media-upload/internal/config"
	"github.com/OpenNSW/media-upload/internal/logging"
	"github.com/OpenNSW/media-upload/internal/metrics"
	"github.com/OpenNSW/media-upload/internal/server"
	"github.com/OpenNSW/media-upload/internal/uploads"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logging.New(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded successfully",
		"provider", cfg.Media.Provider,
		"folder", cfg.Media.Folder,
		"max_upload_bytes", cfg.Upload.MaxBytes,
		"upload_timeout", cfg.Upload.Timeout,
	)

	slog.Info("CORS configuration",
		"allowed_origins", cfg.CORS.AllowedOrigins,
		"allowed_methods", cfg.CORS.AllowedMethods,
		"allowed_headers", cfg.CORS.AllowedHeaders,
		"allow_credentials", cfg.CORS.AllowCredentials,
		"max_age", cfg.CORS.MaxAge,
	)

	// Initialize the media host
	host, err := uploads.NewMediaHostFromConfig(context.Background(), cfg.Media)
	if err != nil {
		log.Fatalf("failed to initialize media host: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer, err := metrics.NewUploadObserver("media", reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	service := uploads.NewUploadService(host, cfg.Media.Folder, observer)
	uploadHandler := uploads.NewHTTPHandler(service, cfg.Upload.MaxBytes)
	uploadHandler.UploadTimeout = cfg.Upload.Timeout

	opts := server.Options{
		Uploads:   uploadHandler,
		Provider:  host.Name(),
		CORS:      &cfg.CORS,
		PublicDir: cfg.Server.PublicDir,
		Gatherer:  reg,
	}
	if cfg.Media.Provider == config.ProviderLocal {
		opts.MediaDir = cfg.Media.Storage.LocalBaseDir
		opts.MediaPrefix = cfg.Media.Storage.LocalPublicURL
	}

	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           server.NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		slog.Info(fmt.Sprintf("Open http://localhost:%d/index.html in your browser.", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	// Create a context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}
}
