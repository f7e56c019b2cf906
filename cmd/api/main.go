package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"link-redirector/pkg/config"
	"link-redirector/pkg/http"
	"link-redirector/pkg/logging"
	"link-redirector/pkg/service"
	"link-redirector/pkg/storage"

	"github.com/go-chi/chi/v5"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger(logging.LevelError).Error(ctx, "load config", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(logging.LogLevel(cfg.LogLevel))

	// Data directory
	var dataDir string
	if cfg.StoreDriver == storage.DriverSQLite {
		dataDir, err = cfg.ResolveDataDir()
		if err != nil {
			logger.Error(ctx, "resolve data dir", "error", err)
			os.Exit(1)
		}
	}

	// Storage
	linkStorage, err := storage.Open(ctx, storage.Options{
		Driver:      cfg.StoreDriver,
		DataDir:     dataDir,
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
	})
	if err != nil {
		logger.Error(ctx, "storage initialization failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer linkStorage.Close()
	logger.Info(ctx, "storage ready", "driver", cfg.StoreDriver, "data_dir", dataDir)

	// Service
	linkService := service.NewLinkService(linkStorage, logger)

	// Handler
	handler := http.NewHandler(linkService, cfg.PublicBaseURL)

	// Router
	r := chi.NewRouter()
	http.SetupRoutes(r, handler, logger)

	// Server
	srv := &stdhttp.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Error(ctx, "server stopped", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "shutdown", "error", err)
	}
	logger.Info(ctx, "server stopped")
}
