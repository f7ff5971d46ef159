package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/wadjakorntonsri/linkshrink/pkg/adapters/handler"
	"github.com/wadjakorntonsri/linkshrink/pkg/adapters/repository"
	"github.com/wadjakorntonsri/linkshrink/pkg/config"
	"github.com/wadjakorntonsri/linkshrink/pkg/core/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := setupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting linkshrink",
		slog.String("port", cfg.Port),
		slog.String("storage", string(repository.BackendFor(cfg.DatabaseURL))),
		slog.String("database", maskDSN(cfg.DatabaseURL)),
		slog.String("base_url", cfg.BaseURL),
		slog.Bool("auth", cfg.AuthEnabled),
	)

	// Initialize Repository
	repo, err := repository.OpenCollection(cfg.DatabaseURL, cfg.StorageKey, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	// Initialize Service
	service := services.NewLinkService(repo, services.Config{
		BaseURL:           cfg.BaseURL,
		DefaultExpiryDays: cfg.DefaultExpiryDays,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(cfg, service, logger),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return runServer(server, logger)
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: logLevel}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func runServer(server *http.Server, logger *slog.Logger) error {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("server listening", slog.String("address", server.Addr))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return err
		}
	}
	logger.Info("server stopped")
	return nil
}

// maskDSN hides credentials but keeps the backend visible in logs
func maskDSN(dsn string) string {
	if dsn == "" {
		return "(empty)"
	}
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i+3] + "***"
	}
	return dsn
}
