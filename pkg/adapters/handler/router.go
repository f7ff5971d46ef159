package handler

import (
	"log/slog"
	"net/http"

	"github.com/wadjakorntonsri/linkshrink/pkg/config"
	"github.com/wadjakorntonsri/linkshrink/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, service ports.LinkService, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := NewHTTPHandler(service, logger, cfg.FrontendURL)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /{short_code}", h.Redirect)

	api := http.NewServeMux()
	api.HandleFunc("POST /api/v1/links", h.Create)
	api.HandleFunc("GET /api/v1/links", h.List)
	api.HandleFunc("DELETE /api/v1/links/{id}", h.Delete)
	api.HandleFunc("GET /api/v1/stats", h.Stats)

	if cfg.AuthEnabled {
		authHandler := NewAuthHandler(cfg, logger)
		mux.HandleFunc("GET /auth/google/login", authHandler.Login)
		mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
		mux.HandleFunc("GET /auth/logout", authHandler.Logout)

		mw := NewMiddleware(cfg)
		mux.Handle("/api/v1/", mw.AuthMiddleware(api))
	} else {
		mux.Handle("/api/v1/", api)
	}

	return withMiddleware(mux, logger)
}

// withMiddleware logs every request, including ones recovered from a panic
func withMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	next = Recovery(logger)(next)
	return Logging(logger)(next)
}
