package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkshrink/pkg/adapters/handler"
	"github.com/wadjakorntonsri/linkshrink/pkg/adapters/repository"
	"github.com/wadjakorntonsri/linkshrink/pkg/config"
	"github.com/wadjakorntonsri/linkshrink/pkg/core/services"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	// On Vercel the local filesystem is ephemeral; point DATABASE_URL at Turso, Postgres or Redis
	repo, err := repository.OpenCollection(cfg.DatabaseURL, cfg.StorageKey, nil)
	if err != nil {
		panic(err)
	}

	service := services.NewLinkService(repo, services.Config{
		BaseURL:           cfg.BaseURL,
		DefaultExpiryDays: cfg.DefaultExpiryDays,
	})
	mux = handler.NewRouter(cfg, service, nil)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
