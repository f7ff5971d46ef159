package repository

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/wadjakorntonsri/linkshrink/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/linkshrink/pkg/adapters/repository/postgres"
	"github.com/wadjakorntonsri/linkshrink/pkg/adapters/repository/redis"
	"github.com/wadjakorntonsri/linkshrink/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkshrink/pkg/ports"
)

// Backend names a blob store implementation
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
	BackendLibSQL   Backend = "libsql"
	BackendSQLite   Backend = "sqlite"
)

// BackendFor maps a database URL to the backend that serves it.
// Anything without a recognised scheme is treated as a SQLite DSN.
func BackendFor(dbURL string) Backend {
	switch {
	case strings.HasPrefix(dbURL, "memory://"):
		return BackendMemory
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return BackendPostgres
	case strings.HasPrefix(dbURL, "redis://"), strings.HasPrefix(dbURL, "rediss://"):
		return BackendRedis
	case sqlite.IsRemote(dbURL):
		return BackendLibSQL
	default:
		return BackendSQLite
	}
}

// Open connects to the blob store named by dbURL
func Open(dbURL string) (ports.BlobStore, error) {
	backend := BackendFor(dbURL)

	var (
		store ports.BlobStore
		err   error
	)
	switch backend {
	case BackendMemory:
		return memory.NewStore(), nil
	case BackendPostgres:
		store, err = postgres.NewStore(postgres.DefaultConfig(dbURL))
	case BackendRedis:
		store, err = redis.NewStore(dbURL)
	default:
		store, err = sqlite.NewSQLiteRepository(dbURL)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", backend, err)
	}
	return store, nil
}

// OpenCollection opens the blob store for dbURL and stores the collection under key
func OpenCollection(dbURL, key string, logger *slog.Logger) (*Collection, error) {
	store, err := Open(dbURL)
	if err != nil {
		return nil, err
	}
	return NewCollection(store, key, logger), nil
}
