package ports

import (
	"context"
	"errors"

	"github.com/wadjakorntonsri/linkshrink/pkg/core/domain"
)

// ErrKeyNotFound is returned by a BlobStore when nothing is stored under the key
var ErrKeyNotFound = errors.New("key not found")

// BlobStore keeps opaque values under string keys
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// LinkRepository loads and saves the whole link collection at once
type LinkRepository interface {
	Load(ctx context.Context) ([]domain.Link, error)
	Save(ctx context.Context, links []domain.Link) error
}

// LinkService defines the business logic operations
type LinkService interface {
	Create(ctx context.Context, req domain.CreateRequest) (*domain.Link, error)
	List(ctx context.Context, params domain.ListParams) ([]domain.Link, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.Stats, error)
	Resolve(ctx context.Context, code string) (string, error)
	Sweep(ctx context.Context) (int, error)

	// Migration
	Export(ctx context.Context) ([]domain.Link, error)
	Import(ctx context.Context, links []domain.Link) (int, error)
}
