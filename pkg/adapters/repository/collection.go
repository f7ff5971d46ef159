// Package repository persists the link collection as one JSON document in a
// blob store and picks the blob backend from a database URL.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wadjakorntonsri/linkshrink/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshrink/pkg/ports"
)

// DefaultKey is the storage identifier of the collection
const DefaultKey = "linkShrink_urls"

// Collection stores every link under a single key
type Collection struct {
	blobs  ports.BlobStore
	key    string
	logger *slog.Logger
}

func NewCollection(blobs ports.BlobStore, key string, logger *slog.Logger) *Collection {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{blobs: blobs, key: key, logger: logger}
}

// Load returns an empty collection when the key is missing or its value
// cannot be decoded. Backend errors are returned.
func (c *Collection) Load(ctx context.Context) ([]domain.Link, error) {
	data, err := c.blobs.Get(ctx, c.key)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return []domain.Link{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.key, err)
	}

	var links []domain.Link
	if err := json.Unmarshal(data, &links); err != nil {
		c.logger.Warn("discarding undecodable collection",
			slog.String("key", c.key),
			slog.Any("error", err),
		)
		return []domain.Link{}, nil
	}
	if links == nil {
		links = []domain.Link{}
	}
	return links, nil
}

func (c *Collection) Save(ctx context.Context, links []domain.Link) error {
	if links == nil {
		links = []domain.Link{}
	}
	data, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.key, err)
	}
	if err := c.blobs.Put(ctx, c.key, data); err != nil {
		return fmt.Errorf("writing %s: %w", c.key, err)
	}
	return nil
}

// Close releases the underlying blob store
func (c *Collection) Close() error {
	return c.blobs.Close()
}

var _ ports.LinkRepository = (*Collection)(nil)
