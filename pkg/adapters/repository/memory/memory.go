package memory

import (
	"context"
	"sync"

	"github.com/wadjakorntonsri/linkshrink/pkg/ports"
)

// Store keeps blobs in process memory
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewStore() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.blobs[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// copy so later writes by the caller do not leak in
	s.blobs[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op for memory storage
func (s *Store) Close() error {
	return nil
}

// Len returns the number of stored keys (for tests)
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

var _ ports.BlobStore = (*Store)(nil)
