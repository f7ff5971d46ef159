package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/wadjakorntonsri/linkshrink/pkg/ports"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}
	store, err := NewStore(url)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_BadURL(t *testing.T) {
	if _, err := NewStore("not-a-redis-url"); err == nil {
		t.Error("NewStore() expected error for invalid url")
	}
}

func TestStore_Integration(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := "linkshrink_test_" + time.Now().Format("150405.000000")
	defer store.Delete(ctx, key)

	if _, err := store.Get(ctx, key); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Fatalf("Get() error = %v, want ErrKeyNotFound", err)
	}
	if err := store.Put(ctx, key, []byte("[]")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Get() = %s, want []", got)
	}
}
