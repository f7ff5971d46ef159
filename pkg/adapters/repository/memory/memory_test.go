package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/wadjakorntonsri/linkshrink/pkg/ports"
)

func TestStore_GetMissing(t *testing.T) {
	s := NewStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ports.ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if err := s.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get() = %q, want v2", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_Copies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	buf := []byte("abc")
	s.Put(ctx, "k", buf)
	buf[0] = 'X'

	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Put did not copy: got %q", got)
	}

	got[1] = 'Y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("Get did not copy: got %q", again)
	}
}
