package kv

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("set error: %v", err)
	}
	value, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || string(value) != "v1" {
		t.Fatalf("get mismatch: %q ok=%v err=%v", value, ok, err)
	}

	// SetNX only wins on absent keys.
	if set, err := store.SetNX(ctx, "k", []byte("v2")); err != nil || set {
		t.Fatalf("expected SetNX to lose, got set=%v err=%v", set, err)
	}
	if set, err := store.SetNX(ctx, "nx", []byte("v2")); err != nil || !set {
		t.Fatalf("expected SetNX to win, got set=%v err=%v", set, err)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("expected key gone")
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping error: %v", err)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	original := []byte("value")
	if err := store.Set(ctx, "k", original); err != nil {
		t.Fatalf("set error: %v", err)
	}
	original[0] = 'X'

	value, _, _ := store.Get(ctx, "k")
	if string(value) != "value" {
		t.Fatalf("stored value aliased caller buffer: %q", value)
	}
	value[0] = 'Y'
	again, _, _ := store.Get(ctx, "k")
	if string(again) != "value" {
		t.Fatalf("returned value aliased store buffer: %q", again)
	}
}
