package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr != ":8084" {
		t.Fatalf("unexpected HTTPAddr %s", cfg.HTTPAddr)
	}
	if cfg.StoreBackend != "memory" {
		t.Fatalf("unexpected StoreBackend %s", cfg.StoreBackend)
	}
	if cfg.RatingMax != 5 {
		t.Fatalf("unexpected RatingMax %d", cfg.RatingMax)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":18084")
	t.Setenv("OWNER_IDENTITY", "owner@test.local")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ISSUER", "test-issuer")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "127.0.0.1:16379")
	t.Setenv("EVENT_CHANNEL", "test.events")
	t.Setenv("STORE_PROBE_INTERVAL_SECONDS", "30")
	t.Setenv("RATING_MAX", "10")

	cfg := Load()
	if cfg.HTTPAddr != ":18084" {
		t.Fatalf("expected HTTP_ADDR override, got %s", cfg.HTTPAddr)
	}
	if cfg.OwnerIdentity != "owner@test.local" {
		t.Fatalf("expected OWNER_IDENTITY override, got %s", cfg.OwnerIdentity)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Fatalf("expected JWT_SECRET override, got %s", cfg.JWTSecret)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected ACCESS_TOKEN_TTL 30m, got %s", cfg.AccessTokenTTL)
	}
	if cfg.StoreBackend != "redis" || cfg.RedisAddr != "127.0.0.1:16379" {
		t.Fatalf("expected redis backend override, got %s %s", cfg.StoreBackend, cfg.RedisAddr)
	}
	if cfg.EventChannel != "test.events" {
		t.Fatalf("expected EVENT_CHANNEL override, got %s", cfg.EventChannel)
	}
	if cfg.StoreProbeInterval != 30*time.Second {
		t.Fatalf("expected STORE_PROBE_INTERVAL 30s, got %s", cfg.StoreProbeInterval)
	}
	if cfg.RatingMax != 10 {
		t.Fatalf("expected RATING_MAX 10, got %d", cfg.RatingMax)
	}
}
