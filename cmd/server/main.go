package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"campus/records/internal/config"
	"campus/records/internal/events"
	internalhttp "campus/records/internal/http"
	"campus/records/internal/jobs"
	"campus/records/internal/kv"
	"campus/records/internal/records"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
	}

	var store kv.Store
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := kv.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connection failed: %v", err)
		}
		defer pool.Close()
		pg := kv.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("db migration failed: %v", err)
		}
		store = pg
	case "redis":
		if redisClient == nil {
			log.Fatalf("STORE_BACKEND=redis requires REDIS_ADDR")
		}
		store = kv.NewRedis(redisClient)
	case "memory":
		store = kv.NewMemory()
	default:
		log.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	sinks := events.Multi{events.LogSink{}, events.NewPrometheusSink(prometheus.DefaultRegisterer)}
	if redisClient != nil {
		sinks = append(sinks, events.NewRedisSink(redisClient, cfg.EventChannel, cfg.EventTimeout))
	}

	service := records.New(cfg.OwnerIdentity, store, sinks)
	server := internalhttp.NewServer(cfg, service, store)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	jobs.StartStoreProbe(ctx, store, prometheus.DefaultRegisterer, cfg.StoreProbeInterval)

	go func() {
		log.Printf("records http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
