package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"priorauth/internal/audit"
	"priorauth/internal/capability"
	"priorauth/internal/platform/config"
	"priorauth/internal/platform/httpserver"
	"priorauth/internal/platform/logger"
	"priorauth/internal/platform/middleware"
	"priorauth/internal/priorauth"
	"priorauth/internal/priorauth/handler"
	"priorauth/internal/priorauth/metrics"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx := context.Background()

	store, cleanup, err := buildAuditStore(ctx, cfg.Audit)
	if err != nil {
		return fmt.Errorf("audit store: %w", err)
	}
	defer cleanup()
	publisher := audit.NewPublisher(store)

	cache, err := buildHandleCache(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("handle cache: %w", err)
	}

	invoker := capability.NewHTTPInvoker(cfg.Capabilities, cache,
		capability.WithInvokerLogger(log),
	)

	pipeline, err := priorauth.New(capability.NewPorts(invoker),
		priorauth.WithLogger(log),
		priorauth.WithMetrics(metrics.New()),
		priorauth.WithAuditPublisher(publisher),
	)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	handler.New(pipeline, log).Register(router)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting prior-auth server", "addr", cfg.Addr, "audit_backend", cfg.Audit.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// buildAuditStore selects the audit sink backend. The returned cleanup closes
// whatever resources the backend holds.
func buildAuditStore(ctx context.Context, cfg config.Audit) (audit.Store, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case "memory":
		return audit.NewInMemoryStore(), noop, nil

	case "file":
		store, err := audit.NewFileStore(cfg.FilePath)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	case "kafka":
		store, err := audit.NewKafkaStore(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	case "postgres":
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		store := audit.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		return store, func() { db.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown audit backend %q", cfg.Backend)
	}
}

// buildHandleCache uses Redis when configured, otherwise an in-process cache.
func buildHandleCache(ctx context.Context, redisURL string) (capability.HandleCache, error) {
	if redisURL == "" {
		return capability.NewMemoryHandleCache(config.HandleCacheTTL), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return capability.NewRedisHandleCache(client, config.HandleCacheTTL), nil
}
