package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lista-app/lista/internal/application/auth"
	"github.com/lista-app/lista/internal/application/catalog"
	"github.com/lista-app/lista/internal/application/list"
	"github.com/lista-app/lista/internal/clock"
	"github.com/lista-app/lista/internal/config"
	"github.com/lista-app/lista/internal/idgen"
	"github.com/lista-app/lista/internal/infrastructure/catalog/mercadona"
	listahttp "github.com/lista-app/lista/internal/infrastructure/http"
	"github.com/lista-app/lista/internal/infrastructure/http/handler"
	"github.com/lista-app/lista/internal/infrastructure/persistence/memory"
	"github.com/lista-app/lista/internal/infrastructure/persistence/postgres"
	"github.com/lista-app/lista/pkg/observability"
)

const serviceName = "lista"

const defaultShutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		// slog may not be initialized if config loading fails
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Root context for all normal operations; cancels on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Observability: endpoint and headers come from OTEL_* env vars.
	name := cfg.Observability.ServiceName
	if name == "" {
		name = serviceName
	}
	lp, logger, err := observability.InitLogger(ctx, name, cfg.Observability.OTelEnabled)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lp.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown logger provider", "error", err)
		}
	}()
	slog.SetDefault(logger)

	tp, err := observability.InitTracerProvider(ctx, name, cfg.Observability.OTelEnabled)
	if err != nil {
		return fmt.Errorf("failed to init tracer provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown tracer provider", "error", err)
		}
	}()

	slog.InfoContext(ctx, "starting lista service", "storage", cfg.Storage.Type)

	store, closeStore, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer closeStore()

	provider, err := newCatalogProvider(ctx, cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to create catalog provider: %w", err)
	}

	sysClock := clock.System()
	ids := idgen.UUIDv7()

	listService := list.NewService(store, provider, ids, sysClock)
	authService := auth.NewService(store, ids, sysClock, auth.Config{
		SigningKey: cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
	})
	catalogService := catalog.NewService(provider)

	h := handler.New(listService, authService, catalogService)
	server := listahttp.NewAPIServer(h, authService, listahttp.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
	})

	errResult := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down")

		// The main context is already cancelled; shutdown needs its own
		// timeout window to drain connections.
		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(shutdownCtx, "HTTP server shutdown timed out", "error", err)
		} else {
			slog.InfoContext(shutdownCtx, "HTTP server shutdown complete")
		}
		return nil
	case err := <-errResult:
		return err
	}
}

// storageBackend bundles the repositories the application services need.
type storageBackend interface {
	list.Repository
	auth.UserRepository
}

// newStore builds the configured store. The returned closer is a no-op for
// the memory store.
func newStore(ctx context.Context, cfg config.StorageConfig) (storageBackend, func(), error) {
	switch cfg.Type {
	case "", config.StorageMemory:
		slog.InfoContext(ctx, "using in-memory storage; data will not survive restarts")
		return memory.NewStore(), func() {}, nil

	case config.StoragePostgres:
		store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "storage initialized", "url", maskPassword(cfg.DSN))
		return store, func() { _ = store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// newCatalogProvider builds the Mercadona client, wrapped in a Redis cache
// when an address is configured.
func newCatalogProvider(ctx context.Context, cfg config.CatalogConfig) (catalog.Provider, error) {
	var opts []mercadona.Option
	if cfg.BaseURL != "" {
		opts = append(opts, mercadona.WithBaseURL(cfg.BaseURL))
	}
	client := mercadona.NewClient(opts...)

	if cfg.RedisAddr == "" {
		return client, nil
	}

	redisClient, err := mercadona.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, err
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	slog.InfoContext(ctx, "catalog cache enabled", "addr", cfg.RedisAddr, "ttl", ttl)
	return mercadona.NewCachedProvider(client, redisClient, ttl), nil
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		// If parsing fails, fall back to full redaction to be safe
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			username := u.User.Username()
			u.User = url.UserPassword(username, "xxxxxx")
		}
	}
	return u.String()
}
