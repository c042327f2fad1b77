package config

import (
	"fmt"
	"time"

	"github.com/lista-app/lista/internal/env"
)

// ServerConfig holds all configuration for the server binary.
// Every variable carries the LISTA_ prefix.
type ServerConfig struct {
	Storage         StorageConfig
	HTTP            HTTPConfig
	Auth            AuthConfig
	Catalog         CatalogConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"LISTA_SHUTDOWN_TIMEOUT"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"LISTA_HTTP_HOST"`
	Port              string        `env:"LISTA_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"LISTA_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"LISTA_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"LISTA_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"LISTA_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"LISTA_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"LISTA_HTTP_MAX_BODY_BYTES"`
}

// AuthConfig holds session token configuration.
type AuthConfig struct {
	JWTSecret string        `env:"LISTA_JWT_SECRET"`
	TokenTTL  time.Duration `env:"LISTA_TOKEN_TTL"`
}

// Validate requires a signing secret; tokens are worthless without one.
func (c *AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("LISTA_JWT_SECRET is required")
	}
	return nil
}

// CatalogConfig holds product catalog configuration.
type CatalogConfig struct {
	BaseURL   string        `env:"LISTA_CATALOG_BASE_URL"`
	RedisAddr string        `env:"LISTA_CATALOG_REDIS_ADDR"` // empty disables the cache
	CacheTTL  time.Duration `env:"LISTA_CATALOG_CACHE_TTL"`
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"LISTA_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
