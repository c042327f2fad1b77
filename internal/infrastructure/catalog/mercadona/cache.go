package mercadona

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lista-app/lista/internal/application/catalog"
	"github.com/lista-app/lista/internal/domain"
)

const productCacheKeyPrefix = "catalog:product:"

// Both the raw client and its cached decorator satisfy the provider contract.
var (
	_ catalog.Provider = (*Client)(nil)
	_ catalog.Provider = (*CachedProvider)(nil)
)

// CachedProvider decorates a catalog provider with a Redis read-through
// cache for product lookups. Cache failures degrade to the upstream
// provider; they are logged, never surfaced.
type CachedProvider struct {
	next   catalog.Provider
	client *redis.Client
	ttl    time.Duration
}

func NewCachedProvider(next catalog.Provider, client *redis.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, client: client, ttl: ttl}
}

func productKey(productID string) string {
	return productCacheKeyPrefix + productID
}

// GetProduct returns the cached snapshot when present, falling back to the
// upstream provider and caching the result.
func (p *CachedProvider) GetProduct(ctx context.Context, productID string) (*domain.ProductSnapshot, error) {
	key := productKey(productID)

	val, err := p.client.Get(ctx, key).Bytes()
	if err == nil {
		var snap domain.ProductSnapshot
		if err := json.Unmarshal(val, &snap); err == nil {
			return &snap, nil
		}
		// Corrupt entry: drop it and refetch.
		if delErr := p.client.Del(ctx, key).Err(); delErr != nil {
			slog.WarnContext(ctx, "failed to drop corrupt catalog cache entry",
				"product_id", productID, "error", delErr)
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "catalog cache read failed",
			"product_id", productID, "error", err)
	}

	snap, err := p.next.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snap); err == nil {
		if err := p.client.Set(ctx, key, data, p.ttl).Err(); err != nil {
			slog.WarnContext(ctx, "catalog cache write failed",
				"product_id", productID, "error", err)
		}
	}
	return snap, nil
}

// SearchProducts bypasses the cache: queries are too varied for per-key
// caching to pay off.
func (p *CachedProvider) SearchProducts(ctx context.Context, query string, limit int) ([]domain.ProductSnapshot, error) {
	return p.next.SearchProducts(ctx, query, limit)
}

// NewRedisClient builds a redis client from an address and verifies
// connectivity.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
