package catalog

import (
	"context"

	"github.com/lista-app/lista/internal/domain"
)

// Provider fetches product data from an external catalog.
type Provider interface {
	// GetProduct returns the snapshot for a product id, or
	// domain.ErrProductNotFound when the catalog does not know it.
	GetProduct(ctx context.Context, productID string) (*domain.ProductSnapshot, error)

	// SearchProducts returns snapshots matching the query, best match first.
	SearchProducts(ctx context.Context, query string, limit int) ([]domain.ProductSnapshot, error)
}

const defaultSearchLimit = 20

// Service exposes catalog lookups to the transport layer.
type Service struct {
	provider Provider
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// GetProduct looks up a single product. The id is normalized first so
// namespaced ids and bare ids resolve to the same product.
func (s *Service) GetProduct(ctx context.Context, productID string) (*domain.ProductSnapshot, error) {
	return s.provider.GetProduct(ctx, domain.NormalizeSourceProductID(productID))
}

// SearchProducts runs a free-text search against the catalog.
func (s *Service) SearchProducts(ctx context.Context, query string, limit int) ([]domain.ProductSnapshot, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultSearchLimit
	}
	return s.provider.SearchProducts(ctx, query, limit)
}
