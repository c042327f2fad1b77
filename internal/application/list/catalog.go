package list

import (
	"context"

	"github.com/lista-app/lista/internal/domain"
)

// CatalogProvider supplies product snapshots for catalog items.
// Returns domain.ErrProductNotFound when the catalog has no such product.
type CatalogProvider interface {
	GetProduct(ctx context.Context, productID string) (*domain.ProductSnapshot, error)
}
