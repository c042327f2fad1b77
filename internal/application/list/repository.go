package list

import (
	"context"

	"github.com/lista-app/lista/internal/domain"
)

// Repository defines storage for List aggregates. Implementations persist the
// whole aggregate (list + items) and must hand out owned copies: a value
// returned from a read is never shared with the store's internal state, and a
// value passed to Save is copied before it is retained.
//
// No pagination, filtering, or cross-aggregate transactions are assumed
// beyond per-call atomicity; callers filter and reduce in memory.
type Repository interface {
	// FindByID retrieves a list with its items.
	// Returns domain.ErrListNotFound if the list doesn't exist.
	FindByID(ctx context.Context, id string) (*domain.List, error)

	// ListByOwner retrieves every list owned by the user, autosave drafts
	// included, ordered by creation time.
	ListByOwner(ctx context.Context, userID string) ([]*domain.List, error)

	// Save upserts the aggregate by id, replacing the stored item set.
	Save(ctx context.Context, l *domain.List) error

	// DeleteByID removes the aggregate (list + items).
	// Deleting a missing id is a no-op.
	DeleteByID(ctx context.Context, id string) error
}
