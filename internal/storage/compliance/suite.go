// Package compliance holds a repository contract test suite shared by every
// store implementation. A store that passes this suite can back the
// application services interchangeably.
package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lista-app/lista/internal/application/auth"
	"github.com/lista-app/lista/internal/application/list"
	"github.com/lista-app/lista/internal/domain"
	"github.com/lista-app/lista/internal/ptr"
)

// Stores bundles the repository interfaces a store must implement.
type Stores interface {
	list.Repository
	auth.UserRepository
}

// RunStorageComplianceTest runs the standard contract tests against a store.
// setup returns a fresh (clean) store instance; the returned teardown is
// called after each subtest.
func RunStorageComplianceTest(t *testing.T, setup func() (Stores, func())) {
	t.Run("SaveAndFindList", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := seedUser(t, ctx, store)
		l := sampleList(owner)
		require.NoError(t, store.Save(ctx, l))

		fetched, err := store.FindByID(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, l.ID, fetched.ID)
		assert.Equal(t, l.OwnerUserID, fetched.OwnerUserID)
		assert.Equal(t, l.Title, fetched.Title)
		assert.Equal(t, domain.ListStatusDraft, fetched.Status)
		assert.True(t, l.UpdatedAt.Equal(fetched.UpdatedAt))
		require.Len(t, fetched.Items, 2)
		assert.Equal(t, "Milk", fetched.Items[0].Name)
		assert.Equal(t, "Olive oil", fetched.Items[1].Name)
	})

	t.Run("FindMissingListReturnsNotFound", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()

		_, err := store.FindByID(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrListNotFound)
	})

	t.Run("SaveReplacesItemSet", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := seedUser(t, ctx, store)
		l := sampleList(owner)
		require.NoError(t, store.Save(ctx, l))

		l.Items = l.Items[:1]
		l.Items[0].Name = "Oat milk"
		require.NoError(t, store.Save(ctx, l))

		fetched, err := store.FindByID(ctx, l.ID)
		require.NoError(t, err)
		require.Len(t, fetched.Items, 1)
		assert.Equal(t, "Oat milk", fetched.Items[0].Name)
	})

	t.Run("SavePreservesItemOrder", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := seedUser(t, ctx, store)
		l := sampleList(owner)
		l.Items = nil
		names := []string{"Eggs", "Bread", "Apples", "Coffee"}
		now := time.Now()
		for _, name := range names {
			l.Items = append(l.Items, domain.ListItem{
				ID:        uuid.NewString(),
				ListID:    l.ID,
				Kind:      domain.ItemKindManual,
				Name:      name,
				Qty:       1,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		require.NoError(t, store.Save(ctx, l))

		fetched, err := store.FindByID(ctx, l.ID)
		require.NoError(t, err)
		require.Len(t, fetched.Items, len(names))
		for i, name := range names {
			assert.Equal(t, name, fetched.Items[i].Name)
		}
	})

	t.Run("SaveRoundTripsCatalogSnapshot", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := seedUser(t, ctx, store)
		l := sampleList(owner)
		require.NoError(t, store.Save(ctx, l))

		fetched, err := store.FindByID(ctx, l.ID)
		require.NoError(t, err)
		it := fetched.Items[1]
		assert.Equal(t, domain.ItemKindCatalog, it.Kind)
		assert.Equal(t, domain.CatalogSourceMercadona, it.Source)
		assert.Equal(t, "4240", it.SourceProductID)
		require.NotNil(t, it.Price)
		assert.InDelta(t, 4.55, *it.Price, 0.001)
		require.NotNil(t, it.UnitFormat)
		assert.Equal(t, "L", *it.UnitFormat)
		require.NotNil(t, it.IsApproxSize)
		assert.False(t, *it.IsApproxSize)
	})

	t.Run("ListByOwnerOrderedByCreation", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := seedUser(t, ctx, store)
		other := seedUser(t, ctx, store)

		base := time.Now().UTC().Truncate(time.Millisecond)
		first := sampleList(owner)
		first.CreatedAt = base
		second := sampleList(owner)
		second.CreatedAt = base.Add(time.Second)
		second.IsAutosaveDraft = true
		foreign := sampleList(other)

		require.NoError(t, store.Save(ctx, second))
		require.NoError(t, store.Save(ctx, first))
		require.NoError(t, store.Save(ctx, foreign))

		lists, err := store.ListByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, lists, 2)
		assert.Equal(t, first.ID, lists[0].ID)
		assert.Equal(t, second.ID, lists[1].ID)
		assert.True(t, lists[1].IsAutosaveDraft)
	})

	t.Run("DeleteListIsIdempotent", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := seedUser(t, ctx, store)
		l := sampleList(owner)
		require.NoError(t, store.Save(ctx, l))

		require.NoError(t, store.DeleteByID(ctx, l.ID))
		_, err := store.FindByID(ctx, l.ID)
		assert.ErrorIs(t, err, domain.ErrListNotFound)

		// Second delete of the same id must not error.
		require.NoError(t, store.DeleteByID(ctx, l.ID))
	})

	t.Run("SavedAggregateIsIsolated", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		owner := seedUser(t, ctx, store)
		l := sampleList(owner)
		require.NoError(t, store.Save(ctx, l))

		// Mutating the caller's copy must not leak into the store.
		l.Title = "mutated after save"
		l.Items[0].Name = "mutated item"

		fetched, err := store.FindByID(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, "Weekly shop", fetched.Title)
		assert.Equal(t, "Milk", fetched.Items[0].Name)
	})

	t.Run("CreateUserAndFind", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		u := &domain.User{
			ID:           uuid.NewString(),
			Email:        uuid.NewString() + "@example.com",
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
			Name:         "Ana",
			CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
		}
		require.NoError(t, store.CreateUser(ctx, u))

		byEmail, err := store.FindUserByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		byID, err := store.FindUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, byID.Email)
	})

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		email := uuid.NewString() + "@example.com"
		first := &domain.User{ID: uuid.NewString(), Email: email, PasswordHash: "h", CreatedAt: time.Now()}
		require.NoError(t, store.CreateUser(ctx, first))

		second := &domain.User{ID: uuid.NewString(), Email: email, PasswordHash: "h", CreatedAt: time.Now()}
		assert.ErrorIs(t, store.CreateUser(ctx, second), domain.ErrEmailTaken)
	})

	t.Run("MissingUserReturnsNotFound", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		_, err := store.FindUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = store.FindUserByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

// seedUser creates a user row and returns its id. Postgres enforces the
// owner foreign key, so lists need a real owner.
func seedUser(t *testing.T, ctx context.Context, store Stores) string {
	t.Helper()
	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.CreateUser(ctx, u))
	return u.ID
}

func sampleList(ownerID string) *domain.List {
	now := time.Now().UTC().Truncate(time.Millisecond)
	listID := uuid.NewString()
	return &domain.List{
		ID:          listID,
		OwnerUserID: ownerID,
		Title:       "Weekly shop",
		Status:      domain.ListStatusDraft,
		Items: []domain.ListItem{
			{
				ID:        uuid.NewString(),
				ListID:    listID,
				Kind:      domain.ItemKindManual,
				Name:      "Milk",
				Qty:       2,
				CreatedAt: now,
				UpdatedAt: now,
			},
			{
				ID:              listID + ":4240",
				ListID:          listID,
				Kind:            domain.ItemKindCatalog,
				Name:            "Olive oil",
				Qty:             1,
				Source:          domain.CatalogSourceMercadona,
				SourceProductID: "4240",
				Thumbnail:       ptr.To("https://images.example/oil.jpg"),
				Price:           ptr.To(4.55),
				UnitSize:        ptr.To(1.0),
				UnitFormat:      ptr.To("L"),
				UnitPrice:       ptr.To(4.55),
				IsApproxSize:    ptr.To(false),
				CreatedAt:       now,
				UpdatedAt:       now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
