package list

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lista-app/lista/internal/clock"
	"github.com/lista-app/lista/internal/domain"
	"github.com/lista-app/lista/internal/idgen"
	"github.com/lista-app/lista/internal/infrastructure/persistence/memory"
)

const (
	ownerID    = "user-1"
	strangerID = "user-2"
)

// fakeCatalog is a canned catalog provider.
type fakeCatalog struct {
	products map[string]*domain.ProductSnapshot
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID string) (*domain.ProductSnapshot, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

type fixture struct {
	svc     *Service
	store   *memory.Store
	clock   *clock.Fake
	catalog *fakeCatalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	price := 4.55
	format := "L"
	catalog := &fakeCatalog{products: map[string]*domain.ProductSnapshot{
		"4240": {
			ID:         "4240",
			Source:     domain.CatalogSourceMercadona,
			Name:       "Olive oil",
			Price:      &price,
			UnitFormat: &format,
		},
		"118": {
			ID:     "118",
			Source: domain.CatalogSourceMercadona,
			Name:   "Whole milk",
		},
	}}

	store := memory.NewStore()
	fakeClock := clock.NewFake(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))
	svc := NewService(store, catalog, &idgen.Sequential{Prefix: "id"}, fakeClock)

	return &fixture{svc: svc, store: store, clock: fakeClock, catalog: catalog}
}

// createActiveList provisions an ACTIVE list with the given manual item names.
func createActiveList(t *testing.T, f *fixture, names ...string) *ListDetail {
	t.Helper()
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)
	for _, name := range names {
		f.clock.Advance(time.Second)
		_, err := f.svc.AddManualItem(ctx, AddManualItemParams{UserID: ownerID, ListID: summary.ID, Name: name})
		require.NoError(t, err)
	}

	f.clock.Advance(time.Second)
	_, err = f.svc.UpdateListStatus(ctx, ownerID, summary.ID, domain.ListStatusActive)
	require.NoError(t, err)

	detail, err := f.svc.GetList(ctx, ownerID, summary.ID)
	require.NoError(t, err)
	return detail
}

func TestCreateList_NewDraft(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.CreateList(context.Background(), CreateListParams{UserID: ownerID, Title: "Weekly shop"})

	require.NoError(t, err)
	assert.Equal(t, "Weekly shop", summary.Title)
	assert.Equal(t, domain.ListStatusDraft, summary.Status)
	assert.Zero(t, summary.ItemCount)
	assert.Nil(t, summary.ActivatedAt)
}

func TestCreateList_ReusesExistingDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "First"})
	require.NoError(t, err)
	_, err = f.svc.AddManualItem(ctx, AddManualItemParams{UserID: ownerID, ListID: first.ID, Name: "Milk"})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	second, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Second"})
	require.NoError(t, err)

	// Same list row, fresh content.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Second", second.Title)
	assert.Zero(t, second.ItemCount)

	detail, err := f.svc.GetList(ctx, ownerID, first.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Items)
}

func TestCreateList_ValidatesTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "ab"})
	assert.ErrorIs(t, err, domain.ErrTitleTooShort)

	_, err = f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "this title definitely exceeds the cap"})
	assert.ErrorIs(t, err, domain.ErrTitleTooLong)
}

func TestGetList_ExistenceCheckedBeforeOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)

	// A missing list is not-found even for a caller who owns nothing.
	_, err = f.svc.GetList(ctx, strangerID, "no-such-list")
	assert.ErrorIs(t, err, domain.ErrListNotFound)

	// An existing list owned by someone else is forbidden, not hidden.
	_, err = f.svc.GetList(ctx, strangerID, summary.ID)
	assert.ErrorIs(t, err, domain.ErrListForbidden)
}

func TestListLists_ExcludesAutosaveDraftsAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	active := createActiveList(t, f, "Milk")

	f.clock.Advance(time.Second)
	draft, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Next week"})
	require.NoError(t, err)

	// An autosave draft exists but never shows up in listings.
	f.clock.Advance(time.Second)
	_, err = f.svc.UpsertAutosaveDraft(ctx, UpsertAutosaveParams{UserID: ownerID, Title: "scratch"})
	require.NoError(t, err)

	all, err := f.svc.ListLists(ctx, ownerID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	status := domain.ListStatusActive
	onlyActive, err := f.svc.ListLists(ctx, ownerID, &status)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID, onlyActive[0].ID)

	status = domain.ListStatusDraft
	onlyDraft, err := f.svc.ListLists(ctx, ownerID, &status)
	require.NoError(t, err)
	require.Len(t, onlyDraft, 1)
	assert.Equal(t, draft.ID, onlyDraft[0].ID)
}

func TestDeleteList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.DeleteList(ctx, strangerID, summary.ID), domain.ErrListForbidden)
	require.NoError(t, f.svc.DeleteList(ctx, ownerID, summary.ID))

	_, err = f.svc.GetList(ctx, ownerID, summary.ID)
	assert.ErrorIs(t, err, domain.ErrListNotFound)
}

func TestAddManualItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)

	item, err := f.svc.AddManualItem(ctx, AddManualItemParams{UserID: ownerID, ListID: summary.ID, Name: "  Milk  "})
	require.NoError(t, err)
	assert.Equal(t, domain.ItemKindManual, item.Kind)
	assert.Equal(t, "Milk", item.Name)
	assert.Equal(t, 1, item.Qty) // default quantity
	assert.False(t, item.Checked)

	_, err = f.svc.AddManualItem(ctx, AddManualItemParams{UserID: ownerID, ListID: summary.ID, Name: "   "})
	assert.ErrorIs(t, err, domain.ErrItemNameRequired)
}

func TestAddManualItem_RejectedOnCompletedList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail := createActiveList(t, f, "Milk")

	_, err := f.svc.CompleteList(ctx, CompleteListParams{UserID: ownerID, ListID: detail.ID})
	require.NoError(t, err)

	_, err = f.svc.AddManualItem(ctx, AddManualItemParams{UserID: ownerID, ListID: detail.ID, Name: "Eggs"})
	assert.ErrorIs(t, err, domain.ErrStatusTransition)
}

func TestAddCatalogItem_CopiesSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)

	item, err := f.svc.AddCatalogItem(ctx, AddCatalogItemParams{UserID: ownerID, ListID: summary.ID, ProductID: "4240", Qty: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.ItemKindCatalog, item.Kind)
	assert.Equal(t, "Olive oil", item.Name)
	assert.Equal(t, 2, item.Qty)
	assert.Equal(t, domain.CatalogSourceMercadona, item.Source)
	assert.Equal(t, "4240", item.SourceProductID)
	require.NotNil(t, item.Price)
	assert.InDelta(t, 4.55, *item.Price, 0.001)
}

func TestAddCatalogItem_NormalizesNamespacedProductID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)

	// A product id carrying a draft-list prefix resolves to the bare id.
	item, err := f.svc.AddCatalogItem(ctx, AddCatalogItemParams{UserID: ownerID, ListID: summary.ID, ProductID: "some-draft:4240"})
	require.NoError(t, err)
	assert.Equal(t, "4240", item.SourceProductID)
}

func TestAddCatalogItem_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)

	_, err = f.svc.AddCatalogItem(ctx, AddCatalogItemParams{UserID: ownerID, ListID: summary.ID, ProductID: "999"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdateItem_PatchesOnlyProvidedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)
	item, err := f.svc.AddManualItem(ctx, AddManualItemParams{UserID: ownerID, ListID: summary.ID, Name: "Milk", Qty: 2})
	require.NoError(t, err)

	checked := true
	updated, err := f.svc.UpdateItem(ctx, UpdateItemParams{
		UserID:  ownerID,
		ListID:  summary.ID,
		ItemID:  item.ID,
		Checked: &checked,
	})
	require.NoError(t, err)
	assert.True(t, updated.Checked)
	assert.Equal(t, "Milk", updated.Name)
	assert.Equal(t, 2, updated.Qty)

	_, err = f.svc.UpdateItem(ctx, UpdateItemParams{UserID: ownerID, ListID: summary.ID, ItemID: "missing"})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)
	item, err := f.svc.AddManualItem(ctx, AddManualItemParams{UserID: ownerID, ListID: summary.ID, Name: "Milk"})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveItem(ctx, ownerID, summary.ID, item.ID))
	assert.ErrorIs(t, f.svc.RemoveItem(ctx, ownerID, summary.ID, item.ID), domain.ErrItemNotFound)
}

func TestCompleteList_AppliesCheckedSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail := createActiveList(t, f, "Milk", "Eggs", "Bread")

	f.clock.Advance(time.Second)
	completed, err := f.svc.CompleteList(ctx, CompleteListParams{
		UserID:         ownerID,
		ListID:         detail.ID,
		CheckedItemIDs: []string{detail.Items[0].ID, detail.Items[2].ID},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ListStatusCompleted, completed.Status)
	assert.True(t, completed.Items[0].Checked)
	assert.False(t, completed.Items[1].Checked)
	assert.True(t, completed.Items[2].Checked)
}

func TestCompleteList_UnknownItemLeavesListUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail := createActiveList(t, f, "Milk", "Eggs")

	f.clock.Advance(time.Second)
	_, err := f.svc.CompleteList(ctx, CompleteListParams{
		UserID:         ownerID,
		ListID:         detail.ID,
		CheckedItemIDs: []string{detail.Items[0].ID, "ghost-item"},
	})
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	// Total-or-nothing: no item was checked, status did not move.
	after, err := f.svc.GetList(ctx, ownerID, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListStatusActive, after.Status)
	assert.False(t, after.Items[0].Checked)
	assert.True(t, after.UpdatedAt.Equal(detail.UpdatedAt))
}

func TestCompleteList_OnlyChangedItemsRestamped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail := createActiveList(t, f, "Milk", "Eggs")

	checked := true
	f.clock.Advance(time.Second)
	_, err := f.svc.UpdateItem(ctx, UpdateItemParams{
		UserID: ownerID, ListID: detail.ID, ItemID: detail.Items[0].ID, Checked: &checked,
	})
	require.NoError(t, err)
	before, err := f.svc.GetList(ctx, ownerID, detail.ID)
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	completed, err := f.svc.CompleteList(ctx, CompleteListParams{
		UserID:         ownerID,
		ListID:         detail.ID,
		CheckedItemIDs: []string{detail.Items[0].ID, detail.Items[1].ID},
	})
	require.NoError(t, err)

	// Item 0 was already checked: its timestamp stays. Item 1 flipped.
	assert.True(t, completed.Items[0].UpdatedAt.Equal(before.Items[0].UpdatedAt))
	assert.True(t, completed.Items[1].UpdatedAt.After(before.Items[1].UpdatedAt))
}

func TestCompleteList_RequiresActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)

	_, err = f.svc.CompleteList(ctx, CompleteListParams{UserID: ownerID, ListID: summary.ID})
	assert.ErrorIs(t, err, domain.ErrStatusTransition)
}

func TestUpdateListStatus_DraftToActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	activated, err := f.svc.UpdateListStatus(ctx, ownerID, summary.ID, domain.ListStatusActive)
	require.NoError(t, err)
	assert.Equal(t, domain.ListStatusActive, activated.Status)
	require.NotNil(t, activated.ActivatedAt)
	assert.True(t, activated.UpdatedAt.After(summary.UpdatedAt))
}

func TestUpdateListStatus_SameStatusIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	again, err := f.svc.UpdateListStatus(ctx, ownerID, summary.ID, domain.ListStatusDraft)
	require.NoError(t, err)

	// Idempotent: the version token did not move.
	assert.True(t, again.UpdatedAt.Equal(summary.UpdatedAt))
}

func TestUpdateListStatus_RejectsIllegalTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail := createActiveList(t, f, "Milk")

	_, err := f.svc.UpdateListStatus(ctx, ownerID, detail.ID, domain.ListStatusDraft)
	assert.ErrorIs(t, err, domain.ErrStatusTransition)

	// COMPLETED is only reachable through list completion.
	_, err = f.svc.UpdateListStatus(ctx, ownerID, detail.ID, domain.ListStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrStatusTransition)
}

func TestDuplicateList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail := createActiveList(t, f, "Milk", "Eggs")

	_, err := f.svc.CompleteList(ctx, CompleteListParams{
		UserID: ownerID, ListID: detail.ID, CheckedItemIDs: []string{detail.Items[0].ID},
	})
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	dup, err := f.svc.DuplicateList(ctx, ownerID, detail.ID)
	require.NoError(t, err)
	assert.NotEqual(t, detail.ID, dup.ID)
	assert.Equal(t, domain.ListStatusDraft, dup.Status)

	dupDetail, err := f.svc.GetList(ctx, ownerID, dup.ID)
	require.NoError(t, err)
	require.Len(t, dupDetail.Items, 2)
	for i, it := range dupDetail.Items {
		assert.NotEqual(t, detail.Items[i].ID, it.ID)
		assert.False(t, it.Checked) // duplicates start unchecked
	}
}

func TestDuplicateList_RequiresCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	detail := createActiveList(t, f, "Milk")

	_, err := f.svc.DuplicateList(ctx, ownerID, detail.ID)
	assert.ErrorIs(t, err, domain.ErrStatusTransition)
}

func TestReuseList_FoldsIntoLatestDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	active := createActiveList(t, f)

	f.clock.Advance(time.Second)
	_, err := f.svc.AddCatalogItem(ctx, AddCatalogItemParams{UserID: ownerID, ListID: active.ID, ProductID: "4240"})
	require.NoError(t, err)
	_, err = f.svc.CompleteList(ctx, CompleteListParams{UserID: ownerID, ListID: active.ID})
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	draft, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Scratch pad"})
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	reused, err := f.svc.ReuseList(ctx, ownerID, active.ID)
	require.NoError(t, err)

	// The existing draft row was reused, flipped to autosave, retitled.
	assert.Equal(t, draft.ID, reused.ID)
	assert.Equal(t, "Weekly shop", reused.Title)
	assert.Equal(t, domain.ListStatusDraft, reused.Status)
	assert.Equal(t, 1, reused.ItemCount)

	got, err := f.svc.GetAutosaveDraft(ctx, ownerID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, reused.ID, got.ID)
	// Catalog items take the canonical draft identity.
	assert.Equal(t, draft.ID+":4240", got.Items[0].ID)
	assert.False(t, got.Items[0].Checked)
}

func TestReuseList_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	active := createActiveList(t, f)

	f.clock.Advance(time.Second)
	_, err := f.svc.AddCatalogItem(ctx, AddCatalogItemParams{UserID: ownerID, ListID: active.ID, ProductID: "4240"})
	require.NoError(t, err)
	_, err = f.svc.CompleteList(ctx, CompleteListParams{UserID: ownerID, ListID: active.ID})
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	first, err := f.svc.ReuseList(ctx, ownerID, active.ID)
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	second, err := f.svc.ReuseList(ctx, ownerID, active.ID)
	require.NoError(t, err)

	// Same target draft, same canonical item ids, no accumulation.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ItemCount, second.ItemCount)
}

func TestReuseList_CreatesDraftWhenNoneExists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	active := createActiveList(t, f, "Milk")

	_, err := f.svc.CompleteList(ctx, CompleteListParams{UserID: ownerID, ListID: active.ID})
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	reused, err := f.svc.ReuseList(ctx, ownerID, active.ID)
	require.NoError(t, err)
	assert.NotEqual(t, active.ID, reused.ID)
	assert.Equal(t, 1, reused.ItemCount)
}

func TestListMutations_EnforceOwnership(t *testing.T) {
	ops := []struct {
		name string
		call func(ctx context.Context, f *fixture, userID, listID string) error
	}{
		{"delete list", func(ctx context.Context, f *fixture, userID, listID string) error {
			return f.svc.DeleteList(ctx, userID, listID)
		}},
		{"add manual item", func(ctx context.Context, f *fixture, userID, listID string) error {
			_, err := f.svc.AddManualItem(ctx, AddManualItemParams{UserID: userID, ListID: listID, Name: "Milk"})
			return err
		}},
		{"add catalog item", func(ctx context.Context, f *fixture, userID, listID string) error {
			_, err := f.svc.AddCatalogItem(ctx, AddCatalogItemParams{UserID: userID, ListID: listID, ProductID: "4240"})
			return err
		}},
		{"update item", func(ctx context.Context, f *fixture, userID, listID string) error {
			_, err := f.svc.UpdateItem(ctx, UpdateItemParams{UserID: userID, ListID: listID, ItemID: "item-1"})
			return err
		}},
		{"remove item", func(ctx context.Context, f *fixture, userID, listID string) error {
			return f.svc.RemoveItem(ctx, userID, listID, "item-1")
		}},
		{"complete list", func(ctx context.Context, f *fixture, userID, listID string) error {
			_, err := f.svc.CompleteList(ctx, CompleteListParams{UserID: userID, ListID: listID})
			return err
		}},
		{"update status", func(ctx context.Context, f *fixture, userID, listID string) error {
			_, err := f.svc.UpdateListStatus(ctx, userID, listID, domain.ListStatusActive)
			return err
		}},
		{"duplicate list", func(ctx context.Context, f *fixture, userID, listID string) error {
			_, err := f.svc.DuplicateList(ctx, userID, listID)
			return err
		}},
		{"reuse list", func(ctx context.Context, f *fixture, userID, listID string) error {
			_, err := f.svc.ReuseList(ctx, userID, listID)
			return err
		}},
		{"start editing", func(ctx context.Context, f *fixture, userID, listID string) error {
			_, err := f.svc.StartListEditing(ctx, StartEditingParams{UserID: userID, ListID: listID, IsEditing: true})
			return err
		}},
		{"finish editing", func(ctx context.Context, f *fixture, userID, listID string) error {
			_, err := f.svc.FinishListEdit(ctx, userID, listID)
			return err
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			summary, err := f.svc.CreateList(ctx, CreateListParams{UserID: ownerID, Title: "Weekly shop"})
			require.NoError(t, err)

			assert.ErrorIs(t, op.call(ctx, f, strangerID, summary.ID), domain.ErrListForbidden)
			// Existence is checked before ownership.
			assert.ErrorIs(t, op.call(ctx, f, strangerID, "no-such-list"), domain.ErrListNotFound)
			assert.ErrorIs(t, op.call(ctx, f, ownerID, "no-such-list"), domain.ErrListNotFound)
		})
	}
}

func TestReuseList_FoldsDuplicateCatalogItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	active := createActiveList(t, f)

	_, err := f.svc.AddCatalogItem(ctx, AddCatalogItemParams{UserID: ownerID, ListID: active.ID, ProductID: "4240"})
	require.NoError(t, err)
	_, err = f.svc.AddCatalogItem(ctx, AddCatalogItemParams{UserID: ownerID, ListID: active.ID, ProductID: "4240", Qty: 2})
	require.NoError(t, err)
	_, err = f.svc.CompleteList(ctx, CompleteListParams{UserID: ownerID, ListID: active.ID})
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	reused, err := f.svc.ReuseList(ctx, ownerID, active.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reused.ItemCount)

	got, err := f.svc.GetAutosaveDraft(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, reused.ID+":4240", got.Items[0].ID)
	assert.Equal(t, 3, got.Items[0].Qty)
	assert.False(t, got.Items[0].Checked)
}
