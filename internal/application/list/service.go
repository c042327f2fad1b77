package list

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lista-app/lista/internal/clock"
	"github.com/lista-app/lista/internal/domain"
	"github.com/lista-app/lista/internal/idgen"
)

// Service provides the list lifecycle and autosave use cases. It orchestrates
// operations over the Repository; each call loads the aggregate, applies
// domain rules, and persists via a single Save. Every precondition is checked
// before the first write, so a failed call never leaves partial state.
type Service struct {
	repo    Repository
	catalog CatalogProvider
	ids     idgen.Generator
	clock   clock.Clock
}

// NewService creates a new list service.
func NewService(repo Repository, catalog CatalogProvider, ids idgen.Generator, clk clock.Clock) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		ids:     ids,
		clock:   clk,
	}
}

// now returns the current instant at version-token precision.
func (s *Service) now() time.Time {
	return domain.VersionToken(s.clock.Now())
}

// loadOwned fetches a list and enforces ownership. Existence is checked
// before ownership, so a missing list is ErrListNotFound even for non-owners.
func (s *Service) loadOwned(ctx context.Context, listID, userID string) (*domain.List, error) {
	l, err := s.repo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if l.OwnerUserID != userID {
		return nil, domain.ErrListForbidden
	}
	return l, nil
}

// CreateList creates a draft list, or reuses the owner's existing draft to
// prevent draft proliferation: an existing non-autosave DRAFT gets its title
// reset and items cleared instead of a new row being created.
func (s *Service) CreateList(ctx context.Context, params CreateListParams) (*ListSummary, error) {
	title, err := domain.NewTitle(params.Title)
	if err != nil {
		return nil, err
	}

	owned, err := s.repo.ListByOwner(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}

	var drafts []*domain.List
	for _, l := range owned {
		if !l.IsAutosaveDraft && l.Status == domain.ListStatusDraft {
			drafts = append(drafts, l)
		}
	}

	now := s.now()

	if reused := domain.LatestByUpdatedAt(drafts); reused != nil {
		reused.Title = title.String()
		reused.Items = []domain.ListItem{}
		reused.Touch(now)
		if err := s.repo.Save(ctx, reused); err != nil {
			return nil, fmt.Errorf("failed to save list: %w", err)
		}
		summary := summaryOf(reused)
		return &summary, nil
	}

	id, err := s.ids.NewID()
	if err != nil {
		return nil, err
	}

	l := &domain.List{
		ID:          id,
		OwnerUserID: params.UserID,
		Title:       title.String(),
		Status:      domain.ListStatusDraft,
		Items:       []domain.ListItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}

	summary := summaryOf(l)
	return &summary, nil
}

// GetList returns the full detail of an owned list.
func (s *Service) GetList(ctx context.Context, userID, listID string) (*ListDetail, error) {
	l, err := s.loadOwned(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	detail := detailOf(l)
	return &detail, nil
}

// ListLists returns summaries of the owner's primary lists (autosave drafts
// are never surfaced here), optionally filtered by status equality.
func (s *Service) ListLists(ctx context.Context, userID string, status *domain.ListStatus) ([]ListSummary, error) {
	owned, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}

	summaries := make([]ListSummary, 0, len(owned))
	for _, l := range owned {
		if l.IsAutosaveDraft {
			continue
		}
		if status != nil && l.Status != *status {
			continue
		}
		summaries = append(summaries, summaryOf(l))
	}
	return summaries, nil
}

// DeleteList removes an owned list and its items.
func (s *Service) DeleteList(ctx context.Context, userID, listID string) error {
	l, err := s.loadOwned(ctx, listID, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, l.ID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// AddManualItem appends a free-text item to a non-completed list.
func (s *Service) AddManualItem(ctx context.Context, params AddManualItemParams) (*ItemResult, error) {
	l, err := s.loadOwned(ctx, params.ListID, params.UserID)
	if err != nil {
		return nil, err
	}
	if l.Status == domain.ListStatusCompleted {
		return nil, &domain.StatusTransitionError{From: l.Status, Op: "add item"}
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, domain.ErrItemNameRequired
	}
	qty := params.Qty
	if qty <= 0 {
		qty = 1
	}

	id, err := s.ids.NewID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	item := domain.ListItem{
		ID:        id,
		ListID:    l.ID,
		Kind:      domain.ItemKindManual,
		Name:      name,
		Qty:       qty,
		Note:      params.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.Items = append(l.Items, item)
	l.Touch(now)

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}
	result := itemResult(&item)
	return &result, nil
}

// AddCatalogItem resolves the product through the catalog provider and stores
// an immutable snapshot of its display fields at add time.
func (s *Service) AddCatalogItem(ctx context.Context, params AddCatalogItemParams) (*ItemResult, error) {
	l, err := s.loadOwned(ctx, params.ListID, params.UserID)
	if err != nil {
		return nil, err
	}
	if l.Status == domain.ListStatusCompleted {
		return nil, &domain.StatusTransitionError{From: l.Status, Op: "add item"}
	}

	product, err := s.catalog.GetProduct(ctx, domain.NormalizeSourceProductID(params.ProductID))
	if err != nil {
		return nil, err
	}

	qty := params.Qty
	if qty <= 0 {
		qty = 1
	}

	id, err := s.ids.NewID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	item := domain.ListItem{
		ID:              id,
		ListID:          l.ID,
		Kind:            domain.ItemKindCatalog,
		Name:            product.Name,
		Qty:             qty,
		Source:          product.Source,
		SourceProductID: domain.NormalizeSourceProductID(product.ID),
		Thumbnail:       product.Thumbnail,
		Price:           product.Price,
		UnitSize:        product.UnitSize,
		UnitFormat:      product.UnitFormat,
		UnitPrice:       product.UnitPrice,
		IsApproxSize:    product.IsApproxSize,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	l.Items = append(l.Items, item)
	l.Touch(now)

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}
	result := itemResult(&item)
	return &result, nil
}

// UpdateItem patches the mutable fields of an item on a non-completed list.
func (s *Service) UpdateItem(ctx context.Context, params UpdateItemParams) (*ItemResult, error) {
	l, err := s.loadOwned(ctx, params.ListID, params.UserID)
	if err != nil {
		return nil, err
	}
	if l.Status == domain.ListStatusCompleted {
		return nil, &domain.StatusTransitionError{From: l.Status, Op: "update item"}
	}

	item := l.FindItem(params.ItemID)
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, domain.ErrItemNameRequired
		}
		item.Name = name
	}
	if params.Qty != nil && *params.Qty > 0 {
		item.Qty = *params.Qty
	}
	if params.Checked != nil {
		item.Checked = *params.Checked
	}

	now := s.now()
	item.UpdatedAt = now
	l.Touch(now)

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}
	result := itemResult(item)
	return &result, nil
}

// RemoveItem deletes an item from a non-completed list.
func (s *Service) RemoveItem(ctx context.Context, userID, listID, itemID string) error {
	l, err := s.loadOwned(ctx, listID, userID)
	if err != nil {
		return err
	}
	if l.Status == domain.ListStatusCompleted {
		return &domain.StatusTransitionError{From: l.Status, Op: "remove item"}
	}
	if !l.RemoveItem(itemID) {
		return domain.ErrItemNotFound
	}

	l.Touch(s.now())
	if err := s.repo.Save(ctx, l); err != nil {
		return fmt.Errorf("failed to save list: %w", err)
	}
	return nil
}

// CompleteList finalizes an ACTIVE list. The input carries the definitive set
// of checked item ids; every id must correspond to an existing item, and the
// whole operation fails with no partial application otherwise. Item
// timestamps move only for items whose checked value actually changed.
func (s *Service) CompleteList(ctx context.Context, params CompleteListParams) (*ListDetail, error) {
	l, err := s.loadOwned(ctx, params.ListID, params.UserID)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.ListStatusActive {
		return nil, &domain.StatusTransitionError{From: l.Status, To: domain.ListStatusCompleted, Op: "complete list"}
	}

	checked := make(map[string]bool, len(params.CheckedItemIDs))
	for _, id := range params.CheckedItemIDs {
		checked[id] = true
	}
	for id := range checked {
		if l.FindItem(id) == nil {
			return nil, domain.ErrItemNotFound
		}
	}

	now := s.now()
	for i := range l.Items {
		want := checked[l.Items[i].ID]
		if l.Items[i].Checked != want {
			l.Items[i].Checked = want
			l.Items[i].UpdatedAt = now
		}
	}

	l.Status = domain.ListStatusCompleted
	l.IsEditing = false
	l.EditingTargetListID = nil
	l.Touch(now)

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}
	detail := detailOf(l)
	return &detail, nil
}

// UpdateListStatus drives the static transition table. Setting the current
// status again is an idempotent no-op that does not touch UpdatedAt; the only
// real transition permitted is DRAFT -> ACTIVE.
func (s *Service) UpdateListStatus(ctx context.Context, userID, listID string, to domain.ListStatus) (*ListSummary, error) {
	l, err := s.loadOwned(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	if l.Status == to {
		summary := summaryOf(l)
		return &summary, nil
	}
	if !domain.CanTransition(l.Status, to) {
		return nil, &domain.StatusTransitionError{From: l.Status, To: to, Op: "update status"}
	}

	now := s.now()
	l.Status = to
	if to == domain.ListStatusActive {
		activated := now
		l.ActivatedAt = &activated
		// The activated list stops shadowing anything.
		l.IsEditing = false
		l.EditingTargetListID = nil
	}
	if err := l.ValidateEditing(); err != nil {
		return nil, err
	}
	l.Touch(now)

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}
	summary := summaryOf(l)
	return &summary, nil
}

// DuplicateList spawns an independent new DRAFT cloning a COMPLETED list's
// items. Every call produces a brand-new list with brand-new item ids.
func (s *Service) DuplicateList(ctx context.Context, userID, listID string) (*ListSummary, error) {
	src, err := s.loadOwned(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if src.Status != domain.ListStatusCompleted {
		return nil, &domain.StatusTransitionError{From: src.Status, Op: "duplicate list"}
	}

	id, err := s.ids.NewID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	dup := &domain.List{
		ID:          id,
		OwnerUserID: userID,
		Title:       src.Title,
		Status:      domain.ListStatusDraft,
		Items:       make([]domain.ListItem, 0, len(src.Items)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i := range src.Items {
		itemID, err := s.ids.NewID()
		if err != nil {
			return nil, err
		}
		dup.Items = append(dup.Items, cloneItem(&src.Items[i], itemID, dup.ID, now))
	}

	if err := s.repo.Save(ctx, dup); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}
	summary := summaryOf(dup)
	return &summary, nil
}

// ReuseList folds a COMPLETED list's items into the owner's latest existing
// DRAFT (reusing its id and createdAt) instead of piling up new drafts. The
// result is autosave-flagged, and catalog items take canonical draft ids, so
// repeated reuse calls are idempotent against an in-progress draft.
func (s *Service) ReuseList(ctx context.Context, userID, listID string) (*ListSummary, error) {
	src, err := s.loadOwned(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if src.Status != domain.ListStatusCompleted {
		return nil, &domain.StatusTransitionError{From: src.Status, Op: "reuse list"}
	}

	owned, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}
	var drafts []*domain.List
	for _, l := range owned {
		if l.Status == domain.ListStatusDraft {
			drafts = append(drafts, l)
		}
	}

	now := s.now()
	target := domain.LatestByUpdatedAt(drafts)
	if target == nil {
		id, err := s.ids.NewID()
		if err != nil {
			return nil, err
		}
		target = &domain.List{ID: id, OwnerUserID: userID, CreatedAt: now}
	}

	items, err := s.cloneItemsForDraft(src.Items, target.ID, now, false)
	if err != nil {
		return nil, err
	}

	target.Title = src.Title
	target.IsAutosaveDraft = true
	target.Status = domain.ListStatusDraft
	target.IsEditing = false
	target.EditingTargetListID = nil
	target.Items = items
	target.Touch(now)

	if err := s.repo.Save(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}
	summary := summaryOf(target)
	return &summary, nil
}

// cloneItemsForDraft clones items into a draft context: catalog items take
// the canonical {listID}:{productID} identity, manual items get fresh ids,
// timestamps stamped with now. A live list may hold the same product more
// than once; occurrences colliding on the canonical id fold into one entry
// with their quantities summed, keeping item ids unique within the draft.
// keepChecked retains source checked flags (ORed across folded occurrences)
// instead of resetting them.
func (s *Service) cloneItemsForDraft(items []domain.ListItem, draftID string, now time.Time, keepChecked bool) ([]domain.ListItem, error) {
	out := make([]domain.ListItem, 0, len(items))
	seen := make(map[string]int)
	for i := range items {
		src := &items[i]

		var id string
		if src.Kind == domain.ItemKindCatalog {
			id = domain.BuildDraftItemID(draftID, src.SourceProductID)
			if j, ok := seen[id]; ok {
				out[j].Qty += qtyOrOne(src.Qty)
				if keepChecked && src.Checked {
					out[j].Checked = true
				}
				continue
			}
			seen[id] = len(out)
		} else {
			var err error
			if id, err = s.ids.NewID(); err != nil {
				return nil, err
			}
		}

		clone := cloneItem(src, id, draftID, now)
		if keepChecked {
			clone.Checked = src.Checked
		}
		out = append(out, clone)
	}
	return out, nil
}

func qtyOrOne(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}

// cloneItem copies an item into a new list context with checked reset.
func cloneItem(src *domain.ListItem, id, listID string, now time.Time) domain.ListItem {
	clone := *src
	clone.ID = id
	clone.ListID = listID
	clone.Checked = false
	clone.CreatedAt = now
	clone.UpdatedAt = now
	if src.Kind == domain.ItemKindCatalog {
		clone.SourceProductID = domain.NormalizeSourceProductID(src.SourceProductID)
	}
	return clone
}
