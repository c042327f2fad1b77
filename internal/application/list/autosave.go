package list

import (
	"context"
	"fmt"
	"time"

	"github.com/lista-app/lista/internal/domain"
)

// The autosave draft subsystem. For a given owner at most one list should
// function as "the" autosave draft; the data model does not hard-prevent
// multiple, so every selection here is latest-by-UpdatedAt and the write
// paths sweep stale drafts as they go. Conflicts are detected lazily on the
// next write, never pushed.

// autosaveDrafts returns all autosave-flagged lists owned by the user.
func (s *Service) autosaveDrafts(ctx context.Context, userID string) ([]*domain.List, error) {
	owned, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}
	var drafts []*domain.List
	for _, l := range owned {
		if l.IsAutosaveDraft {
			drafts = append(drafts, l)
		}
	}
	return drafts, nil
}

// UpsertAutosaveDraft is the optimistic-concurrency write. The caller proves
// it last read the draft at BaseUpdatedAt; if no draft carries that exact
// version while a newer one exists, the write is rejected with a
// VersionConflictError carrying the authoritative version so the client can
// re-fetch and merge. An accepted write replaces the draft's content wholesale
// (full replace, not a diff) - only the list's UpdatedAt carries version
// semantics, items are restamped on every write.
func (s *Service) UpsertAutosaveDraft(ctx context.Context, params UpsertAutosaveParams) (*UpsertAutosaveResult, error) {
	drafts, err := s.autosaveDrafts(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	latest := domain.LatestByUpdatedAt(drafts)

	var matching *domain.List
	if params.BaseUpdatedAt != nil {
		base := domain.VersionToken(*params.BaseUpdatedAt)
		for _, d := range drafts {
			if d.UpdatedAt.Equal(base) {
				matching = d
				break
			}
		}
	}

	if matching == nil && latest != nil {
		// The caller's base version matches nothing while a draft exists at
		// some other version: the caller is stale.
		return nil, &domain.VersionConflictError{RemoteUpdatedAt: latest.UpdatedAt}
	}

	now := s.now()
	target := matching
	if target == nil {
		target = latest
	}
	if target == nil {
		id, err := s.ids.NewID()
		if err != nil {
			return nil, err
		}
		target = &domain.List{
			ID:              id,
			OwnerUserID:     params.UserID,
			IsAutosaveDraft: true,
			Status:          domain.ListStatusDraft,
			CreatedAt:       now,
		}
	}

	// Autosave drafts may transiently hold an empty title, so the Title
	// value object is deliberately bypassed here.
	target.Title = params.Title
	target.Items, err = s.buildDraftItems(params.Items, target.ID, now)
	if err != nil {
		return nil, err
	}
	target.Touch(now)

	if err := s.repo.Save(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to save autosave draft: %w", err)
	}
	return &UpsertAutosaveResult{ID: target.ID, Title: target.Title, UpdatedAt: target.UpdatedAt}, nil
}

// buildDraftItems rebuilds the draft's item set from client input. Catalog
// items take the canonical {listID}:{productID} identity so repeated writes
// collapse onto the same item entity; manual items get fresh ids. Inputs
// repeating a product fold into the first occurrence with quantities summed.
func (s *Service) buildDraftItems(inputs []DraftItemInput, draftID string, now time.Time) ([]domain.ListItem, error) {
	items := make([]domain.ListItem, 0, len(inputs))
	seen := make(map[string]int)
	for i := range inputs {
		in := &inputs[i]

		item := domain.ListItem{
			ListID:    draftID,
			Kind:      in.Kind,
			Name:      in.Name,
			Qty:       in.Qty,
			Checked:   in.Checked,
			Note:      in.Note,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if item.Qty <= 0 {
			item.Qty = 1
		}

		switch in.Kind {
		case domain.ItemKindCatalog:
			item.ID = domain.BuildDraftItemID(draftID, in.SourceProductID)
			if j, ok := seen[item.ID]; ok {
				items[j].Qty += item.Qty
				if item.Checked {
					items[j].Checked = true
				}
				continue
			}
			seen[item.ID] = len(items)
			item.Source = domain.CatalogSourceMercadona
			item.SourceProductID = domain.NormalizeSourceProductID(in.SourceProductID)
			item.Thumbnail = in.Thumbnail
			item.Price = in.Price
			item.UnitSize = in.UnitSize
			item.UnitFormat = in.UnitFormat
			item.UnitPrice = in.UnitPrice
			item.IsApproxSize = in.IsApproxSize
		default:
			id, err := s.ids.NewID()
			if err != nil {
				return nil, err
			}
			item.ID = id
			item.Kind = domain.ItemKindManual
		}

		items = append(items, item)
	}
	return items, nil
}

// GetAutosaveDraft returns the owner's current autosave draft, or nil when
// none exists.
func (s *Service) GetAutosaveDraft(ctx context.Context, userID string) (*AutosaveDraft, error) {
	drafts, err := s.autosaveDrafts(ctx, userID)
	if err != nil {
		return nil, err
	}
	latest := domain.LatestByUpdatedAt(drafts)
	if latest == nil {
		return nil, nil
	}
	return &AutosaveDraft{
		ID:                  latest.ID,
		Title:               latest.Title,
		IsEditing:           latest.IsEditing,
		EditingTargetListID: latest.EditingTargetListID,
		Items:               itemResults(latest.Items),
		UpdatedAt:           latest.UpdatedAt,
	}, nil
}

// DiscardAutosaveDraft hard-deletes the owner's autosave drafts, stale ones
// included. Discarding when none exist is a no-op success.
func (s *Service) DiscardAutosaveDraft(ctx context.Context, userID string) (*DiscardResult, error) {
	drafts, err := s.autosaveDrafts(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, d := range drafts {
		if err := s.repo.DeleteByID(ctx, d.ID); err != nil {
			return nil, fmt.Errorf("failed to delete autosave draft: %w", err)
		}
	}
	return &DiscardResult{Removed: len(drafts)}, nil
}

// ResetAutosaveDraft clears a draft in place and sweeps every other autosave
// draft the owner has. When TargetDraftID names no existing draft the call
// succeeds with a nil DraftID rather than erroring, since the client's goal
// (that draft not holding content) is already met.
func (s *Service) ResetAutosaveDraft(ctx context.Context, params ResetAutosaveParams) (*ResetResult, error) {
	drafts, err := s.autosaveDrafts(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	var target *domain.List
	if params.TargetDraftID != nil {
		for _, d := range drafts {
			if d.ID == *params.TargetDraftID && d.Status == domain.ListStatusDraft {
				target = d
				break
			}
		}
		if target == nil {
			return &ResetResult{}, nil
		}
	} else {
		target = domain.LatestByUpdatedAt(drafts)
		if target == nil {
			return &ResetResult{}, nil
		}
	}

	target.Title = ""
	target.Items = []domain.ListItem{}
	target.IsEditing = false
	target.EditingTargetListID = nil
	target.Touch(s.now())

	if err := s.repo.Save(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to save autosave draft: %w", err)
	}

	for _, d := range drafts {
		if d.ID == target.ID {
			continue
		}
		if err := s.repo.DeleteByID(ctx, d.ID); err != nil {
			return nil, fmt.Errorf("failed to delete stale draft: %w", err)
		}
	}

	return &ResetResult{DraftID: &target.ID}, nil
}

// StartListEditing toggles an edit session on an ACTIVE list and manages its
// shadow draft. Entering edit mode is the hand-off point: the draft's content
// is overwritten with a clone of the active list so that from here on the
// client edits the shadow, not the live list. Stale drafts are swept.
func (s *Service) StartListEditing(ctx context.Context, params StartEditingParams) (*EditingResult, error) {
	l, err := s.loadOwned(ctx, params.ListID, params.UserID)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.ListStatusActive {
		return nil, &domain.StatusTransitionError{From: l.Status, Op: "start editing"}
	}

	now := s.now()
	l.IsEditing = params.IsEditing
	l.Touch(now)

	drafts, err := s.autosaveDrafts(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	draft := domain.LatestByUpdatedAt(drafts)
	// Only entering edit mode needs a shadow to clone into; leaving with no
	// draft records nothing.
	if draft == nil && params.IsEditing {
		id, err := s.ids.NewID()
		if err != nil {
			return nil, err
		}
		draft = &domain.List{
			ID:              id,
			OwnerUserID:     params.UserID,
			IsAutosaveDraft: true,
			Status:          domain.ListStatusDraft,
			Items:           []domain.ListItem{},
			CreatedAt:       now,
		}
	}

	if draft != nil {
		draft.IsEditing = params.IsEditing
		if params.IsEditing {
			draft.EditingTargetListID = &l.ID
			draft.Title = l.Title
			draft.Items, err = s.cloneItemsForEditing(l.Items, draft.ID, now)
			if err != nil {
				return nil, err
			}
		} else {
			draft.EditingTargetListID = nil
		}
		draft.Touch(now)
	}

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}

	result := &EditingResult{ID: l.ID, IsEditing: l.IsEditing, UpdatedAt: l.UpdatedAt}
	if draft == nil {
		return result, nil
	}

	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save autosave draft: %w", err)
	}
	for _, d := range drafts {
		if d.ID == draft.ID {
			continue
		}
		if err := s.repo.DeleteByID(ctx, d.ID); err != nil {
			return nil, fmt.Errorf("failed to delete stale draft: %w", err)
		}
	}
	result.AutosaveUpdatedAt = &draft.UpdatedAt

	return result, nil
}

// cloneItemsForEditing clones the active list's items into the shadow draft,
// keeping checked flags (the edit session starts from what the user sees).
// Catalog ids go through the canonical draft scheme so later autosave upserts
// against the same products map onto the same item identity.
func (s *Service) cloneItemsForEditing(items []domain.ListItem, draftID string, now time.Time) ([]domain.ListItem, error) {
	return s.cloneItemsForDraft(items, draftID, now, true)
}

// FinishListEdit is the inverse hand-off: the shadow draft's accumulated
// edits are committed back onto the live active list and the draft is
// consumed. A crash between the save and the deletes can orphan a stale
// draft; the latest-by-UpdatedAt selection and the sweeps tolerate that.
func (s *Service) FinishListEdit(ctx context.Context, userID, listID string) (*ListDetail, error) {
	l, err := s.loadOwned(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.ListStatusActive || !l.IsEditing {
		return nil, &domain.StatusTransitionError{From: l.Status, Op: "finish editing"}
	}

	drafts, err := s.autosaveDrafts(ctx, userID)
	if err != nil {
		return nil, err
	}
	draft := domain.LatestByUpdatedAt(drafts)
	if draft == nil {
		// Nothing to apply.
		return nil, &domain.StatusTransitionError{From: l.Status, Op: "finish editing"}
	}

	now := s.now()
	if draft.Title != "" {
		l.Title = draft.Title
	}
	l.Items, err = s.cloneItemsForDraft(draft.Items, l.ID, now, false)
	if err != nil {
		return nil, err
	}
	l.IsEditing = false
	l.Touch(now)

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save list: %w", err)
	}
	for _, d := range drafts {
		if err := s.repo.DeleteByID(ctx, d.ID); err != nil {
			return nil, fmt.Errorf("failed to delete autosave draft: %w", err)
		}
	}

	detail := detailOf(l)
	return &detail, nil
}
