package domain

import "time"

// List is the aggregate root for a shopping list. Unlike paginated designs,
// the whole aggregate (list + items) is loaded, mutated in memory, and saved
// back in a single replace-by-id call; no shared mutable aggregate crosses a
// use case boundary.
type List struct {
	ID          string
	OwnerUserID string
	Title       string

	// IsAutosaveDraft marks the list as a shadow/scratch copy buffering
	// in-progress edits. Autosave drafts are never user-visible lists.
	IsAutosaveDraft bool

	Status      ListStatus
	ActivatedAt *time.Time // set when transitioning to ACTIVE, for UI display

	// IsEditing and EditingTargetListID form the shadow-editing link.
	// Their valid combinations with Status are enforced by
	// ValidateEditingState.
	IsEditing           bool
	EditingTargetListID *string

	// Items in stable storage order (insertion order).
	Items []ListItem

	CreatedAt time.Time

	// UpdatedAt doubles as the optimistic-concurrency version token for
	// autosave writes. Stored at millisecond precision so it survives a
	// round trip through the RFC3339 wire format unchanged.
	UpdatedAt time.Time
}

// ListItem is a tagged variant: Kind selects which fields are meaningful.
// Manual items carry only Name; catalog items additionally carry an immutable
// snapshot of the product's display fields taken at add time.
type ListItem struct {
	ID     string
	ListID string
	Kind   ItemKind

	Name    string
	Qty     int
	Checked bool
	Note    *string

	// Catalog snapshot fields (Kind == ItemKindCatalog only).
	Source          string
	SourceProductID string
	Thumbnail       *string
	Price           *float64
	UnitSize        *float64
	UnitFormat      *string
	UnitPrice       *float64
	IsApproxSize    *bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the aggregate. Stores use it so no mutable
// state is shared across the repository boundary.
func (l *List) Clone() *List {
	if l == nil {
		return nil
	}
	out := *l
	out.ActivatedAt = clonePtr(l.ActivatedAt)
	out.EditingTargetListID = clonePtr(l.EditingTargetListID)
	out.Items = make([]ListItem, len(l.Items))
	for i := range l.Items {
		out.Items[i] = l.Items[i].Clone()
	}
	return &out
}

// Clone returns a deep copy of the item.
func (it ListItem) Clone() ListItem {
	out := it
	out.Note = clonePtr(it.Note)
	out.Thumbnail = clonePtr(it.Thumbnail)
	out.Price = clonePtr(it.Price)
	out.UnitSize = clonePtr(it.UnitSize)
	out.UnitFormat = clonePtr(it.UnitFormat)
	out.UnitPrice = clonePtr(it.UnitPrice)
	out.IsApproxSize = clonePtr(it.IsApproxSize)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// FindItem returns a pointer into Items for in-place mutation, or nil.
func (l *List) FindItem(itemID string) *ListItem {
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			return &l.Items[i]
		}
	}
	return nil
}

// RemoveItem deletes the item with the given id, preserving order.
// Returns false if the item is not present.
func (l *List) RemoveItem(itemID string) bool {
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Touch bumps the version token.
func (l *List) Touch(now time.Time) {
	l.UpdatedAt = VersionToken(now)
}

// VersionToken normalizes a timestamp to the precision used for the
// optimistic-concurrency token (UTC, milliseconds).
func VersionToken(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// LatestByUpdatedAt returns the list with the maximum UpdatedAt, or nil for
// an empty slice. Ties keep the earliest occurrence, which matches stable
// storage order.
func LatestByUpdatedAt(lists []*List) *List {
	var latest *List
	for _, l := range lists {
		if latest == nil || l.UpdatedAt.After(latest.UpdatedAt) {
			latest = l
		}
	}
	return latest
}

// ValidateEditingState checks the (status, isEditing, editingTargetListID)
// invariant. It is a pure validation, never auto-corrective:
//
//	DRAFT     + !isEditing => no editing target
//	DRAFT     +  isEditing => editing target required
//	ACTIVE    + any        => no editing target
//	COMPLETED              => not editing, no editing target
func ValidateEditingState(status ListStatus, isEditing bool, editingTargetListID *string) error {
	switch status {
	case ListStatusDraft:
		if isEditing && editingTargetListID == nil {
			return ErrEditingStateInvariant
		}
		if !isEditing && editingTargetListID != nil {
			return ErrEditingStateInvariant
		}
		return nil
	case ListStatusActive:
		if editingTargetListID != nil {
			return ErrEditingStateInvariant
		}
		return nil
	case ListStatusCompleted:
		if isEditing || editingTargetListID != nil {
			return ErrEditingStateInvariant
		}
		return nil
	default:
		return ErrEditingStateInvariant
	}
}

// ValidateEditing checks the editing-state invariant on the list itself.
func (l *List) ValidateEditing() error {
	return ValidateEditingState(l.Status, l.IsEditing, l.EditingTargetListID)
}
