package list

import (
	"time"

	"github.com/lista-app/lista/internal/domain"
)

// ListSummary is the projection returned by list-level operations that don't
// need items.
type ListSummary struct {
	ID          string
	Title       string
	Status      domain.ListStatus
	ItemCount   int
	ActivatedAt *time.Time
	IsEditing   bool
	UpdatedAt   time.Time
}

// ListDetail is the full projection including items.
type ListDetail struct {
	ListSummary
	CreatedAt time.Time
	Items     []ItemResult
}

// ItemResult is the item projection shared by manual and catalog variants;
// catalog-only fields are pointers/empty for manual items.
type ItemResult struct {
	ID      string
	Kind    domain.ItemKind
	Name    string
	Qty     int
	Checked bool
	Note    *string

	Source          string
	SourceProductID string
	Thumbnail       *string
	Price           *float64
	UnitSize        *float64
	UnitFormat      *string
	UnitPrice       *float64
	IsApproxSize    *bool

	UpdatedAt time.Time
}

// AutosaveDraft is the projection of the owner's current autosave draft.
type AutosaveDraft struct {
	ID                  string
	Title               string
	IsEditing           bool
	EditingTargetListID *string
	Items               []ItemResult
	UpdatedAt           time.Time
}

// UpsertAutosaveResult acknowledges an accepted autosave write; UpdatedAt is
// the new version token the client must present on its next write.
type UpsertAutosaveResult struct {
	ID        string
	Title     string
	UpdatedAt time.Time
}

// DiscardResult reports how many autosave drafts a discard removed.
type DiscardResult struct {
	Removed int
}

// ResetResult names the draft that was reset, or nil when no draft matched.
type ResetResult struct {
	DraftID *string
}

// EditingResult is returned by StartListEditing. AutosaveUpdatedAt is nil
// when the call touched no autosave draft.
type EditingResult struct {
	ID                string
	IsEditing         bool
	UpdatedAt         time.Time
	AutosaveUpdatedAt *time.Time
}

// CreateListParams is the input for CreateList.
type CreateListParams struct {
	UserID string
	Title  string
}

// AddManualItemParams is the input for AddManualItem.
type AddManualItemParams struct {
	UserID string
	ListID string
	Name   string
	Qty    int
	Note   *string
}

// AddCatalogItemParams is the input for AddCatalogItem.
type AddCatalogItemParams struct {
	UserID    string
	ListID    string
	ProductID string
	Qty       int
}

// UpdateItemParams patches mutable item fields; nil means "leave unchanged".
type UpdateItemParams struct {
	UserID  string
	ListID  string
	ItemID  string
	Name    *string
	Qty     *int
	Checked *bool
}

// CompleteListParams carries the definitive set of checked item ids.
type CompleteListParams struct {
	UserID         string
	ListID         string
	CheckedItemIDs []string
}

// DraftItemInput is one item of an autosave write. The client sends the full
// item set on every write (full replace, not a diff). Catalog items echo the
// snapshot fields the client holds; ids are derived server-side.
type DraftItemInput struct {
	Kind    domain.ItemKind
	Name    string
	Qty     int
	Checked bool
	Note    *string

	SourceProductID string
	Thumbnail       *string
	Price           *float64
	UnitSize        *float64
	UnitFormat      *string
	UnitPrice       *float64
	IsApproxSize    *bool
}

// UpsertAutosaveParams is the input for UpsertAutosaveDraft. BaseUpdatedAt is
// the version token from the caller's last read; nil means the caller believes
// no draft exists yet.
type UpsertAutosaveParams struct {
	UserID        string
	Title         string
	BaseUpdatedAt *time.Time
	Items         []DraftItemInput
}

// ResetAutosaveParams is the input for ResetAutosaveDraft.
type ResetAutosaveParams struct {
	UserID        string
	TargetDraftID *string
}

// StartEditingParams is the input for StartListEditing.
type StartEditingParams struct {
	UserID    string
	ListID    string
	IsEditing bool
}

func summaryOf(l *domain.List) ListSummary {
	return ListSummary{
		ID:          l.ID,
		Title:       l.Title,
		Status:      l.Status,
		ItemCount:   len(l.Items),
		ActivatedAt: l.ActivatedAt,
		IsEditing:   l.IsEditing,
		UpdatedAt:   l.UpdatedAt,
	}
}

func detailOf(l *domain.List) ListDetail {
	return ListDetail{
		ListSummary: summaryOf(l),
		CreatedAt:   l.CreatedAt,
		Items:       itemResults(l.Items),
	}
}

func itemResults(items []domain.ListItem) []ItemResult {
	out := make([]ItemResult, len(items))
	for i := range items {
		out[i] = itemResult(&items[i])
	}
	return out
}

func itemResult(it *domain.ListItem) ItemResult {
	return ItemResult{
		ID:              it.ID,
		Kind:            it.Kind,
		Name:            it.Name,
		Qty:             it.Qty,
		Checked:         it.Checked,
		Note:            it.Note,
		Source:          it.Source,
		SourceProductID: it.SourceProductID,
		Thumbnail:       it.Thumbnail,
		Price:           it.Price,
		UnitSize:        it.UnitSize,
		UnitFormat:      it.UnitFormat,
		UnitPrice:       it.UnitPrice,
		IsApproxSize:    it.IsApproxSize,
		UpdatedAt:       it.UpdatedAt,
	}
}
