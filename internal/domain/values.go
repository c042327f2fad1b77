package domain

// ListStatus represents the lifecycle state of a shopping list.
// Value object - immutable string enum.
type ListStatus string

const (
	ListStatusDraft     ListStatus = "DRAFT"
	ListStatusActive    ListStatus = "ACTIVE"
	ListStatusCompleted ListStatus = "COMPLETED"
)

// ItemKind discriminates the two list item variants.
// Value object - immutable string enum.
type ItemKind string

const (
	// ItemKindManual is a free-text item typed by the user.
	ItemKindManual ItemKind = "manual"

	// ItemKindCatalog is an item added from the product catalog,
	// carrying a point-in-time snapshot of the product's display fields.
	ItemKindCatalog ItemKind = "catalog"
)

// CatalogSourceMercadona is the only catalog source currently supported.
const CatalogSourceMercadona = "mercadona"

// allowedTransitions is the static status transition table.
// Only DRAFT -> ACTIVE is permitted; COMPLETED is terminal and is reached
// exclusively through CompleteList, never through a generic status update.
var allowedTransitions = map[ListStatus][]ListStatus{
	ListStatusDraft:     {ListStatusActive},
	ListStatusActive:    {},
	ListStatusCompleted: {},
}

// CanTransition reports whether a list may move from one status to another
// through the generic status-update path.
func CanTransition(from, to ListStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
