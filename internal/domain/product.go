package domain

// ProductSnapshot is a point-in-time copy of a catalog product's display
// fields. AddCatalogItem stores these on the list item; later catalog changes
// never retroactively alter existing items.
type ProductSnapshot struct {
	ID           string
	Source       string
	Name         string
	Thumbnail    *string
	Price        *float64
	UnitSize     *float64
	UnitFormat   *string
	UnitPrice    *float64
	IsApproxSize *bool
}
