// Package ptr has small generic pointer helpers. Optional fields such as
// catalog snapshot attributes are modeled as pointers; these keep the
// literal-building and scanning code short.
package ptr

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Deref returns the value p points to, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}
