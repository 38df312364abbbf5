// Package ptr provides small pointer helpers used throughout the module,
// keeping pointer creation and dereferencing explicit at call sites.
package ptr

// Of returns a pointer to v.
func Of[T any](v T) *T { return &v }

// Deref returns the value p points at, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// DerefOr returns the value p points at, or def when p is nil.
func DerefOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Zero returns the zero value of T.
func Zero[T any]() T {
	var zero T
	return zero
}

// Clone returns a pointer to a shallow copy of *p, or nil when p is nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
