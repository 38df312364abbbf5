package shared

import (
	"sync/atomic"

	"ptrkit/internal/ctrl"
)

// Weak is a non-owning observer of an object managed by Shared handles. It
// never keeps the object alive; it only keeps the control block reachable
// so liveness can be checked after the owners are gone.
type Weak[T any] struct {
	p       *T
	b       *ctrl.Block
	dropped atomic.Bool
}

// Expired reports whether the managed object has been destroyed. Like
// Owners, this is a racy snapshot: an object alive now may be gone by the
// time the caller acts. Use Upgrade to act on a live object.
func (w *Weak[T]) Expired() bool {
	return w.b == nil || w.dropped.Load() || w.b.Owners() == 0
}

// Owners returns the current owner count for the observed object.
func (w *Weak[T]) Owners() int64 {
	if w.b == nil || w.dropped.Load() {
		return 0
	}
	return w.b.Owners()
}

// Upgrade attempts to obtain a temporary owning handle. It succeeds only
// while at least one owner is alive; after the last owner drops it returns
// (nil, false), never resurrecting the destroyed object.
func (w *Weak[T]) Upgrade() (*Shared[T], bool) {
	if w.b == nil || w.dropped.Load() {
		return nil, false
	}
	if !w.b.TryIncOwner() {
		return nil, false
	}
	return &Shared[T]{p: w.p, b: w.b}, true
}

// Clone returns another observer for the same object.
func (w *Weak[T]) Clone() (*Weak[T], error) {
	if w.b == nil || w.dropped.Load() {
		return nil, ErrDropped
	}
	w.b.IncObserver()
	return &Weak[T]{p: w.p, b: w.b}, nil
}

// Drop releases the observer reference. Dropping twice returns ErrDropped.
func (w *Weak[T]) Drop() error {
	if w.b == nil || !w.dropped.CompareAndSwap(false, true) {
		return ErrDropped
	}
	w.b.DecObserver()
	w.p = nil
	return nil
}
