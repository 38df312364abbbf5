// Package shared provides reference-counted ownership handles. A Shared
// co-owns its managed object with every handle cloned from it; the object
// is destroyed when the last owner drops. A Weak observes the object
// without owning it: it can check liveness and attempt an upgrade to a
// temporary owning handle, but never extends the object's lifetime.
//
// Owner bookkeeping lives in a control block shared by all handles to one
// object. Clone, Drop, Downgrade and Upgrade are safe for concurrent use
// across goroutines; a single handle value must still not be shared without
// synchronization, clone it instead.
package shared

import (
	"errors"
	"fmt"
	"sync/atomic"

	"ptrkit/internal/ctrl"
	"ptrkit/internal/leaktrack"
)

// ErrDropped is returned when using a handle that already dropped its
// ownership share.
var ErrDropped = errors.New("shared: handle already dropped")

// Shared is an owning handle for a reference-counted value of type T.
type Shared[T any] struct {
	p       *T
	b       *ctrl.Block
	dropped atomic.Bool
}

// New copies v onto the heap and returns the first owning handle.
func New[T any](v T) *Shared[T] {
	return adopt(&v, nil, 1)
}

// NewWithDeleter is New with a custom deleter, run once when the last
// owner drops.
func NewWithDeleter[T any](v T, d func(*T)) *Shared[T] {
	return adopt(&v, d, 1)
}

// Adopt takes shared ownership of an existing pointer. The caller must not
// retain p; d may be nil.
func Adopt[T any](p *T, d func(*T)) *Shared[T] {
	if p == nil {
		s := &Shared[T]{}
		s.dropped.Store(true)
		return s
	}
	return adopt(p, d, 1)
}

func adopt[T any](p *T, d func(*T), skip int) *Shared[T] {
	id := register[T](skip + 1)
	b := ctrl.New(func() {
		if d != nil {
			d(p)
		}
		leaktrack.Unregister(id)
	})
	return &Shared[T]{p: p, b: b}
}

// register records the allocation when tracking is on. The enabled check
// comes first so disabled trackers never pay for the type-name formatting.
func register[T any](skip int) string {
	if !leaktrack.Enabled() {
		return ""
	}
	var zero T
	return leaktrack.Register(leaktrack.KindShared, fmt.Sprintf("%T", zero), skip+1)
}

// Valid reports whether this handle still holds an ownership share.
func (s *Shared[T]) Valid() bool { return s.b != nil && !s.dropped.Load() }

// Get returns the managed object, or ErrDropped if this handle let go.
func (s *Shared[T]) Get() (*T, error) {
	if !s.Valid() {
		return nil, ErrDropped
	}
	return s.p, nil
}

// MustGet is Get for call sites where a dropped handle is a programming
// error. It panics instead of returning an error.
func (s *Shared[T]) MustGet() *T {
	p, err := s.Get()
	if err != nil {
		panic(err)
	}
	return p
}

// Owners returns the current owner count. The value is a racy snapshot; it
// is exact only when the caller knows no other goroutine is cloning or
// dropping.
func (s *Shared[T]) Owners() int64 {
	if s.b == nil {
		return 0
	}
	return s.b.Owners()
}

// Clone returns a new owning handle for the same object, incrementing the
// owner count.
func (s *Shared[T]) Clone() (*Shared[T], error) {
	if !s.Valid() {
		return nil, ErrDropped
	}
	s.b.IncOwner()
	return &Shared[T]{p: s.p, b: s.b}, nil
}

// MustClone is Clone that panics on a dropped handle.
func (s *Shared[T]) MustClone() *Shared[T] {
	c, err := s.Clone()
	if err != nil {
		panic(err)
	}
	return c
}

// Drop releases this handle's ownership share. The deleter runs when the
// last share is dropped. Dropping the same handle twice returns ErrDropped.
func (s *Shared[T]) Drop() error {
	if s.b == nil || !s.dropped.CompareAndSwap(false, true) {
		return ErrDropped
	}
	if s.b.DecOwner() {
		// Last owner out: release the owner group's observer reference.
		s.b.DecObserver()
	}
	s.p = nil
	return nil
}

// Downgrade returns a non-owning observer for the managed object.
func (s *Shared[T]) Downgrade() (*Weak[T], error) {
	if !s.Valid() {
		return nil, ErrDropped
	}
	s.b.IncObserver()
	return &Weak[T]{p: s.p, b: s.b}, nil
}
