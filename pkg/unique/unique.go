// Package unique provides a move-only ownership handle. A Unique owns its
// managed object exclusively: ownership can be transferred with Move or
// relinquished with Release, and the deleter runs exactly once, when the
// owning handle is closed or reset.
//
// A Unique is not safe for concurrent use. The single-owner model means a
// handle belongs to one goroutine at a time; hand it off with Move.
package unique

import (
	"errors"
	"fmt"

	"ptrkit/internal/leaktrack"
)

var (
	// ErrMoved is returned when accessing a handle whose object was moved out.
	ErrMoved = errors.New("unique: handle was moved from")
	// ErrClosed is returned when accessing a closed handle.
	ErrClosed = errors.New("unique: handle is closed")
	// ErrReleased is returned when accessing a handle that released its object.
	ErrReleased = errors.New("unique: ownership was released")
	// ErrEmpty is returned when an operation needs a live managed object.
	ErrEmpty = errors.New("unique: handle is empty")
)

// Deleter destroys a managed object when its owner lets go.
type Deleter[T any] func(*T)

type state uint8

const (
	stateLive state = iota
	stateMoved
	stateClosed
	stateReleased
)

// Unique is an exclusive-ownership handle for a value of type T.
type Unique[T any] struct {
	p     *T
	del   Deleter[T]
	st    state
	track string
}

// New copies v onto the heap and returns its sole owner.
func New[T any](v T) *Unique[T] {
	return adopt(&v, nil, 1)
}

// NewWithDeleter is New with a custom deleter, run when the handle closes.
func NewWithDeleter[T any](v T, d Deleter[T]) *Unique[T] {
	return adopt(&v, d, 1)
}

// Adopt takes exclusive ownership of an existing pointer. The caller must
// not retain p; d may be nil.
func Adopt[T any](p *T, d Deleter[T]) *Unique[T] {
	if p == nil {
		return &Unique[T]{st: stateClosed}
	}
	return adopt(p, d, 1)
}

func adopt[T any](p *T, d Deleter[T], skip int) *Unique[T] {
	return &Unique[T]{p: p, del: d, track: register[T](skip + 1)}
}

// register records the allocation when tracking is on. The enabled check
// comes first so disabled trackers never pay for the type-name formatting.
func register[T any](skip int) string {
	if !leaktrack.Enabled() {
		return ""
	}
	var zero T
	return leaktrack.Register(leaktrack.KindUnique, fmt.Sprintf("%T", zero), skip+1)
}

// Valid reports whether the handle currently owns an object.
func (u *Unique[T]) Valid() bool { return u.st == stateLive && u.p != nil }

// Get returns the managed object, or the sentinel error describing why the
// handle is empty.
func (u *Unique[T]) Get() (*T, error) {
	if err := u.emptyErr(); err != nil {
		return nil, err
	}
	return u.p, nil
}

// MustGet is Get for call sites where an empty handle is a programming
// error. It panics instead of returning an error.
func (u *Unique[T]) MustGet() *T {
	p, err := u.Get()
	if err != nil {
		panic(err)
	}
	return p
}

// Move transfers ownership to a fresh handle and leaves the source empty.
// Moving an empty handle yields an equally empty handle.
func (u *Unique[T]) Move() *Unique[T] {
	dst := &Unique[T]{p: u.p, del: u.del, st: u.st, track: u.track}
	u.p = nil
	u.del = nil
	u.track = ""
	u.st = stateMoved
	return dst
}

// Swap exchanges the managed objects of two live handles. Swapping a handle
// with itself is a no-op.
func (u *Unique[T]) Swap(o *Unique[T]) error {
	if u == o {
		return nil
	}
	if err := u.emptyErr(); err != nil {
		return err
	}
	if err := o.emptyErr(); err != nil {
		return err
	}
	u.p, o.p = o.p, u.p
	u.del, o.del = o.del, u.del
	u.track, o.track = o.track, u.track
	return nil
}

// Release relinquishes ownership and returns the raw pointer. The deleter
// does not run; the caller is now responsible for the object's lifetime.
func (u *Unique[T]) Release() (*T, error) {
	if err := u.emptyErr(); err != nil {
		return nil, err
	}
	p := u.p
	leaktrack.Unregister(u.track)
	u.p = nil
	u.del = nil
	u.track = ""
	u.st = stateReleased
	return p, nil
}

// Reset destroys the current object, if any, and adopts a new one. The
// handle's deleter carries over to the new object. A handle in any empty
// state becomes live again.
func (u *Unique[T]) Reset(v T) {
	d := u.del
	u.destroy()
	u.p = &v
	u.del = d
	u.st = stateLive
	u.track = register[T](1)
}

// ResetWithDeleter is Reset with a custom deleter for the new object.
func (u *Unique[T]) ResetWithDeleter(v T, d Deleter[T]) {
	u.Reset(v)
	u.del = d
}

// Close destroys the managed object. Closing an empty handle is a no-op, so
// Close is safe to defer unconditionally. Implements io.Closer.
func (u *Unique[T]) Close() error {
	if u.Valid() {
		u.destroy()
		u.st = stateClosed
	}
	return nil
}

func (u *Unique[T]) destroy() {
	if !u.Valid() {
		return
	}
	if u.del != nil {
		u.del(u.p)
	}
	leaktrack.Unregister(u.track)
	u.p = nil
	u.del = nil
	u.track = ""
}

func (u *Unique[T]) emptyErr() error {
	switch {
	case u.Valid():
		return nil
	case u.st == stateMoved:
		return ErrMoved
	case u.st == stateClosed:
		return ErrClosed
	case u.st == stateReleased:
		return ErrReleased
	default:
		return ErrEmpty
	}
}
