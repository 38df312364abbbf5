// Package ctrl implements the control block shared by all owning and
// observing handles to a managed object. The block holds the owner count,
// the observer count, and the type-erased destruction logic; the object dies
// when the owner count reaches zero, and the block itself is unreachable
// once both counts are zero.
package ctrl

import "sync/atomic"

// Block is the per-object bookkeeping structure. One Block is allocated per
// managed object; every owning handle and every observer handle points at it.
//
// The owner group collectively holds a single observer reference, released
// when the last owner drops. This keeps the Block reachable for observers
// that outlive all owners.
type Block struct {
	owners    atomic.Int64
	observers atomic.Int64
	fired     atomic.Bool
	destroy   func()
}

// New returns a Block with one owner and the owner group's observer
// reference. destroy is invoked exactly once, when the owner count reaches
// zero; it must not be nil.
func New(destroy func()) *Block {
	b := &Block{destroy: destroy}
	b.owners.Store(1)
	b.observers.Store(1)
	return b
}

// Owners returns the current owner count. The value is a racy snapshot and
// may be stale by the time the caller inspects it.
func (b *Block) Owners() int64 { return b.owners.Load() }

// Observers returns the current observer count, including the owner group's
// reference while any owner is alive.
func (b *Block) Observers() int64 { return b.observers.Load() }

// IncOwner adds an owner. The caller must already hold an owner reference;
// incrementing from zero is the job of TryIncOwner.
func (b *Block) IncOwner() { b.owners.Add(1) }

// TryIncOwner attempts to add an owner, succeeding only while at least one
// owner is still alive. This is the upgrade path for observers: it never
// resurrects an object whose count already hit zero.
func (b *Block) TryIncOwner() bool {
	for {
		n := b.owners.Load()
		if n <= 0 {
			return false
		}
		if b.owners.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// DecOwner removes an owner. When the count reaches zero the destruction
// logic runs and DecOwner reports died=true; the caller is then responsible
// for releasing the owner group's observer reference via DecObserver.
func (b *Block) DecOwner() (died bool) {
	n := b.owners.Add(-1)
	if n > 0 {
		return false
	}
	b.runDestroy()
	return true
}

// IncObserver adds an observer reference.
func (b *Block) IncObserver() { b.observers.Add(1) }

// DecObserver removes an observer reference and reports whether the block
// is now dead (no owners, no observers).
func (b *Block) DecObserver() (dead bool) {
	return b.observers.Add(-1) == 0
}

func (b *Block) runDestroy() {
	if b.fired.CompareAndSwap(false, true) {
		b.destroy()
	}
}
