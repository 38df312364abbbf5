package recycle

import "sync/atomic"

const idle = ^uint64(0)

// Guard coordinates deferred reuse between one reclaimer and any number of
// readers. A reader announces the epoch it is reading under; retired
// objects are only handed back to the pool once every reader is idle.
type Guard struct {
	epoch atomic.Uint64
}

// Reader marks a goroutine's read-side critical sections.
type Reader struct {
	value atomic.Uint64
}

// NewReader returns an idle reader.
func NewReader() *Reader {
	r := &Reader{}
	r.value.Store(idle)
	return r
}

// Enter marks the reader active at the guard's current epoch.
func (r *Reader) Enter(g *Guard) {
	r.value.Store(g.epoch.Load())
}

// Exit marks the reader idle.
func (r *Reader) Exit() {
	r.value.Store(idle)
}

// Epoch returns the guard's current epoch.
func (g *Guard) Epoch() uint64 { return g.epoch.Load() }

// Advance bumps the epoch and moves retired objects from the ring back to
// the pool, stopping at the first object that may still be visible to an
// active reader.
func Advance[T any](g *Guard, ring *Ring[T], pool *Pool[T], readers ...*Reader) {
	g.epoch.Add(1)
	if minEpoch(readers) != idle {
		return
	}
	for {
		obj := ring.Dequeue()
		if obj == nil {
			return
		}
		pool.Put(obj)
	}
}

func minEpoch(readers []*Reader) uint64 {
	min := idle
	for _, r := range readers {
		if v := r.value.Load(); v < min {
			min = v
		}
	}
	return min
}
