package recycle

import "sync/atomic"

// Ring is a lock-free single-producer single-consumer ring holding retired
// objects awaiting a safe reuse point. Capacity must be a power of two.
type Ring[T any] struct {
	head uint64
	_    [56]byte // keep head and tail on separate cache lines
	tail uint64
	_    [56]byte
	buf  []*T
	mask uint64
}

// NewRing allocates a ring with the given power-of-two capacity.
func NewRing[T any](pow2 uint64) *Ring[T] {
	if pow2 == 0 || pow2&(pow2-1) != 0 {
		panic("recycle: ring capacity must be a power of two")
	}
	return &Ring[T]{buf: make([]*T, pow2), mask: pow2 - 1}
}

// Enqueue retires an object; returns false if the ring is full.
func (r *Ring[T]) Enqueue(obj *T) bool {
	h := r.head
	t := atomic.LoadUint64(&r.tail)
	if h-t == uint64(len(r.buf)) {
		return false
	}
	r.buf[h&r.mask] = obj
	atomic.StoreUint64(&r.head, h+1)
	return true
}

// Dequeue removes the oldest retired object; returns nil if empty.
func (r *Ring[T]) Dequeue() *T {
	t := r.tail
	h := atomic.LoadUint64(&r.head)
	if t == h {
		return nil
	}
	obj := r.buf[t&r.mask]
	r.buf[t&r.mask] = nil
	atomic.StoreUint64(&r.tail, t+1)
	return obj
}

// Len returns the number of retired objects currently queued.
func (r *Ring[T]) Len() int {
	return int(atomic.LoadUint64(&r.head) - atomic.LoadUint64(&r.tail))
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }
