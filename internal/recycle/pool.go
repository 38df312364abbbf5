// Package recycle turns destruction into reuse. Instead of letting a
// managed object become garbage when its last owner drops, a Pool deleter
// resets it and returns it to a free list. A Ring plus an epoch Guard defer
// that reuse while concurrent readers may still hold the raw pointer.
package recycle

import "sync"

// Pool is a typed free list over sync.Pool.
type Pool[T any] struct {
	pool  *sync.Pool
	reset func(*T)
}

// PoolOption configures a Pool.
type PoolOption[T any] func(*Pool[T])

// WithReset runs fn on every object returned to the pool, clearing state
// before reuse.
func WithReset[T any](fn func(*T)) PoolOption[T] {
	return func(p *Pool[T]) { p.reset = fn }
}

// NewPool returns a pool whose misses are served by ctor.
func NewPool[T any](ctor func() *T, opts ...PoolOption[T]) *Pool[T] {
	p := &Pool[T]{
		pool: &sync.Pool{New: func() any { return ctor() }},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get takes an object from the pool, constructing one if none is free.
func (p *Pool[T]) Get() *T {
	return p.pool.Get().(*T)
}

// Put resets an object and returns it to the pool. nil is ignored.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	if p.reset != nil {
		p.reset(obj)
	}
	p.pool.Put(obj)
}

// Deleter returns a destruction func compatible with the unique and shared
// handle constructors: dropped objects go back to the pool instead of to
// the garbage collector.
func (p *Pool[T]) Deleter() func(*T) {
	return p.Put
}
