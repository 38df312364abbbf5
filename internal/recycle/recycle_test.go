package recycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptrkit/pkg/shared"
	"ptrkit/pkg/unique"
)

type buffer struct {
	data []byte
}

func newBufferPool() *Pool[buffer] {
	return NewPool(
		func() *buffer { return &buffer{data: make([]byte, 0, 64)} },
		WithReset(func(b *buffer) { b.data = b.data[:0] }),
	)
}

func TestPoolDeleterRecycles(t *testing.T) {
	pool := newBufferPool()

	u := unique.NewWithDeleter(buffer{data: []byte("payload")}, pool.Deleter())
	require.NoError(t, u.Close())

	got := pool.Get()
	assert.Empty(t, got.data, "reset must clear recycled state")

	s := shared.NewWithDeleter(buffer{data: []byte("x")}, pool.Deleter())
	c := s.MustClone()
	require.NoError(t, s.Drop())
	require.NoError(t, c.Drop())
}

func TestPoolPutNil(t *testing.T) {
	pool := newBufferPool()
	pool.Put(nil) // must not panic
}

func TestRing(t *testing.T) {
	r := NewRing[buffer](4)
	assert.Equal(t, 4, r.Cap())
	assert.Nil(t, r.Dequeue())

	bufs := []*buffer{{}, {}, {}, {}}
	for _, b := range bufs {
		require.True(t, r.Enqueue(b))
	}
	assert.False(t, r.Enqueue(&buffer{}), "ring is full")
	assert.Equal(t, 4, r.Len())

	for _, want := range bufs {
		assert.Same(t, want, r.Dequeue())
	}
	assert.Nil(t, r.Dequeue())
}

func TestRingCapacityMustBePowerOfTwo(t *testing.T) {
	assert.Panics(t, func() { NewRing[buffer](3) })
	assert.Panics(t, func() { NewRing[buffer](0) })
}

func TestAdvanceRespectsActiveReaders(t *testing.T) {
	pool := NewPool(func() *buffer { return &buffer{} })
	ring := NewRing[buffer](8)
	g := &Guard{}
	reader := NewReader()

	retired := &buffer{data: []byte("in flight")}
	require.True(t, ring.Enqueue(retired))

	reader.Enter(g)
	Advance(g, ring, pool, reader)
	assert.Equal(t, 1, ring.Len(), "active reader must block reuse")

	reader.Exit()
	Advance(g, ring, pool, reader)
	assert.Equal(t, 0, ring.Len(), "idle reader allows reclamation")
}
