package unique

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptrkit/internal/leaktrack"
	"ptrkit/pkg/ptr"
)

type resource struct {
	name   string
	closed int
}

func TestNewAndGet(t *testing.T) {
	u := New(resource{name: "db"})
	require.True(t, u.Valid())

	p, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, "db", p.name)
	assert.Same(t, p, u.MustGet())

	require.NoError(t, u.Close())
}

func TestMoveTransfersOwnership(t *testing.T) {
	var frees int
	src := NewWithDeleter(resource{name: "a"}, func(*resource) { frees++ })

	dst := src.Move()
	require.True(t, dst.Valid())
	assert.False(t, src.Valid())

	_, err := src.Get()
	assert.ErrorIs(t, err, ErrMoved)
	assert.Panics(t, func() { src.MustGet() })

	// Closing the moved-from handle must not touch the object.
	require.NoError(t, src.Close())
	assert.Equal(t, 0, frees)

	require.NoError(t, dst.Close())
	assert.Equal(t, 1, frees)
}

func TestMoveEmptyHandle(t *testing.T) {
	u := New(resource{})
	require.NoError(t, u.Close())

	dst := u.Move()
	assert.False(t, dst.Valid())
	_, err := dst.Get()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDeleterRunsExactlyOnce(t *testing.T) {
	var frees int
	u := NewWithDeleter(resource{name: "once"}, func(r *resource) {
		r.closed++
		frees++
	})

	require.NoError(t, u.Close())
	require.NoError(t, u.Close())
	assert.Equal(t, 1, frees)

	_, err := u.Get()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRelease(t *testing.T) {
	var frees int
	u := NewWithDeleter(resource{name: "raw"}, func(*resource) { frees++ })

	p, err := u.Release()
	require.NoError(t, err)
	assert.Equal(t, "raw", p.name)

	_, err = u.Get()
	assert.ErrorIs(t, err, ErrReleased)

	// Close after Release is a no-op: the deleter belongs to the caller now.
	require.NoError(t, u.Close())
	assert.Equal(t, 0, frees)

	_, err = u.Release()
	assert.ErrorIs(t, err, ErrReleased)
}

func TestReset(t *testing.T) {
	var frees []string
	u := NewWithDeleter(resource{name: "first"}, func(r *resource) {
		frees = append(frees, r.name)
	})

	u.ResetWithDeleter(resource{name: "second"}, func(r *resource) {
		frees = append(frees, r.name)
	})
	assert.Equal(t, []string{"first"}, frees)
	assert.Equal(t, "second", u.MustGet().name)

	require.NoError(t, u.Close())
	assert.Equal(t, []string{"first", "second"}, frees)
}

func TestResetKeepsDeleter(t *testing.T) {
	var frees []string
	u := NewWithDeleter(resource{name: "first"}, func(r *resource) {
		frees = append(frees, r.name)
	})

	// The deleter carries over: it must fire for the old object now and
	// for the new object at Close.
	u.Reset(resource{name: "second"})
	assert.Equal(t, []string{"first"}, frees)

	require.NoError(t, u.Close())
	assert.Equal(t, []string{"first", "second"}, frees)
}

func TestSwap(t *testing.T) {
	a := New(resource{name: "a"})
	b := New(resource{name: "b"})

	require.NoError(t, a.Swap(b))
	assert.Equal(t, "b", a.MustGet().name)
	assert.Equal(t, "a", b.MustGet().name)

	// Self-swap is a no-op.
	require.NoError(t, a.Swap(a))
	assert.Equal(t, "b", a.MustGet().name)

	require.NoError(t, b.Close())
	err := a.Swap(b)
	assert.ErrorIs(t, err, ErrClosed)

	require.NoError(t, a.Close())
}

func TestAdopt(t *testing.T) {
	var frees int
	r := ptr.Of(resource{name: "adopted"})
	u := Adopt(r, func(*resource) { frees++ })
	assert.Same(t, r, u.MustGet())
	require.NoError(t, u.Close())
	assert.Equal(t, 1, frees)

	nilHandle := Adopt[resource](nil, nil)
	assert.False(t, nilHandle.Valid())
	_, err := nilHandle.Get()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestImplementsCloser(t *testing.T) {
	var c io.Closer = New(resource{})
	require.NoError(t, c.Close())
}

func TestTrackerRegistrationGate(t *testing.T) {
	tracker := leaktrack.Default()
	tracker.Reset()

	// Disabled: constructors record nothing.
	u := New(resource{})
	require.NoError(t, u.Close())
	assert.Empty(t, tracker.Snapshot())

	tracker.Enable()
	defer tracker.Disable()

	u2 := New(resource{name: "tracked"})
	snap := tracker.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "unique.resource", snap[0].Type)
	assert.Equal(t, leaktrack.KindUnique, snap[0].Kind)

	u2.Reset(resource{name: "replacement"})
	require.Len(t, tracker.Snapshot(), 1, "reset swaps the tracked object, not adds one")

	require.NoError(t, u2.Close())
	assert.Empty(t, tracker.Snapshot())
}
