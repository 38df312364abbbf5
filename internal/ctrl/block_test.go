package ctrl

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestBlockCounts(t *testing.T) {
	var destroyed int
	b := New(func() { destroyed++ })

	assert.Equal(t, int64(1), b.Owners())
	assert.Equal(t, int64(1), b.Observers())

	b.IncOwner()
	assert.Equal(t, int64(2), b.Owners())

	require.False(t, b.DecOwner())
	assert.Equal(t, 0, destroyed)

	require.True(t, b.DecOwner())
	assert.Equal(t, 1, destroyed)
	assert.True(t, b.DecObserver())
}

func TestTryIncOwnerFromZero(t *testing.T) {
	b := New(func() {})
	require.True(t, b.TryIncOwner())
	b.DecOwner()
	require.True(t, b.DecOwner())

	assert.False(t, b.TryIncOwner(), "upgrade must not resurrect a dead object")
	assert.Equal(t, int64(0), b.Owners())
}

func TestDestroyExactlyOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	const owners = 64
	var destroyed atomic.Int64
	b := New(func() { destroyed.Add(1) })
	for i := 1; i < owners; i++ {
		b.IncOwner()
	}

	var wg sync.WaitGroup
	for i := 0; i < owners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.DecOwner() {
				b.DecObserver()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), destroyed.Load())
	assert.Equal(t, int64(0), b.Owners())
	assert.Equal(t, int64(0), b.Observers())
}

func TestObserverKeepsBlockAlive(t *testing.T) {
	b := New(func() {})
	b.IncObserver()

	require.True(t, b.DecOwner())
	assert.False(t, b.DecObserver(), "standalone observer still holds the block")
	assert.True(t, b.DecObserver())
}
