package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfAndDeref(t *testing.T) {
	p := Of(42)
	assert.Equal(t, 42, *p)
	assert.Equal(t, 42, Deref(p))
	assert.Equal(t, 0, Deref[int](nil))
}

func TestDerefOr(t *testing.T) {
	assert.Equal(t, "x", DerefOr(Of("x"), "fallback"))
	assert.Equal(t, "fallback", DerefOr[string](nil, "fallback"))
}

func TestZero(t *testing.T) {
	assert.Equal(t, 0, Zero[int]())
	assert.Equal(t, "", Zero[string]())
}

func TestClone(t *testing.T) {
	type box struct{ n int }
	orig := Of(box{n: 1})
	c := Clone(orig)
	c.n = 2
	assert.Equal(t, 1, orig.n)
	assert.Equal(t, 2, c.n)
	assert.Nil(t, Clone[box](nil))
}
