package loc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnion(t *testing.T) {
	a := NewRange(4, 1, 4, 9, 1, 9)
	b := NewRange(12, 2, 0, 20, 2, 8)

	got := a.Union(b)
	assert.Equal(t, NewRange(4, 1, 4, 20, 2, 8), got)

	// Union is symmetric.
	assert.Equal(t, got, b.Union(a))

	// Union with a contained range is a no-op.
	inner := NewRange(5, 1, 5, 8, 1, 8)
	assert.Equal(t, a, a.Union(inner))
}

func TestContains(t *testing.T) {
	outer := NewRange(0, 1, 0, 20, 3, 2)
	inner := NewRange(3, 1, 3, 10, 2, 1)

	assert.True(t, outer.Contains(inner))
	assert.True(t, outer.Contains(outer))
	assert.False(t, inner.Contains(outer))
}

func TestText(t *testing.T) {
	src := []byte("alias foo bar\n")
	r := NewRange(6, 1, 6, 9, 1, 9)
	assert.Equal(t, "foo", r.Text(src))

	// Out-of-bounds ranges yield an empty string rather than panicking.
	assert.Equal(t, "", NewRange(10, 1, 10, 99, 1, 99).Text(src))
}

func TestString(t *testing.T) {
	r := NewRange(0, 1, 0, 13, 1, 13)
	assert.Equal(t, "1:0-1:13", r.String())
}
