package geom

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsSharesEdges(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10.4, H: 5}
	b := Rect{X: 10.4, Y: 0, W: 9.6, H: 5}

	ab := a.Bounds(1)
	bb := b.Bounds(1)
	assert.Equal(t, ab.Max.X, bb.Min.X, "adjacent rects should share an edge")
	assert.Equal(t, image.Rect(0, 0, 10, 5), ab)
	assert.Equal(t, image.Rect(10, 0, 20, 5), bb)
}

func TestBoundsScale(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 4}
	assert.Equal(t, image.Rect(2, 4, 8, 12), r.Bounds(2))
	assert.Equal(t, r.Bounds(1), r.Bounds(0), "non-positive scale falls back to 1")
}

func TestContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 5, H: 5}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(14.9, 14.9))
	assert.False(t, r.Contains(15, 12))
	assert.False(t, r.Contains(9.9, 12))
}

func TestCompactDropsSubtree(t *testing.T) {
	rects := []Rect{
		{Index: 0, W: 100, H: 100, ParentID: NoParent, Children: []int{1, 3}},
		{Index: 1, W: 2, H: 50, Children: []int{2}}, // too thin
		{Index: 2, W: 10, H: 10},
		{Index: 3, W: 50, H: 50, Children: []int{4}},
		{Index: 4, W: 20, H: 20},
	}

	out := Compact(rects, 4)
	require.Len(t, out, 3)
	for i, r := range out {
		assert.Equal(t, i, r.Index)
	}
	assert.Equal(t, []int{1}, out[0].Children)
	assert.Equal(t, []int{2}, out[1].Children)
	assert.Equal(t, 50.0, out[1].W)
}

func TestCompactEmpty(t *testing.T) {
	assert.Nil(t, Compact(nil, 4))
	assert.Nil(t, Compact([]Rect{{W: 1, H: 1}}, 4))
}
