package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/spacemap/internal/geom"
)

func TestEncodeDecode(t *testing.T) {
	for _, i := range []int{0, 1, 2, 254, 255, 256, 65535, 65536, 1 << 20, MaxIndex} {
		assert.Equal(t, i, Decode(Encode(i)), "index %d", i)
	}
}

func TestEncodeInjective(t *testing.T) {
	seen := make(map[[3]uint8]int, 70000)
	for i := 0; i < 70000; i++ {
		c := Encode(i)
		key := [3]uint8{c.R, c.G, c.B}
		prev, dup := seen[key]
		require.False(t, dup, "indices %d and %d share a color", prev, i)
		seen[key] = i
		require.NotEqual(t, [3]uint8{}, key, "black is reserved for background")
	}
}

func TestDecodeBackground(t *testing.T) {
	b := New(10, 10, 1)
	assert.Equal(t, None, b.IndexAt(5, 5))
	assert.Equal(t, None, b.IndexAt(-1, 5))
	assert.Equal(t, None, b.IndexAt(5, 100))
}

func nested() []geom.Rect {
	return []geom.Rect{
		{Index: 0, X: 0, Y: 0, W: 100, H: 100, Children: []int{1, 2}},
		{Index: 1, X: 5, Y: 15, W: 40, H: 80, Children: []int{3}},
		{Index: 2, X: 45, Y: 15, W: 50, H: 80},
		{Index: 3, X: 10, Y: 30, W: 30, H: 30},
	}
}

func TestRasterizeNested(t *testing.T) {
	b := New(100, 100, 1)
	b.Rasterize(nested())

	assert.Equal(t, 0, b.IndexAt(1, 1))
	assert.Equal(t, 1, b.IndexAt(6, 90))
	assert.Equal(t, 2, b.IndexAt(60, 50))
	assert.Equal(t, 3, b.IndexAt(20, 40), "deeper rects overpaint their parents")
}

func TestRasterizeScaled(t *testing.T) {
	b := New(100, 100, 2)
	require.Equal(t, 200, b.Image().Bounds().Dx())
	b.Rasterize(nested())

	// logical coordinates resolve the same at any scale
	assert.Equal(t, 3, b.IndexAt(20, 40))
	assert.Equal(t, 2, b.IndexAt(45.2, 50))
	assert.Equal(t, 1, b.IndexAt(44.8, 50))
}

func TestRasterizeClears(t *testing.T) {
	b := New(100, 100, 1)
	b.Rasterize(nested())
	b.Rasterize([]geom.Rect{{Index: 0, X: 0, Y: 0, W: 10, H: 10}})
	assert.Equal(t, None, b.IndexAt(20, 40))
	assert.Equal(t, 0, b.IndexAt(5, 5))
}

func TestFillClipsAndSkipsInvalid(t *testing.T) {
	b := New(10, 10, 1)
	b.Fill(geom.Rect{Index: 4, X: -5, Y: -5, W: 100, H: 100})
	assert.Equal(t, 4, b.IndexAt(9, 9))

	b.Fill(geom.Rect{Index: -1, X: 0, Y: 0, W: 5, H: 5})
	assert.Equal(t, 4, b.IndexAt(1, 1))
}
