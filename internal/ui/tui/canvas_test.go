package tui

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanvasSize(t *testing.T) {
	w, h := CanvasSize(80, 20)
	assert.Equal(t, 80.0, w)
	assert.Equal(t, 40.0, h)

	w, h = CanvasSize(0, -3)
	assert.Equal(t, 1.0, w)
	assert.Equal(t, 2.0, h)
}

func TestCellToPoint(t *testing.T) {
	x, y := CellToPoint(3, 2, false)
	assert.Equal(t, 3.5, x)
	assert.Equal(t, 4.5, y)

	_, y = CellToPoint(3, 2, true)
	assert.Equal(t, 5.5, y)
}

func TestHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for x := 0; x < 3; x++ {
		img.SetRGBA(x, 0, color.RGBA{255, 0, 0, 255})
		img.SetRGBA(x, 1, color.RGBA{0, 0, 255, 255})
		img.SetRGBA(x, 2, color.RGBA{0, 255, 0, 255})
	}
	img.SetRGBA(1, 0, color.RGBA{255, 255, 255, 255})

	out := HalfBlocks(img)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2, "two pixel rows per line, odd row padded")
	for _, l := range lines {
		assert.Equal(t, 3, strings.Count(l, halfBlock))
	}
}

func TestHalfBlocksEmpty(t *testing.T) {
	assert.Empty(t, HalfBlocks(image.NewRGBA(image.Rect(0, 0, 0, 0))))
}

func TestStyleIsBare(t *testing.T) {
	st := Style()
	assert.False(t, st.Labels)
	assert.Zero(t, st.BorderWidth)
	assert.Zero(t, st.CornerRadius)
	assert.NotEmpty(t, st.Palette)
}
