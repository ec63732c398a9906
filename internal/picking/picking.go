// Package picking resolves screen points to rect indices through an
// offscreen raster where each rect is flat-filled with a color encoding its
// index.
package picking

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lumipallolabs/spacemap/internal/geom"
)

// None is returned where no rect was painted
const None = -1

// MaxIndex is the largest index a 24-bit color can carry; code 0 is reserved
const MaxIndex = 1<<24 - 2

// Encode maps a rect index to an opaque color carrying index+1 in its RGB bits
func Encode(index int) color.RGBA {
	code := index + 1
	return color.RGBA{
		R: uint8((code>>16)&0xff),
		G: uint8((code>>8)&0xff),
		B: uint8(code & 0xff),
		A: 0xff,
	}
}

// Decode reverses Encode. Transparent pixels and code 0 decode to None.
func Decode(c color.RGBA) int {
	if c.A == 0 {
		return None
	}
	code := int(c.R)<<16 | int(c.G)<<8 | int(c.B)
	return code - 1
}

// Buffer is the picking raster. Sizes passed in are logical units; the
// raster holds Scale device pixels per unit, the same as the visible surface.
type Buffer struct {
	img   *image.RGBA
	scale float64
}

// New creates a cleared buffer for a w x h logical surface
func New(w, h, scale float64) *Buffer {
	b := &Buffer{}
	b.Resize(w, h, scale)
	return b
}

// PixelSize returns the device pixel dimensions for a logical size
func PixelSize(w, h, scale float64) (int, int) {
	if !(scale > 0) {
		scale = 1
	}
	pw := int(math.Floor(w * scale))
	ph := int(math.Floor(h * scale))
	return max(pw, 1), max(ph, 1)
}

// Resize reallocates the raster, discarding its contents
func (b *Buffer) Resize(w, h, scale float64) {
	if !(scale > 0) {
		scale = 1
	}
	pw, ph := PixelSize(w, h, scale)
	b.img = image.NewRGBA(image.Rect(0, 0, pw, ph))
	b.scale = scale
}

// Scale returns device pixels per logical unit
func (b *Buffer) Scale() float64 {
	return b.scale
}

// Image exposes the raster, e.g. for dumping it as a PNG
func (b *Buffer) Image() *image.RGBA {
	return b.img
}

// Clear resets every pixel to "no rect"
func (b *Buffer) Clear() {
	draw.Draw(b.img, b.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Fill paints r's pixel bounds with its encoded index, without antialiasing
func (b *Buffer) Fill(r geom.Rect) {
	if r.Index < 0 || r.Index > MaxIndex {
		return
	}
	area := r.Bounds(b.scale).Intersect(b.img.Bounds())
	if area.Empty() {
		return
	}
	draw.Draw(b.img, area, image.NewUniform(Encode(r.Index)), image.Point{}, draw.Src)
}

// Rasterize clears the buffer and fills rects in sequence order, so nested
// rects overpaint their ancestors
func (b *Buffer) Rasterize(rects []geom.Rect) {
	b.Clear()
	for _, r := range rects {
		b.Fill(r)
	}
}

// IndexAt returns the index of the rect painted under the logical point
// (x, y), or None
func (b *Buffer) IndexAt(x, y float64) int {
	px := int(math.Floor(x * b.scale))
	py := int(math.Floor(y * b.scale))
	if !(image.Point{X: px, Y: py}).In(b.img.Bounds()) {
		return None
	}
	return Decode(b.img.RGBAAt(px, py))
}
