// Package compositor repaints a single rect on the visible surface without
// disturbing the descendants drawn on top of it.
package compositor

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"

	"github.com/lumipallolabs/spacemap/internal/geom"
	"github.com/lumipallolabs/spacemap/internal/render"
)

// Compositor performs partial repaints through the renderer's scratch surface
type Compositor struct {
	r *render.Renderer

	// silhouette holds the rect's own shape, holes its children's shapes
	silhouette *gg.Context
	holes      *gg.Context
	silImg     *image.RGBA
	holeImg    *image.RGBA
	stencil    *image.Alpha
}

// New creates a compositor drawing through r
func New(r *render.Renderer) *Compositor {
	return &Compositor{r: r}
}

// ensure keeps the stencil layers the same size as the renderer's surfaces
func (c *Compositor) ensure() {
	bounds := c.r.VisibleImage().Bounds()
	if c.silImg != nil && c.silImg.Bounds() == bounds {
		return
	}
	c.silImg = image.NewRGBA(bounds)
	c.holeImg = image.NewRGBA(bounds)
	c.silhouette = gg.NewContextForRGBA(c.silImg)
	c.holes = gg.NewContextForRGBA(c.holeImg)
	c.stencil = image.NewAlpha(bounds)
}

// Repaint redraws rects[idx] with the given selection state and returns the
// pixel area touched. Pixels covered by the rect's children are left as they
// are. An out of range index or an empty rect repaints nothing.
func (c *Compositor) Repaint(rects []geom.Rect, idx int, selected bool) image.Rectangle {
	if idx < 0 || idx >= len(rects) {
		return image.Rectangle{}
	}
	rect := rects[idx]
	_, _, scale := c.r.Size()

	c.ensure()
	dirty := rect.Bounds(scale).Intersect(c.silImg.Bounds())
	if dirty.Empty() {
		return image.Rectangle{}
	}

	// 1) full appearance of the rect on the scratch surface
	wipe(c.r.ScratchImage(), dirty)
	c.r.Render(render.Request{Target: render.Scratch, Rect: rect, Selected: selected})

	// 2) stencil: own silhouette minus every child's silhouette
	wipe(c.silImg, dirty)
	c.silhouette.SetColor(color.Black)
	c.r.Shape(c.silhouette, rect)
	c.silhouette.Fill()

	wipe(c.holeImg, dirty)
	c.holes.SetColor(color.Black)
	for _, ci := range rect.Children {
		if ci <= idx || ci >= len(rects) {
			continue
		}
		c.r.Shape(c.holes, rects[ci])
	}
	c.holes.Fill()

	punch(c.stencil, c.silImg, c.holeImg, dirty)

	// 3) blend the stenciled scratch pixels over the visible surface
	draw.DrawMask(c.r.VisibleImage(), dirty, c.r.ScratchImage(), dirty.Min, c.stencil, dirty.Min, draw.Over)
	return dirty
}

// Stencil exposes the last computed stencil, for inspection in tests
func (c *Compositor) Stencil() *image.Alpha {
	return c.stencil
}

func wipe(img *image.RGBA, r image.Rectangle) {
	draw.Draw(img, r, image.Transparent, image.Point{}, draw.Src)
}

// punch writes sil.alpha * (1 - hole.alpha) into dst over r
func punch(dst *image.Alpha, sil, hole *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s := uint32(sil.Pix[sil.PixOffset(x, y)+3])
			h := uint32(hole.Pix[hole.PixOffset(x, y)+3])
			dst.Pix[dst.PixOffset(x, y)] = uint8(s * (255 - h) / 255)
		}
	}
}
