package compositor

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/spacemap/internal/geom"
	"github.com/lumipallolabs/spacemap/internal/render"
)

func scene() []geom.Rect {
	return []geom.Rect{
		{Index: 0, X: 0, Y: 0, W: 100, H: 100, Name: "root", IsFolder: true, ParentID: geom.NoParent, Children: []int{1}},
		{Index: 1, X: 20, Y: 30, W: 38, H: 38, Name: "child", Depth: 1, Size: 10},
	}
}

func drawAll(r *render.Renderer, rects []geom.Rect) {
	r.Clear(render.Visible)
	for _, rect := range rects {
		r.Render(render.Request{Target: render.Visible, Rect: rect})
	}
}

func TestRepaintKeepsChildren(t *testing.T) {
	style := render.DefaultStyle()
	r := render.New(120, 120, 1, style)
	rects := scene()
	drawAll(r, rects)

	img := r.VisibleImage()
	require.Equal(t, render.Palette[0], img.RGBAAt(10, 90))
	require.Equal(t, render.Palette[1], img.RGBAAt(39, 49))

	c := New(r)
	dirty := c.Repaint(rects, 0, true)
	assert.Equal(t, image.Rect(0, 0, 100, 100), dirty)

	assert.Equal(t, style.Selected, img.RGBAAt(10, 90), "parent area is repainted")
	assert.Equal(t, render.Palette[1], img.RGBAAt(39, 49), "child area is untouched")
	assert.Equal(t, style.Background, img.RGBAAt(110, 110), "outside the rect is untouched")

	c.Repaint(rects, 0, false)
	assert.Equal(t, render.Palette[0], img.RGBAAt(10, 90))
	assert.Equal(t, render.Palette[1], img.RGBAAt(39, 49))
}

func TestStencil(t *testing.T) {
	r := render.New(120, 120, 1, render.DefaultStyle())
	rects := scene()
	drawAll(r, rects)

	c := New(r)
	c.Repaint(rects, 0, true)

	st := c.Stencil()
	assert.Equal(t, uint8(255), st.AlphaAt(10, 90).A)
	assert.Equal(t, uint8(0), st.AlphaAt(39, 49).A)
}

func TestRepaintLeaf(t *testing.T) {
	style := render.DefaultStyle()
	r := render.New(120, 120, 2, style)
	rects := scene()
	drawAll(r, rects)

	c := New(r)
	dirty := c.Repaint(rects, 1, true)
	assert.Equal(t, image.Rect(40, 60, 116, 136), dirty)

	img := r.VisibleImage()
	assert.Equal(t, style.Selected, img.RGBAAt(78, 98))
	assert.Equal(t, render.Palette[0], img.RGBAAt(20, 180))
}

func TestRepaintInvalid(t *testing.T) {
	r := render.New(50, 50, 1, render.DefaultStyle())
	c := New(r)
	assert.True(t, c.Repaint(scene(), 5, true).Empty())
	assert.True(t, c.Repaint(scene(), -1, true).Empty())
	assert.True(t, c.Repaint([]geom.Rect{{Index: 0, X: 80, Y: 80, W: 10, H: 10}}, 0, true).Empty())
}

func TestRepaintAfterResize(t *testing.T) {
	r := render.New(50, 50, 1, render.DefaultStyle())
	c := New(r)
	c.Repaint(scene(), 1, true)

	r.Resize(200, 200, 1)
	dirty := c.Repaint(scene(), 0, true)
	assert.Equal(t, image.Rect(0, 0, 100, 100), dirty)
	assert.Equal(t, r.VisibleImage().Bounds(), c.Stencil().Bounds())
}
