// Package render draws rects onto the viewer's surfaces.
//
// Every draw goes through Render with a Request naming the target surface:
// the visible canvas, the scratch canvas used for partial repaints, or the
// picking buffer.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/lumipallolabs/spacemap/internal/geom"
	"github.com/lumipallolabs/spacemap/internal/label"
	"github.com/lumipallolabs/spacemap/internal/picking"
)

// Target selects the surface a Request draws on
type Target int

const (
	Visible Target = iota
	Scratch
	Picking
)

func (t Target) String() string {
	switch t {
	case Visible:
		return "visible"
	case Scratch:
		return "scratch"
	case Picking:
		return "picking"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// Request asks for one rect to be drawn on one surface
type Request struct {
	Target   Target
	Rect     geom.Rect
	Selected bool
}

// Renderer owns the visible, scratch and picking surfaces. All three share
// the same pixel size: the logical size times the device scale.
type Renderer struct {
	style Style
	w, h  float64
	scale float64

	visibleImg *image.RGBA
	scratchImg *image.RGBA
	visible    *gg.Context
	scratch    *gg.Context
	pick       *picking.Buffer
	text       *typeface
}

// New creates a renderer for a w x h logical surface
func New(w, h, scale float64, style Style) *Renderer {
	r := &Renderer{style: style}
	r.Resize(w, h, scale)
	return r
}

// Resize reallocates every surface. Contents are lost.
func (r *Renderer) Resize(w, h, scale float64) {
	if !(scale > 0) {
		scale = 1
	}
	pw, ph := picking.PixelSize(w, h, scale)
	r.w, r.h = w, h
	if r.text == nil || r.scale != scale {
		r.text = newTypeface(r.style.FontSize, scale)
	}
	r.scale = scale

	r.visibleImg = image.NewRGBA(image.Rect(0, 0, pw, ph))
	r.scratchImg = image.NewRGBA(image.Rect(0, 0, pw, ph))
	r.visible = gg.NewContextForRGBA(r.visibleImg)
	r.scratch = gg.NewContextForRGBA(r.scratchImg)
	r.pick = picking.New(w, h, scale)
}

// Size returns the logical size and device scale
func (r *Renderer) Size() (w, h, scale float64) {
	return r.w, r.h, r.scale
}

// Style returns the drawing style
func (r *Renderer) Style() Style {
	return r.style
}

// VisibleImage returns the visible surface
func (r *Renderer) VisibleImage() *image.RGBA {
	return r.visibleImg
}

// ScratchImage returns the scratch surface
func (r *Renderer) ScratchImage() *image.RGBA {
	return r.scratchImg
}

// PickingBuffer returns the picking surface
func (r *Renderer) PickingBuffer() *picking.Buffer {
	return r.pick
}

// Measurer returns the label measurer for the current font
func (r *Renderer) Measurer() label.Measurer {
	return r.text
}

// Metrics returns the line metrics for the current font
func (r *Renderer) Metrics() label.Metrics {
	return r.text.metrics
}

// Clear resets a surface: the visible one to the background color, the
// others to transparent
func (r *Renderer) Clear(t Target) {
	switch t {
	case Visible:
		r.visible.SetColor(r.style.Background)
		r.visible.Clear()
	case Scratch:
		r.scratch.SetColor(color.Transparent)
		r.scratch.Clear()
	case Picking:
		r.pick.Clear()
	}
}

// Render draws req.Rect on req.Target
func (r *Renderer) Render(req Request) {
	switch req.Target {
	case Visible:
		r.paint(r.visible, req.Rect, req.Selected)
	case Scratch:
		r.paint(r.scratch, req.Rect, req.Selected)
	case Picking:
		r.pick.Fill(req.Rect)
	}
}

// Shape adds the rounded outline of rect, in device pixels, to dc's path
func (r *Renderer) Shape(dc *gg.Context, rect geom.Rect) {
	b := rect.Bounds(r.scale)
	dc.DrawRoundedRectangle(float64(b.Min.X), float64(b.Min.Y),
		float64(b.Dx()), float64(b.Dy()), r.style.CornerRadius*r.scale)
}

// paint draws the fill, border and labels of rect
func (r *Renderer) paint(dc *gg.Context, rect geom.Rect, selected bool) {
	b := rect.Bounds(r.scale)
	if b.Empty() {
		return
	}
	st := r.style

	dc.SetColor(st.Fill(rect.Depth, rect.IsFreeSpace, selected))
	r.Shape(dc, rect)
	dc.Fill()

	if bw := st.BorderWidth * r.scale; bw > 0 {
		dc.SetColor(st.Border)
		dc.SetLineWidth(bw)
		dc.DrawRoundedRectangle(float64(b.Min.X)+bw/2, float64(b.Min.Y)+bw/2,
			float64(b.Dx())-bw, float64(b.Dy())-bw, st.CornerRadius*r.scale)
		dc.Stroke()
	}

	placed := r.Labels(rect)
	if len(placed) == 0 {
		return
	}
	dc.SetFontFace(r.text.face)
	dc.SetColor(st.TextColor(selected))
	for _, p := range placed {
		dc.DrawString(p.Text, p.X*r.scale, p.Y*r.scale)
	}
}

// Labels decides the text drawn inside rect, in logical coordinates
func (r *Renderer) Labels(rect geom.Rect) []label.Placed {
	st := r.style
	if !st.Labels || rect.W < st.MinLabelW || rect.H < st.MinLabelH {
		return nil
	}
	box := label.Box{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H}
	met := r.text.metrics

	switch {
	case rect.IsFreeSpace:
		return label.Center(r.text, []label.Line{
			{Text: "Free Space"},
			{Text: FormatSize(rect.Size)},
		}, met, box)

	case rect.IsFolder:
		if rect.W <= st.HeaderMinW || rect.H <= st.HeaderMinH {
			return nil
		}
		p, ok := label.Header(r.text, HeaderText(rect), met, box)
		if !ok {
			return nil
		}
		return []label.Placed{p}

	default:
		return label.Center(r.text, []label.Line{
			{Text: rect.Name, Ellipsize: true},
			{Text: FormatSize(rect.Size)},
			{Text: FormatDate(rect.ModTime)},
		}, met, box)
	}
}

// HeaderText returns a folder's header: its size, or for a volume root the
// used and total capacity
func HeaderText(rect geom.Rect) string {
	if !rect.HasParent() && rect.DiskTotal > 0 {
		used := max(0, rect.DiskTotal-rect.DiskFree)
		return fmt.Sprintf("%s (%s / %s)", rect.Name, FormatSize(used), FormatSize(rect.DiskTotal))
	}
	return fmt.Sprintf("%s (%s)", rect.Name, FormatSize(rect.Size))
}
