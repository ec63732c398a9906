// Package treemap lays out a weighted node tree as nested squarified rectangles.
package treemap

import (
	"math"

	"github.com/lumipallolabs/spacemap/internal/geom"
	"github.com/lumipallolabs/spacemap/internal/model"
)

// Layout defaults, in layout units before Options.Scale is applied
const (
	DefaultPadding = 5.0  // inner padding inside folder rects
	DefaultHeader  = 10.0 // strip reserved for the folder's own label
	DefaultMinSide = 4.0  // rects narrower than this are not emitted
)

// Options configures an Engine
type Options struct {
	Padding float64
	Header  float64
	MinSide float64

	// Scale multiplies Padding, Header and MinSide
	Scale float64

	// HideFreeSpace leaves free space children out of the layout entirely
	HideFreeSpace bool
}

// DefaultOptions returns the standard layout constants at scale 1
func DefaultOptions() Options {
	return Options{
		Padding: DefaultPadding,
		Header:  DefaultHeader,
		MinSide: DefaultMinSide,
		Scale:   1,
	}
}

// Engine computes squarified treemap layouts
type Engine struct {
	pad, header, minSide float64
	hideFree             bool
}

// New creates an engine from opts
func New(opts Options) *Engine {
	s := opts.Scale
	if s <= 0 {
		s = 1
	}
	return &Engine{
		pad:      math.Max(0, opts.Padding*s),
		header:   math.Max(0, opts.Header*s),
		minSide:  math.Max(0, opts.MinSide*s),
		hideFree: opts.HideFreeSpace,
	}
}

// MinSide returns the scaled visibility threshold
func (e *Engine) MinSide() float64 {
	return e.minSide
}

// Layout lays out root into the box (x, y, w, h).
// The result is a pre-order sequence: index 0 is root, every rect's Children
// are indices greater than its own, and parentID is recorded as the root's
// ParentID. Returns nil when the box is too small to show root.
func (e *Engine) Layout(root *model.Node, parentID int, x, y, w, h float64) []geom.Rect {
	if root == nil {
		return nil
	}
	l := &layouter{Engine: e, out: make([]geom.Rect, 0, 256)}
	if l.emit(root, parentID, x, y, w, h, 0) < 0 {
		return nil
	}
	return l.out
}

// layouter holds the output of a single Layout call
type layouter struct {
	*Engine
	out []geom.Rect
}

// visible reports whether a box survives pixel rounding at the threshold
func (l *layouter) visible(x, y, w, h float64) bool {
	return !geom.Rect{X: x, Y: y, W: w, H: h}.Degenerate(l.minSide)
}

// emit appends the rect for n and lays out its children. Returns the index
// of n's rect, or -1 when the box is too small and nothing was emitted.
func (l *layouter) emit(n *model.Node, parentID int, x, y, w, h float64, depth int) int {
	if !l.visible(x, y, w, h) {
		return -1
	}

	idx := len(l.out)
	l.out = append(l.out, geom.Rect{
		X: x, Y: y, W: w, H: h,
		Index:       idx,
		NodeID:      n.ID,
		ParentID:    parentID,
		Depth:       depth,
		Name:        n.Name,
		FullPath:    n.Path,
		Size:        n.Size,
		IsFolder:    n.IsFolder,
		IsFreeSpace: n.IsFreeSpace,
		DiskTotal:   n.DiskTotal,
		DiskFree:    n.DiskFree,
		ModTime:     n.ModTime,
	})

	if n.IsFolder && len(n.Children) > 0 {
		l.fill(idx, n, x, y, w, h, depth)
	}
	return idx
}

// fill partitions the content area of the folder at out[idx] among its children
func (l *layouter) fill(idx int, n *model.Node, x, y, w, h float64, depth int) {
	ax := x + l.pad
	ay := y + l.pad + l.header
	aw := w - 2*l.pad
	ah := h - 2*l.pad - l.header
	if aw < l.minSide || ah < l.minSide {
		return
	}

	kids := make([]*model.Node, 0, len(n.Children))
	var total float64
	for _, c := range n.Children {
		if c.Size <= 0 || (l.hideFree && c.IsFreeSpace) {
			continue
		}
		kids = append(kids, c)
		total += float64(c.Size)
	}
	if len(kids) == 0 {
		return
	}

	scale := aw * ah / total
	areas := make([]float64, len(kids))
	for i, c := range kids {
		areas[i] = float64(c.Size) * scale
	}

	l.squarify(idx, n.ID, kids, areas, ax, ay, aw, ah, depth+1)
}
