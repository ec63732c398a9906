package geom

import (
	"image"
	"math"
	"time"
)

// NoParent marks a rect whose node has no parent in the loaded tree
const NoParent = -1

// Rect is one laid-out node in screen coordinates.
// Rects form a flat pre-order sequence; Children holds indices into that
// same sequence, never node ids.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`

	Index    int   `json:"index"`
	NodeID   int   `json:"node_id"`
	ParentID int   `json:"parent_id"`
	Depth    int   `json:"depth"`
	Children []int `json:"children,omitempty"`

	// Display attributes copied from the node so hosts can draw without
	// going back to the provider.
	Name        string    `json:"name"`
	FullPath    string    `json:"full_path,omitempty"`
	Size        int64     `json:"size"`
	IsFolder    bool      `json:"is_folder"`
	IsFreeSpace bool      `json:"is_free_space"`
	DiskTotal   int64     `json:"disk_total,omitempty"`
	DiskFree    int64     `json:"disk_free,omitempty"`
	ModTime     time.Time `json:"mtime,omitempty"`
}

// HasParent reports whether the rect's node has a parent node
func (r Rect) HasParent() bool {
	return r.ParentID != NoParent
}

// Area returns w*h
func (r Rect) Area() float64 {
	return r.W * r.H
}

// Contains reports whether the point lies inside the rect
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// ContainsRect reports whether o lies inside r, allowing tol of slack on each edge
func (r Rect) ContainsRect(o Rect, tol float64) bool {
	return o.X >= r.X-tol && o.Y >= r.Y-tol &&
		o.X+o.W <= r.X+r.W+tol && o.Y+o.H <= r.Y+r.H+tol
}

// Bounds returns the pixel rectangle covered by r at the given scale.
// Edges are rounded independently so adjacent rects share an edge exactly.
func (r Rect) Bounds(scale float64) image.Rectangle {
	if scale <= 0 {
		scale = 1
	}
	return image.Rect(
		round(r.X*scale),
		round(r.Y*scale),
		round((r.X+r.W)*scale),
		round((r.Y+r.H)*scale),
	)
}

func round(v float64) int {
	return int(math.Round(v))
}

// Degenerate reports whether r, once rounded to whole pixels, is narrower
// than minSide on either axis
func (r Rect) Degenerate(minSide float64) bool {
	if !(r.W > 0 && r.H > 0) {
		return true
	}
	rw := math.Round(r.X+r.W) - math.Round(r.X)
	rh := math.Round(r.Y+r.H) - math.Round(r.Y)
	return rw < minSide || rh < minSide
}
