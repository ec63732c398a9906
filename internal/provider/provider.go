// Package provider supplies trees and layouts to the viewer.
//
// A Provider either scans and lays out in process (Local) or forwards the
// same calls to a spacemap server over HTTP (Remote). Both return the flat
// rect sequence the rest of the viewer consumes.
package provider

import (
	"context"
	"errors"

	"github.com/lumipallolabs/spacemap/internal/geom"
)

var (
	// ErrNoRoot is returned when a scan produced no usable root
	ErrNoRoot = errors.New("scan produced no root")
	// ErrUnknownNode is returned for node ids the loaded tree does not have
	ErrUnknownNode = errors.New("unknown node")
	// ErrBadRequest is returned for malformed layout requests
	ErrBadRequest = errors.New("bad request")
)

// TreeInfo describes a freshly loaded tree
type TreeInfo struct {
	RootID    int    `json:"root_id"`
	Path      string `json:"path"`
	FileCount int    `json:"file_count"`
	DirCount  int    `json:"dir_count"`
}

// LayoutRequest asks for the rects of one node laid out into a w x h box
type LayoutRequest struct {
	NodeID int     `json:"node_id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Scale multiplies padding, header and the visibility threshold
	Scale         float64 `json:"scale,omitempty"`
	HideFreeSpace bool    `json:"hide_free_space,omitempty"`
}

// Validate checks the request dimensions
func (r LayoutRequest) Validate() error {
	if r.NodeID < 0 {
		return ErrUnknownNode
	}
	if !(r.Width >= 0) || !(r.Height >= 0) || r.Scale < 0 {
		return ErrBadRequest
	}
	return nil
}

// Provider is the tree and layout source behind a viewer session
type Provider interface {
	// Scan loads the tree under path, replacing any previous tree
	Scan(ctx context.Context, path string) (TreeInfo, error)
	// Layout returns the rect sequence for a node, index 0 being the node.
	// A nil result means there is nothing visible to draw.
	Layout(ctx context.Context, req LayoutRequest) ([]geom.Rect, error)
	// Reveal opens path in the platform file manager
	Reveal(ctx context.Context, path string) error
	// Mime detects the content type of a file in the loaded tree
	Mime(ctx context.Context, path string) (string, error)
}
