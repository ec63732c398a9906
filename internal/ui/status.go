package ui

import (
	"fmt"
	"image"
	"strings"

	"github.com/lumipallolabs/spacemap/internal/core"
	"github.com/lumipallolabs/spacemap/internal/render"
)

// StatusLine describes the session in one line of text. notice, when set,
// takes the place of the session's last error.
func StatusLine(st core.Status, notice error) string {
	err := notice
	if err == nil {
		err = st.LastError
	}
	switch {
	case st.Busy:
		return st.Phase.String() + "..."
	case err != nil:
		return "Error: " + err.Error()
	case st.Selection != nil:
		sel := st.Selection
		parts := []string{sel.Name, render.FormatSize(sel.Size)}
		if sel.Mime != "" {
			parts = append(parts, sel.Mime)
		}
		if sel.Path != "" {
			parts = append(parts, sel.Path)
		}
		return strings.Join(parts, "  |  ")
	case st.Loaded:
		return fmt.Sprintf("%s  |  %d files, %d folders", st.FocusPath, st.Tree.FileCount, st.Tree.DirCount)
	default:
		return "No tree loaded"
	}
}

// PackedPixels copies the rows of r out of img into a tightly packed
// buffer, for uploading a dirty region to a texture
func PackedPixels(img *image.RGBA, r image.Rectangle) []byte {
	r = r.Intersect(img.Bounds())
	rowLen := r.Dx() * 4
	buf := make([]byte, rowLen*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		copy(buf[(y-r.Min.Y)*rowLen:], img.Pix[off:off+rowLen])
	}
	return buf
}
