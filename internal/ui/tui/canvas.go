package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/spacemap/internal/render"
)

// halfBlock draws the upper pixel as foreground and the lower as background
const halfBlock = "▀"

// LayoutScale shrinks padding and headers so nesting stays visible at one
// pixel per half cell
const LayoutScale = 0.4

// Style returns the drawing style for terminal cells: no text, no borders
// and square corners, since every pixel is half a character
func Style() render.Style {
	st := render.DefaultStyle()
	st.Labels = false
	st.BorderWidth = 0
	st.CornerRadius = 0
	return st
}

// CanvasSize returns the logical canvas size for a cols x rows cell area
func CanvasSize(cols, rows int) (w, h float64) {
	return float64(max(cols, 1)), float64(max(rows, 1) * 2)
}

// CellToPoint maps a cell to the logical point at the centre of its upper
// or lower half
func CellToPoint(col, row int, lower bool) (x, y float64) {
	y = float64(row*2) + 0.5
	if lower {
		y++
	}
	return float64(col) + 0.5, y
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// HalfBlocks renders img as rows of half-block cells, two pixel rows per
// line. Runs of identical cells share one style.
func HalfBlocks(img *image.RGBA) string {
	b := img.Bounds()
	var sb strings.Builder

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		runStart := b.Min.X
		var top, bottom color.RGBA
		for x := b.Min.X; x <= b.Max.X; x++ {
			var t, bo color.RGBA
			if x < b.Max.X {
				t = img.RGBAAt(x, y)
				if y+1 < b.Max.Y {
					bo = img.RGBAAt(x, y+1)
				} else {
					bo = t
				}
			}
			if x > runStart && (x == b.Max.X || t != top || bo != bottom) {
				style := lipgloss.NewStyle().Foreground(hexColor(top)).Background(hexColor(bottom))
				sb.WriteString(style.Render(strings.Repeat(halfBlock, x-runStart)))
				runStart = x
			}
			top, bottom = t, bo
		}
	}
	return sb.String()
}
