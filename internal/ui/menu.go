package ui

import "github.com/lumipallolabs/spacemap/internal/core"

// Menu geometry in logical pixels
const (
	MenuItemHeight = 20
	menuPadding    = 6
)

// MenuItem is a placed context menu entry
type MenuItem struct {
	Label      string
	X, Y, W, H float64
}

// Contains reports whether (x, y) is inside the item
func (it MenuItem) Contains(x, y float64) bool {
	return x >= it.X && x < it.X+it.W && y >= it.Y && y < it.Y+it.H
}

// MenuItems places the open menu's entries at its anchor, shifted left or up
// so they stay inside a w x h canvas
func MenuItems(m core.Menu, w, h float64) []MenuItem {
	labels := m.Items()
	if len(labels) == 0 {
		return nil
	}

	width := 0.0
	for _, l := range labels {
		width = max(width, float64(len(l)*CharWidth+2*menuPadding))
	}
	height := float64(len(labels) * MenuItemHeight)

	x, y := m.X, m.Y
	if x+width > w {
		x = w - width
	}
	if y+height > h {
		y = h - height
	}
	x, y = max(x, 0), max(y, 0)

	items := make([]MenuItem, len(labels))
	for i, l := range labels {
		items[i] = MenuItem{Label: l, X: x, Y: y + float64(i*MenuItemHeight), W: width, H: MenuItemHeight}
	}
	return items
}

// MenuHit returns the label of the item under (x, y)
func MenuHit(m core.Menu, w, h, x, y float64) (string, bool) {
	for _, it := range MenuItems(m, w, h) {
		if it.Contains(x, y) {
			return it.Label, true
		}
	}
	return "", false
}
