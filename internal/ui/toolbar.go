package ui

import "github.com/lumipallolabs/spacemap/internal/nav"

// Action is what a toolbar button does
type Action int

const (
	ActionRoot Action = iota
	ActionParent
	ActionBack
	ActionForward
	ActionFreeSpace
)

// Window chrome in logical pixels. CharWidth matches the debug font.
const (
	ToolbarHeight = 24
	StatusHeight  = 18
	CharWidth     = 6
	buttonPadding = 8
	buttonGap     = 4
)

// WindowCanvas returns the logical canvas size inside a w x h window with
// a toolbar above and a status line below
func WindowCanvas(w, h int) (float64, float64) {
	return float64(max(w, 1)), float64(max(h-ToolbarHeight-StatusHeight, 1))
}

// Button is one toolbar entry
type Button struct {
	Action  Action
	Label   string
	X, Y    float64
	W, H    float64
	Enabled bool
	// Active marks a toggle that is on
	Active bool
}

// Contains reports whether (x, y) is inside the button
func (b Button) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Toolbar is the row of navigation buttons above the canvas
type Toolbar struct {
	Buttons []Button
}

// NewToolbar lays out the buttons left to right, all disabled
func NewToolbar() *Toolbar {
	labels := []struct {
		action Action
		label  string
	}{
		{ActionRoot, "Root"},
		{ActionParent, "Up"},
		{ActionBack, "Back"},
		{ActionForward, "Forward"},
		{ActionFreeSpace, "Free space"},
	}

	t := &Toolbar{}
	x := float64(buttonGap)
	for _, l := range labels {
		w := float64(len(l.label)*CharWidth + 2*buttonPadding)
		t.Buttons = append(t.Buttons, Button{
			Action: l.action,
			Label:  l.label,
			X:      x,
			Y:      2,
			W:      w,
			H:      ToolbarHeight - 4,
		})
		x += w + buttonGap
	}
	return t
}

// Update enables buttons from the navigation controls. The free space
// toggle is always enabled.
func (t *Toolbar) Update(c nav.Controls, showFreeSpace bool) {
	for i := range t.Buttons {
		b := &t.Buttons[i]
		switch b.Action {
		case ActionRoot:
			b.Enabled = c.Root
		case ActionParent:
			b.Enabled = c.Parent
		case ActionBack:
			b.Enabled = c.Back
		case ActionForward:
			b.Enabled = c.Forward
		case ActionFreeSpace:
			b.Enabled = true
			b.Active = showFreeSpace
		}
	}
}

// Hit returns the enabled button under (x, y)
func (t *Toolbar) Hit(x, y float64) (Action, bool) {
	for _, b := range t.Buttons {
		if b.Enabled && b.Contains(x, y) {
			return b.Action, true
		}
	}
	return 0, false
}
