package ui

import (
	"math"
	"time"
)

// DoubleClickWindow is the longest gap between the presses of a double click
const DoubleClickWindow = 400 * time.Millisecond

// Clicks detects double clicks in a stream of presses. The zero value uses
// DoubleClickWindow and requires both presses on the same point.
type Clicks struct {
	Window time.Duration
	// Slop is how far apart the two presses may be
	Slop float64

	armed bool
	at    time.Time
	x, y  float64
}

// Press records a press and reports whether it completes a double click.
// A completed double click disarms, so a third press starts over.
func (c *Clicks) Press(x, y float64, at time.Time) bool {
	window := c.Window
	if window <= 0 {
		window = DoubleClickWindow
	}
	double := c.armed &&
		at.Sub(c.at) <= window &&
		math.Abs(x-c.x) <= c.Slop && math.Abs(y-c.y) <= c.Slop

	if double {
		c.armed = false
		return true
	}
	c.armed, c.at, c.x, c.y = true, at, x, y
	return false
}

// Reset forgets the last press
func (c *Clicks) Reset() {
	c.armed = false
}
