// Package label fits text into boxes of arbitrary, often tiny, size.
//
// Everything here is a pure function of the text, the font metrics and the
// box. Nothing panics on bad input; the worst case is an empty result.
package label

import (
	"math"
	"strings"
)

// Ellipsis is appended to text cut short
const Ellipsis = "…"

// Measurer reports the rendered width of a string under the active font
type Measurer interface {
	Measure(s string) float64
}

// MeasureFunc adapts a function to Measurer
type MeasureFunc func(s string) float64

// Measure implements Measurer
func (f MeasureFunc) Measure(s string) float64 {
	return f(s)
}

// Metrics describes the vertical extent of one line of text
type Metrics struct {
	Ascent     float64 // baseline offset from the top of a line
	TextHeight float64 // ascent + descent
	LineHeight float64 // TextHeight plus inter-line gap
}

// NewMetrics builds Metrics with the standard two pixel line gap
func NewMetrics(ascent, descent float64) Metrics {
	th := ascent + descent
	return Metrics{Ascent: ascent, TextHeight: th, LineHeight: th + 2}
}

func fits(m Measurer, s string, maxW float64) bool {
	return m.Measure(s) <= maxW
}

// Ellipsize returns text unchanged when it fits in maxW, otherwise the longest
// rune prefix that still fits with Ellipsis appended. Returns "" when not even
// one rune plus the ellipsis fits.
func Ellipsize(m Measurer, text string, maxW float64) string {
	if text == "" || m == nil || !(maxW > 0) {
		return ""
	}
	if fits(m, text, maxW) {
		return text
	}
	if !fits(m, Ellipsis, maxW) {
		return ""
	}

	runes := []rune(text)
	// lo ends as the first prefix length that no longer fits
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi) / 2
		if fits(m, string(runes[:mid])+Ellipsis, maxW) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	cut := lo - 1
	if cut <= 0 {
		return ""
	}
	prefix := strings.TrimRightFunc(string(runes[:cut]), isSpace)
	if prefix == "" {
		return ""
	}
	return prefix + Ellipsis
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// Line is one candidate line of a multi-line label
type Line struct {
	Text string
	// Ellipsize allows the line to be shortened; otherwise it is drawn
	// verbatim or dropped
	Ellipsize bool
}

// MaxLines returns how many lines of met fit in a height of maxH.
// The last line needs only TextHeight, not a full LineHeight.
func MaxLines(met Metrics, maxH float64) int {
	if !(met.LineHeight > 0) || !(maxH > 0) {
		return 0
	}
	n := math.Floor((maxH + (met.LineHeight - met.TextHeight)) / met.LineHeight)
	if n < 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// FitLines picks the lines to draw in a maxW x maxH box. Lines are taken in
// order until the box height is used up; an ellipsizable line is shortened,
// a verbatim line that does not fit is skipped, and empty results are dropped.
func FitLines(m Measurer, lines []Line, met Metrics, maxW, maxH float64) []string {
	if m == nil || len(lines) == 0 || !(maxW > 0) || !(maxH > 0) {
		return nil
	}
	limit := MaxLines(met, maxH)
	if limit == 0 {
		return nil
	}

	out := make([]string, 0, min(limit, len(lines)))
	for _, l := range lines {
		if len(out) >= limit {
			break
		}
		if l.Ellipsize {
			if t := Ellipsize(m, l.Text, maxW); t != "" {
				out = append(out, t)
			}
			continue
		}
		if l.Text != "" && fits(m, l.Text, maxW) {
			out = append(out, l.Text)
		}
	}
	return out
}
