package label

// Placed is a line of text at a drawing position. Y is the baseline.
type Placed struct {
	Text string
	X, Y float64
}

// Box is the area a label is fitted into
type Box struct {
	X, Y, W, H float64
}

// Inset is the margin kept between centered text and the box edge, per axis
const Inset = 2.0

// Center fits lines into box and centers the block: vertically as a whole,
// horizontally line by line
func Center(m Measurer, lines []Line, met Metrics, box Box) []Placed {
	text := FitLines(m, lines, met, box.W-Inset, box.H-Inset)
	if len(text) == 0 {
		return nil
	}

	blockH := float64(len(text))*met.LineHeight - (met.LineHeight - met.TextHeight)
	top := box.Y + (box.H-blockH)/2

	out := make([]Placed, 0, len(text))
	for i, t := range text {
		w := m.Measure(t)
		out = append(out, Placed{
			Text: t,
			X:    box.X + (box.W-w)/2,
			Y:    top + met.Ascent + float64(i)*met.LineHeight,
		})
	}
	return out
}

// HeaderOffset is the distance of a header from the box's top-left corner
const HeaderOffset = 4.0

// Header places a single left-aligned line at the top-left of box, ellipsized
// to the box width. ok is false when nothing fits.
func Header(m Measurer, text string, met Metrics, box Box) (p Placed, ok bool) {
	t := Ellipsize(m, text, box.W-HeaderOffset)
	if t == "" || box.H < HeaderOffset+met.TextHeight {
		return Placed{}, false
	}
	return Placed{Text: t, X: box.X + HeaderOffset, Y: box.Y + HeaderOffset + met.Ascent}, true
}
