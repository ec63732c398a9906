package treemap

import (
	"math"

	"github.com/lumipallolabs/spacemap/internal/model"
)

// squarify places kids, whose areas sum to cw*ch, into (cx, cy, cw, ch)
// one row at a time and records emitted children on out[parent].
func (l *layouter) squarify(parent, parentID int, kids []*model.Node, areas []float64, cx, cy, cw, ch float64, depth int) {
	i := 0
	for i < len(kids) && cw > 0 && ch > 0 {
		// Rows run along the longer side; the shorter side is consumed
		length := math.Max(cw, ch)

		start := i
		var sum, lo, hi float64
		for i < len(kids) {
			a := areas[i]
			nlo, nhi := a, a
			if sum > 0 {
				nlo, nhi = math.Min(lo, a), math.Max(hi, a)
				if worst(sum+a, nlo, nhi, length) > worst(sum, lo, hi, length) {
					break
				}
			}
			sum, lo, hi = sum+a, nlo, nhi
			i++
		}

		thickness := sum / length
		if thickness > math.Min(cw, ch) {
			// accumulated error on the last row
			thickness = math.Min(cw, ch)
		}
		horizontal := cw >= ch

		// A row too thin to show anything is left as a blank band
		if math.Floor(thickness) >= l.minSide {
			l.placeRow(parent, parentID, kids[start:i], areas[start:i], sum, cx, cy, cw, ch, thickness, horizontal, depth)
		}

		if horizontal {
			cy += thickness
			ch = math.Max(0, ch-thickness)
		} else {
			cx += thickness
			cw = math.Max(0, cw-thickness)
		}
		if cw < l.minSide || ch < l.minSide {
			return
		}
	}
}

// placeRow lays one closed row out along its length and recurses into each child
func (l *layouter) placeRow(parent, parentID int, kids []*model.Node, areas []float64, sum, cx, cy, cw, ch, thickness float64, horizontal bool, depth int) {
	length := cw
	if !horizontal {
		length = ch
	}

	offset := 0.0
	for k, n := range kids {
		breadth := math.Max(0, areas[k]/sum*length)
		if offset+breadth > length {
			breadth = math.Max(0, length-offset)
		}

		var bx, by, bw, bh float64
		if horizontal {
			bx, by, bw, bh = cx+offset, cy, breadth, thickness
		} else {
			bx, by, bw, bh = cx, cy+offset, thickness, breadth
		}
		offset += breadth

		if child := l.emit(n, parentID, bx, by, bw, bh, depth); child >= 0 {
			l.out[parent].Children = append(l.out[parent].Children, child)
		}
	}
}

// worst returns the largest aspect ratio in a row of total area s whose
// smallest and largest items are lo and hi, laid along a side of length L
func worst(s, lo, hi, length float64) float64 {
	t := s / length
	if t <= 0 || lo <= 0 {
		return math.Inf(1)
	}
	t2 := t * t
	return math.Max(hi/t2, t2/lo)
}
