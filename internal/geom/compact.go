package geom

// Compact drops degenerate rects together with their descendants and
// renumbers the survivors so Index, Children and sequence position agree
// again. The input must be in pre-order. A nil or empty input yields nil.
func Compact(rects []Rect, minSide float64) []Rect {
	if len(rects) == 0 {
		return nil
	}

	// Mark dropped rects. Pre-order guarantees parents come first, so a
	// single forward pass can propagate drops to descendants.
	dropped := make([]bool, len(rects))
	for i := range rects {
		if dropped[i] {
			continue
		}
		if rects[i].Degenerate(minSide) {
			markSubtree(rects, i, dropped)
		}
	}

	remap := make([]int, len(rects))
	out := make([]Rect, 0, len(rects))
	for i, r := range rects {
		if dropped[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(out)
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}

	for i := range out {
		out[i].Index = i
		if len(out[i].Children) == 0 {
			continue
		}
		kids := make([]int, 0, len(out[i].Children))
		for _, c := range out[i].Children {
			if c > 0 && c < len(remap) && remap[c] > i {
				kids = append(kids, remap[c])
			}
		}
		out[i].Children = kids
	}
	return out
}

func markSubtree(rects []Rect, i int, dropped []bool) {
	dropped[i] = true
	for _, c := range rects[i].Children {
		// children always follow their parent; anything else is malformed
		if c > i && c < len(rects) && !dropped[c] {
			markSubtree(rects, c, dropped)
		}
	}
}
