package erosion

import "terrasim/internal/core"

// Stretch linearly maps the buffer so its minimum lands on r.Lo and its
// maximum on r.Hi. A flat buffer collapses onto r.Lo.
func Stretch(cells []float32, r core.HeightRange) {
	if len(cells) == 0 {
		return
	}
	lo, hi := core.MinMax(cells)
	span := hi - lo
	if span <= 0 {
		for i := range cells {
			cells[i] = r.Lo
		}
		return
	}
	scale := (r.Hi - r.Lo) / span
	for i, v := range cells {
		switch {
		case v == hi:
			cells[i] = r.Hi
		case v == lo:
			cells[i] = r.Lo
		default:
			s := r.Lo + (v-lo)*scale
			if s > r.Hi {
				s = r.Hi
			}
			cells[i] = s
		}
	}
}

// Fit leaves the buffer untouched when every value already lies in r and
// otherwise stretches it into r.
func Fit(cells []float32, r core.HeightRange) {
	lo, hi := core.MinMax(cells)
	if r.Contains(lo) && r.Contains(hi) {
		return
	}
	Stretch(cells, r)
}
