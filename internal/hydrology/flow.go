package hydrology

import (
	"cmp"
	"math"
	"slices"
)

// Sink marks a cell with no outgoing flow edge.
const Sink uint8 = 255

// D8 offsets indexed by direction code: E, NE, N, NW, W, SW, S, SE.
var (
	dx = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	dy = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

// dist8 is the centre-to-centre distance for each direction code.
var dist8 = [8]float32{1, math.Sqrt2, 1, math.Sqrt2, 1, math.Sqrt2, 1, math.Sqrt2}

// FlowField is the D8 routing of a height field.
type FlowField struct {
	W, H int
	// Dir holds a direction code per cell, or Sink.
	Dir []uint8
	// Accum holds the upstream drainage area per cell, counting the cell itself.
	Accum []float32
}

// Downstream returns the index the cell drains into, or -1 for a sink.
func (f *FlowField) Downstream(i int) int {
	d := f.Dir[i]
	if d == Sink {
		return -1
	}
	x := i%f.W + dx[d]
	y := i/f.W + dy[d]
	return y*f.W + x
}

// Sinks returns the indices of all sink cells in row-major order.
func (f *FlowField) Sinks() []int {
	var out []int
	for i, d := range f.Dir {
		if d == Sink {
			out = append(out, i)
		}
	}
	return out
}

// ComputeFlow routes every cell of the row-major w×h height buffer to one of
// its eight neighbours and accumulates unit rainfall downstream.
//
// Cells are visited from highest to lowest, ties broken by index. A cell at or
// below p.SeaLevel is a sink. Otherwise it drains to the neighbour with the
// largest drop, first in code order on ties. A cell with no lower neighbour
// drains to the first equal-height neighbour that is visited after it, which
// walks water across flats; a cell with neither is a pit and becomes a sink.
// Every edge therefore points forward in visiting order, so the routing is a
// forest and each cell's accumulation is complete before it is passed on.
//
// Mismatched dimensions return nil.
func ComputeFlow(heights []float32, w, h int, p Params) *FlowField {
	if w <= 0 || h <= 0 || len(heights) != w*h {
		return nil
	}
	n := w * h
	f := &FlowField{
		W:     w,
		H:     h,
		Dir:   make([]uint8, n),
		Accum: make([]float32, n),
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(heights[b], heights[a])
	})
	rank := make([]int, n)
	for r, i := range order {
		rank[i] = r
	}

	for i := range f.Accum {
		f.Accum[i] = 1
	}

	for _, i := range order {
		hc := heights[i]
		if hc <= p.SeaLevel {
			f.Dir[i] = Sink
			continue
		}
		x, y := i%w, i/w

		best := -1
		var bestDrop float32
		for k := 0; k < 8; k++ {
			nx, ny := x+dx[k], y+dy[k]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if drop := hc - heights[ny*w+nx]; drop > bestDrop {
				best, bestDrop = k, drop
			}
		}
		if best < 0 {
			for k := 0; k < 8; k++ {
				nx, ny := x+dx[k], y+dy[k]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if heights[j] == hc && rank[j] > rank[i] {
					best = k
					break
				}
			}
		}
		if best < 0 {
			f.Dir[i] = Sink
			continue
		}

		f.Dir[i] = uint8(best)
		j := (y+dy[best])*w + x + dx[best]
		f.Accum[j] += f.Accum[i]
	}
	return f
}

// maxSlope returns the steepest distance-weighted height difference between
// cell i and any of its on-grid neighbours.
func maxSlope(heights []float32, w, h, i int) float32 {
	x, y := i%w, i/w
	hc := heights[i]
	var best float32
	for k := 0; k < 8; k++ {
		nx, ny := x+dx[k], y+dy[k]
		if nx < 0 || ny < 0 || nx >= w || ny >= h {
			continue
		}
		d := hc - heights[ny*w+nx]
		if d < 0 {
			d = -d
		}
		best = max(best, d/dist8[k])
	}
	return best
}
