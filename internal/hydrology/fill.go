package hydrology

import (
	"container/heap"
	"math"
)

// FillResult is a depression-free routing surface derived from a height field.
type FillResult struct {
	Heights []float32
	// Raised marks cells lifted by the fill.
	Raised []bool
	// Count is the number of raised cells.
	Count int
}

// FillDepressions runs a priority flood from the map border and from every
// cell at or below outlet. Cells reached from a neighbour that is not lower
// are lifted to the next representable float above it, so every cell that is
// not an outlet ends up with a strictly lower neighbour. The input buffer is
// not modified.
//
// Mismatched dimensions return nil.
func FillDepressions(heights []float32, w, h int, outlet float32) *FillResult {
	if w <= 0 || h <= 0 || len(heights) != w*h {
		return nil
	}
	res := &FillResult{
		Heights: append([]float32(nil), heights...),
		Raised:  make([]bool, w*h),
	}

	visited := make([]bool, w*h)
	pq := &floodQueue{}
	push := func(i int, level float32) {
		heap.Push(pq, floodNode{level: level, idx: i, seq: pq.next})
		pq.next++
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			edge := x == 0 || y == 0 || x == w-1 || y == h-1
			if edge || heights[i] <= outlet {
				visited[i] = true
				push(i, heights[i])
			}
		}
	}

	inf := float32(math.Inf(1))
	for pq.Len() > 0 {
		n := heap.Pop(pq).(floodNode)
		cx, cy := n.idx%w, n.idx/w
		ch := res.Heights[n.idx]

		for k := 0; k < 8; k++ {
			nx, ny := cx+dx[k], cy+dy[k]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			if visited[j] {
				continue
			}
			visited[j] = true

			if res.Heights[j] <= ch {
				res.Heights[j] = math.Nextafter32(ch, inf)
				res.Raised[j] = true
				res.Count++
			}
			push(j, res.Heights[j])
		}
	}
	return res
}

type floodNode struct {
	level float32
	idx   int
	seq   uint64
}

// floodQueue is a min-heap on level; insertion order breaks ties so the
// fill is deterministic.
type floodQueue struct {
	nodes []floodNode
	next  uint64
}

func (q *floodQueue) Len() int { return len(q.nodes) }

func (q *floodQueue) Less(i, j int) bool {
	a, b := q.nodes[i], q.nodes[j]
	if a.level != b.level {
		return a.level < b.level
	}
	return a.seq < b.seq
}

func (q *floodQueue) Swap(i, j int) { q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i] }

func (q *floodQueue) Push(x any) { q.nodes = append(q.nodes, x.(floodNode)) }

func (q *floodQueue) Pop() any {
	old := q.nodes
	n := len(old)
	item := old[n-1]
	q.nodes = old[:n-1]
	return item
}
