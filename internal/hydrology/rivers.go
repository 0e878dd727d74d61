package hydrology

import "terrasim/internal/core"

// Termination records why a river walk stopped.
type Termination uint8

const (
	// EndLength means the walk hit Params.MaxRiverLen.
	EndLength Termination = iota
	// EndSink means the last cell is a sink above sea level.
	EndSink
	// EndSea means the walk reached a cell at or below sea level. That mouth
	// cell is the last element of Cells.
	EndSea
	// EndConfluence means the next cell already belongs to another walk.
	EndConfluence
)

func (t Termination) String() string {
	switch t {
	case EndSink:
		return "sink"
	case EndSea:
		return "sea"
	case EndConfluence:
		return "confluence"
	default:
		return "length"
	}
}

// River is a downstream walk from a high-accumulation source.
type River struct {
	// Cells runs from source to terminus. A river that reaches the sea ends
	// on its mouth cell.
	Cells []core.Cell
	// Discharge is the accumulation at the source.
	Discharge float32
	// Outlet is the index of the sea or confluence cell the walk stopped at,
	// or -1 when it ended on its own last cell.
	Outlet int
	End    Termination
}

// ExtractRivers scans cells in row-major order and walks the flow field
// downstream from every unvisited cell above sea level whose accumulation
// reaches p.MinRiverAccum. Walks share one visited set, so rivers never
// overlap and a confluence belongs to whichever river got there first.
// Mouth cells are appended without being marked, so several rivers may end
// on the same sea cell. Walks shorter than MinRiverCells are dropped but
// their cells stay visited.
func ExtractRivers(flow *FlowField, heights []float32, w, h int, p Params) []River {
	if flow == nil || w <= 0 || h <= 0 || len(heights) != w*h || len(flow.Dir) != w*h {
		return nil
	}

	visited := make([]bool, w*h)
	var rivers []River
	for i := range heights {
		if visited[i] || heights[i] <= p.SeaLevel || flow.Accum[i] < p.MinRiverAccum {
			continue
		}

		r := River{Discharge: flow.Accum[i], Outlet: -1, End: EndLength}
		cur := i
		for len(r.Cells) < p.MaxRiverLen {
			if heights[cur] <= p.SeaLevel {
				r.Cells = append(r.Cells, core.CellAt(cur, w))
				r.End, r.Outlet = EndSea, cur
				break
			}
			if visited[cur] {
				r.End, r.Outlet = EndConfluence, cur
				break
			}
			visited[cur] = true
			r.Cells = append(r.Cells, core.CellAt(cur, w))

			next := flow.Downstream(cur)
			if next < 0 {
				r.End = EndSink
				break
			}
			cur = next
		}

		if len(r.Cells) >= MinRiverCells {
			rivers = append(rivers, r)
		}
	}
	return rivers
}
