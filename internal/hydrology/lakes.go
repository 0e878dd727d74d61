package hydrology

import "terrasim/internal/core"

// Lake is a connected patch of flat, well-fed cells.
type Lake struct {
	Cells []core.Cell
	// Level is the mean height of the member cells.
	Level float32
	// Inflow is the largest accumulation among the member cells.
	Inflow float32
	// Min and Max bound the member cells.
	Min, Max core.Cell
}

// InferLakes flood-fills flat, high-accumulation regions. A seed must sit
// above sea level with accumulation above half of p.MinRiverAccum and a
// steepest neighbour slope below p.MaxLakeSlope; the fill then admits
// 8-connected neighbours under slightly relaxed bounds. Components smaller
// than MinLakeCells are dropped. Lakes never share cells.
func InferLakes(flow *FlowField, heights []float32, w, h int, p Params) []Lake {
	if flow == nil || w <= 0 || h <= 0 || len(heights) != w*h || len(flow.Accum) != w*h {
		return nil
	}

	seedAccum := p.MinRiverAccum * lakeSeedAccumFactor
	growAccum := p.MinRiverAccum * lakeGrowAccumFactor
	growSlope := p.MaxLakeSlope * lakeGrowSlopeRelaxed

	visited := make([]bool, w*h)
	var queue []int
	var lakes []Lake

	for i := range heights {
		if visited[i] || heights[i] <= p.SeaLevel || flow.Accum[i] <= seedAccum {
			continue
		}
		if maxSlope(heights, w, h, i) >= p.MaxLakeSlope {
			continue
		}

		visited[i] = true
		queue = append(queue[:0], i)
		for head := 0; head < len(queue); head++ {
			c := queue[head]
			x, y := c%w, c/w
			for k := 0; k < 8; k++ {
				nx, ny := x+dx[k], y+dy[k]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if visited[j] || heights[j] <= p.SeaLevel || flow.Accum[j] <= growAccum {
					continue
				}
				if maxSlope(heights, w, h, j) >= growSlope {
					continue
				}
				visited[j] = true
				queue = append(queue, j)
			}
		}

		if len(queue) < MinLakeCells {
			continue
		}
		lakes = append(lakes, newLake(queue, heights, flow.Accum, w))
	}
	return lakes
}

func newLake(members []int, heights, accum []float32, w int) Lake {
	lake := Lake{
		Cells: make([]core.Cell, 0, len(members)),
		Min:   core.CellAt(members[0], w),
		Max:   core.CellAt(members[0], w),
	}
	var sum float64
	for _, i := range members {
		c := core.CellAt(i, w)
		lake.Cells = append(lake.Cells, c)
		sum += float64(heights[i])
		lake.Inflow = max(lake.Inflow, accum[i])
		lake.Min.X = min(lake.Min.X, c.X)
		lake.Min.Y = min(lake.Min.Y, c.Y)
		lake.Max.X = max(lake.Max.X, c.X)
		lake.Max.Y = max(lake.Max.Y, c.Y)
	}
	lake.Level = float32(sum / float64(len(members)))
	return lake
}
