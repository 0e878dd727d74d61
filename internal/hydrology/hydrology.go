// Package hydrology derives drainage, rivers and lakes from a height field.
//
// All functions take the heights as a read-only row-major buffer and allocate
// fresh results; nothing here mutates its inputs or keeps state between calls.
package hydrology

// GenerateHydrology fills the depressions of heights, routes flow over the
// filled surface and extracts rivers and lakes from it. Every interior cell
// above p.SeaLevel therefore drains somewhere. Rivers and lakes each keep
// their own visited set, so a cell may belong to both a river and a lake.
func GenerateHydrology(heights []float32, w, h int, p Params) (*FlowField, []River, []Lake) {
	fill := FillDepressions(heights, w, h, p.SeaLevel)
	if fill == nil {
		return nil, nil, nil
	}
	surface := fill.Heights
	flow := ComputeFlow(surface, w, h, p)
	rivers := ExtractRivers(flow, surface, w, h, p)
	lakes := InferLakes(flow, surface, w, h, p)
	return flow, rivers, lakes
}
