package core

// Size describes the dimensions of a terrain grid.
type Size struct {
	W int
	H int
}

// Cells returns the number of cells covered by the size.
func (s Size) Cells() int { return s.W * s.H }

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

// Cell addresses a single grid position.
type Cell struct {
	X int
	Y int
}

// Index returns the row-major index of the cell on a grid of width w.
func (c Cell) Index(w int) int { return c.Y*w + c.X }

// CellAt converts a row-major index back into coordinates.
func CellAt(i, w int) Cell { return Cell{X: i % w, Y: i / w} }

// HeightRange is the closed interval elevations are renormalized into once an
// erosion stage completes.
type HeightRange struct {
	Lo float32
	Hi float32
}

// UnitRange is the global range used by every erosion stage.
var UnitRange = HeightRange{Lo: 0, Hi: 1}

// Contains reports whether v lies within the range.
func (r HeightRange) Contains(v float32) bool { return v >= r.Lo && v <= r.Hi }
