package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDimensions reports a height buffer whose length does not match W*H.
var ErrDimensions = errors.New("height field dimensions do not match buffer length")

// HeightField stores a W×H grid of elevations in row-major order.
//
// Erosion stages mutate the field in place. They take exclusive ownership of
// the buffer for the duration of a call through Borrow; readers that want a
// stable view while other goroutines may borrow should use Snapshot.
type HeightField struct {
	W, H int

	mu   sync.Mutex
	data []float32
}

// NewHeightField allocates a zeroed field with the given dimensions.
func NewHeightField(w, h int) *HeightField {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &HeightField{W: w, H: h, data: make([]float32, w*h)}
}

// WrapHeights adopts an existing buffer without copying it.
func WrapHeights(w, h int, cells []float32) (*HeightField, error) {
	if w <= 0 || h <= 0 || len(cells) != w*h {
		return nil, fmt.Errorf("%w: %dx%d with %d cells", ErrDimensions, w, h, len(cells))
	}
	return &HeightField{W: w, H: h, data: cells}, nil
}

// Cells exposes the backing slice for read access. Callers must not hold on
// to it across a Borrow by another goroutine.
func (f *HeightField) Cells() []float32 { return f.data }

// Index returns the linear slice index for coordinates (x, y).
func (f *HeightField) Index(x, y int) int { return y*f.W + x }

// InBounds reports whether (x, y) lies on the grid.
func (f *HeightField) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.W && y < f.H
}

// At returns the elevation at (x, y). Out-of-range coordinates return 0.
func (f *HeightField) At(x, y int) float32 {
	if !f.InBounds(x, y) {
		return 0
	}
	return f.data[f.Index(x, y)]
}

// Borrow locks the field and hands out the backing slice for in-place
// mutation. The returned release func must be called exactly once.
func (f *HeightField) Borrow() ([]float32, func()) {
	f.mu.Lock()
	var once sync.Once
	return f.data, func() { once.Do(f.mu.Unlock) }
}

// Snapshot returns a copy of the current elevations.
func (f *HeightField) Snapshot() []float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float32(nil), f.data...)
}

// Clone returns an independent field with the same dimensions and values.
func (f *HeightField) Clone() *HeightField {
	return &HeightField{W: f.W, H: f.H, data: f.Snapshot()}
}

// MinMax returns the lowest and highest elevation in the field.
func (f *HeightField) MinMax() (lo, hi float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return MinMax(f.data)
}

// MinMax returns the extrema of a buffer. An empty buffer yields (0, 0).
func MinMax(cells []float32) (lo, hi float32) {
	if len(cells) == 0 {
		return 0, 0
	}
	lo, hi = cells[0], cells[0]
	for _, v := range cells[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
