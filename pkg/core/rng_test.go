package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestFloat32nRange(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 10000; i++ {
		v := r.Float32n(3)
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(3))
	}
	assert.Zero(t, r.Float32n(0))
	assert.Zero(t, r.Float32n(-1))
}
