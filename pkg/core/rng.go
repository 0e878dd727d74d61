package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
// Each caller constructs its own value; nothing here is shared or global.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(seed, 0))}
}

// Float32n returns a uniform float32 in [0, n). Non-positive n yields 0.
func (r *RNG) Float32n(n float32) float32 {
	if n <= 0 {
		return 0
	}
	v := r.r.Float32() * n
	// Float32()*n can round up to n for n close to a power of two.
	if v >= n {
		v = 0
	}
	return v
}

// Uint64 returns a uniformly distributed 64-bit value, used for deriving child seeds.
func (r *RNG) Uint64() uint64 { return r.r.Uint64() }
