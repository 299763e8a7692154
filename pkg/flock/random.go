package flock

import "math/rand/v2"

// Rand is the uniform random source used for spawning and wandering.
// Range returns a value in [min, max).
type Rand interface {
	Range(min, max float64) float64
}

// PCGRand is a seeded Rand backed by math/rand/v2's PCG generator.
// Two PCGRand created with the same seed produce the same sequence.
type PCGRand struct {
	r *rand.Rand
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *PCGRand {
	return &PCGRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Range implements Rand.
func (p *PCGRand) Range(min, max float64) float64 {
	return min + p.r.Float64()*(max-min)
}
