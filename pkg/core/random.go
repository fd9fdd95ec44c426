package core

import (
	"math"
	"math/rand"
)

// WangHash is the 32-bit avalanche hash used to advance a random stream
func WangHash(seed uint32) uint32 {
	seed = (seed ^ 61) ^ (seed >> 16)
	seed *= 9
	seed = seed ^ (seed >> 4)
	seed *= 0x27d4eb2d
	seed = seed ^ (seed >> 15)
	return seed
}

// Random is a deterministic per-work-item stream. Each call hashes the
// current state once and stores the result as the new state. A Random must
// not be shared between goroutines.
type Random struct {
	state uint32
}

// NewRandom creates a stream starting from seed
func NewRandom(seed uint32) *Random {
	return &Random{state: seed}
}

// State returns the current state word
func (r *Random) State() uint32 {
	return r.state
}

// Float64 returns a uniform value in (0, 1]. Zero draws are resampled.
func (r *Random) Float64() float64 {
	for {
		r.state = WangHash(r.state)
		if r.state != 0 {
			return float64(r.state) / float64(math.MaxUint32)
		}
	}
}

// Get1D implements Sampler
func (r *Random) Get1D() float64 {
	return r.Float64()
}

// NewSeeds derives n reproducible seeds from a master seed
func NewSeeds(n int, master uint32) []uint32 {
	seeds := make([]uint32, n)
	for i := range seeds {
		seeds[i] = WangHash(master + uint32(i)*0x9e3779b9)
	}
	return seeds
}

// RandomSeeds draws n seeds from the global math/rand source for runs that
// do not need to be reproducible
func RandomSeeds(n int) []uint32 {
	seeds := make([]uint32, n)
	for i := range seeds {
		seeds[i] = rand.Uint32()
	}
	return seeds
}
