// Package randutil centralises how the engine seeds and draws from its
// local, non-cryptographic random source.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG words are derived from the one seed so every call site that shares
// a seed replays the same sequence.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewUnseeded returns a generator seeded from the wall clock
func NewUnseeded() *rand.Rand {
	return New(time.Now().UnixNano())
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Pick returns a uniformly chosen element, or false when items is empty
func Pick[T any](rng *rand.Rand, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[rng.IntN(len(items))], true
}

// WeightedIndex draws an index with probability proportional to its weight.
// Non-positive weights are never drawn; -1 means nothing can be drawn.
func WeightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	r := rng.Float64() * total
	cumulative := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		last = i
		if r < cumulative {
			return i
		}
	}
	// Float rounding can leave r a hair above the final cumulative sum
	return last
}

// Chance returns true with probability p
func Chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// Jitter returns a uniform duration in [0, max)
func Jitter(rng *rand.Rand, max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rng.Int64N(int64(max)))
}
