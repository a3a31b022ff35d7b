package randutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestWeightedIndexSkipsZeroWeights(t *testing.T) {
	rng := New(7)
	weights := []float64{0, 2, 0, -1, 1}
	counts := make([]int, len(weights))
	for i := 0; i < 3000; i++ {
		idx := WeightedIndex(rng, weights)
		assert.NotEqual(t, -1, idx)
		counts[idx]++
	}
	assert.Zero(t, counts[0])
	assert.Zero(t, counts[2])
	assert.Zero(t, counts[3])
	// 2:1 ratio, loosely
	assert.Greater(t, counts[1], counts[4])
}

func TestWeightedIndexEmpty(t *testing.T) {
	assert.Equal(t, -1, WeightedIndex(New(1), []float64{0, 0}))
	assert.Equal(t, -1, WeightedIndex(New(1), nil))
}

func TestPick(t *testing.T) {
	_, ok := Pick[int](New(1), nil)
	assert.False(t, ok)

	v, ok := Pick(New(1), []string{"only"})
	assert.True(t, ok)
	assert.Equal(t, "only", v)
}

func TestJitterBounds(t *testing.T) {
	rng := New(3)
	for i := 0; i < 100; i++ {
		j := Jitter(rng, 500*time.Millisecond)
		assert.GreaterOrEqual(t, j, time.Duration(0))
		assert.Less(t, j, 500*time.Millisecond)
	}
	assert.Zero(t, Jitter(rng, 0))
}
