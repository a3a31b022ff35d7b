package belief

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/stonetell/internal/personality"
	"github.com/lox/stonetell/internal/randutil"
	"github.com/lox/stonetell/internal/stone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T, retention, swapPenalty float64) (*State, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	p := personality.Default()
	p.Retention = retention
	p.SwapConfusionPenalty = swapPenalty
	return New(clock, p), clock
}

func TestUpdateClampsAndPrunes(t *testing.T) {
	s, _ := newState(t, 0.95, 0.2)

	s.Update(2, stone.Crown, 1.7)
	assert.Equal(t, 1.0, s.Confidence(2))

	s.Update(3, stone.Sword, 0.05)
	_, ok := s.Get(3)
	assert.False(t, ok, "confidence below prune threshold should not be stored")

	s.Update(stone.Slot(9), stone.Flag, 0.9)
	assert.Equal(t, 1, s.Len())
}

func TestDecayExample(t *testing.T) {
	s, _ := newState(t, 0.95, 0.2)
	s.Update(3, stone.Knight, 0.95)

	s.Decay(stone.MustParseBoard("...?..."))

	assert.InDelta(t, 0.95*0.945, s.Confidence(3), 1e-9)
}

func TestDecayStaleBeliefsFadeFaster(t *testing.T) {
	s, clock := newState(t, 0.95, 0.2)
	s.Update(1, stone.Shield, 0.9)
	clock.Advance(31 * time.Second)
	s.Update(2, stone.Sword, 0.9)

	s.Decay(stone.MustParseBoard("......."))

	assert.InDelta(t, 0.9*0.95*0.9, s.Confidence(1), 1e-9)
	assert.InDelta(t, 0.9*0.95, s.Confidence(2), 1e-9)
}

func TestDecayRetentionFloor(t *testing.T) {
	s, _ := newState(t, 0.5, 0.2)
	s.Update(0, stone.Crown, 1.0)

	s.Decay(stone.MustParseBoard("???????"))

	assert.InDelta(t, 0.5, s.Confidence(0), 1e-9)
}

func TestDecayIsMonotoneAndPrunes(t *testing.T) {
	s, clock := newState(t, 0.9, 0.2)
	rng := randutil.New(11)
	board := stone.MustParseBoard("?C??S??")

	for slot := stone.Slot(0); slot < stone.NumSlots; slot++ {
		s.Update(slot, stone.Kind(slot), 0.2+rng.Float64()*0.8)
	}

	for round := 0; round < 60; round++ {
		before := map[stone.Slot]float64{}
		for _, slot := range s.Slots() {
			before[slot] = s.Confidence(slot)
		}
		clock.Advance(time.Second)
		s.Decay(board)

		for _, slot := range s.Slots() {
			c := s.Confidence(slot)
			require.LessOrEqual(t, c, before[slot])
			require.Greater(t, c, PruneThreshold)
			require.LessOrEqual(t, c, 1.0)
		}
	}
	assert.Zero(t, s.Len(), "everything should eventually be forgotten")
}

func TestApplySwapBlindExample(t *testing.T) {
	s, _ := newState(t, 0.95, 0.2)
	s.Update(1, stone.Crown, 0.8)
	s.Update(2, stone.Flag, 0.8)

	s.ApplySwap(1, 2, stone.MustParseBoard(".??...."))

	e1, ok := s.Get(1)
	require.True(t, ok)
	e2, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, stone.Flag, e1.Kind)
	assert.Equal(t, stone.Crown, e2.Kind)
	assert.InDelta(t, 0.384, e1.Confidence, 1e-9)
	assert.InDelta(t, 0.384, e2.Confidence, 1e-9)
}

func TestApplySwapBlindIsWorseThanHalfVisible(t *testing.T) {
	blind, _ := newState(t, 0.95, 0.2)
	blind.Update(1, stone.Crown, 0.8)
	blind.Update(2, stone.Flag, 0.8)
	blind.ApplySwap(1, 2, stone.MustParseBoard(".??...."))

	half, _ := newState(t, 0.95, 0.2)
	half.Update(1, stone.Crown, 0.8)
	half.Update(2, stone.Flag, 0.8)
	half.ApplySwap(1, 2, stone.MustParseBoard(".?F...."))

	assert.LessOrEqual(t, blind.Confidence(2), half.Confidence(2))
	assert.InDelta(t, 0.64, half.Confidence(2), 1e-9)
}

func TestApplySwapMissingBeliefClearsDestination(t *testing.T) {
	s, _ := newState(t, 0.95, 0.2)
	s.Update(4, stone.Hammer, 0.9)

	s.ApplySwap(0, 4, stone.MustParseBoard("?...?.."))

	_, ok := s.Get(4)
	assert.False(t, ok)
	e, ok := s.Get(0)
	require.True(t, ok)
	assert.Equal(t, stone.Hammer, e.Kind)
}

func TestApplySwapPrunesWeakBeliefs(t *testing.T) {
	s, _ := newState(t, 0.95, 0.5)
	s.Update(0, stone.Crown, 0.3)

	s.ApplySwap(0, 1, stone.MustParseBoard("??....."))

	assert.Zero(t, s.Len())
}

func TestInferByEliminationExample(t *testing.T) {
	s, _ := newState(t, 0.95, 0.2)
	// Crown, Shield visible; Sword confidently believed; Flag, Knight, Hammer in reserve
	board := stone.MustParseBoard("CS??...")
	s.Update(2, stone.Sword, 0.9)

	slot, kind, ok := s.InferByElimination(board, []stone.Kind{stone.Flag, stone.Knight, stone.Hammer})

	require.True(t, ok)
	assert.Equal(t, stone.Slot(3), slot)
	assert.Equal(t, stone.Scales, kind)
	e, _ := s.Get(3)
	assert.Equal(t, EliminationConfidence, e.Confidence)
}

func TestInferByEliminationNeedsUniqueGap(t *testing.T) {
	s, _ := newState(t, 0.95, 0.2)
	board := stone.MustParseBoard("CS??...")

	// two unexplained hidden slots
	_, _, ok := s.InferByElimination(board, []stone.Kind{stone.Flag, stone.Knight, stone.Hammer, stone.Sword})
	assert.False(t, ok)

	// weak belief does not count as accounted
	s.Update(2, stone.Sword, 0.6)
	_, _, ok = s.InferByElimination(board, []stone.Kind{stone.Flag, stone.Knight, stone.Hammer})
	assert.False(t, ok)

	_, _, ok = s.InferByElimination(nil, nil)
	assert.False(t, ok)
}
