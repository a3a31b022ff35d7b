package opponent

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/stone"
	"github.com/stretchr/testify/assert"
)

func TestQuickOpponentGetsSharper(t *testing.T) {
	clock := quartz.NewMock(t)
	m := New(clock)

	clock.Advance(time.Second)
	m.Observe(action.PlacedEvent(stone.Opponent, 3, stone.Crown))

	assert.InDelta(t, 0.6, m.Sharpness(), 1e-9)
}

func TestSlowOpponentLosesSharpness(t *testing.T) {
	clock := quartz.NewMock(t)
	m := New(clock)

	clock.Advance(9 * time.Second)
	m.Observe(action.SwappedEvent(stone.Opponent, 1, 2))

	assert.InDelta(t, 0.3, m.Sharpness(), 1e-9)
}

func TestNormalPaceErodesSharpness(t *testing.T) {
	clock := quartz.NewMock(t)
	m := New(clock)

	clock.Advance(4 * time.Second)
	m.Observe(action.FlippedEvent(stone.Opponent, 2, stone.Flag))

	assert.InDelta(t, 0.45, m.Sharpness(), 1e-9)
}

func TestSharpnessStaysInBounds(t *testing.T) {
	clock := quartz.NewMock(t)
	m := New(clock)

	for i := 0; i < 20; i++ {
		clock.Advance(100 * time.Millisecond)
		m.Observe(action.PlacedEvent(stone.Opponent, 0, stone.Crown))
	}
	assert.Equal(t, 1.0, m.Sharpness())

	for i := 0; i < 20; i++ {
		clock.Advance(10 * time.Second)
		m.Observe(action.FlippedEvent(stone.Opponent, 0, stone.Crown))
	}
	assert.Equal(t, 0.0, m.Sharpness())
}

func TestSelfAndTurnEndedDoNotAffectTiming(t *testing.T) {
	clock := quartz.NewMock(t)
	m := New(clock)

	clock.Advance(20 * time.Second)
	m.Observe(action.PlacedEvent(stone.Self, 3, stone.Crown))
	m.Observe(action.TurnEndedEvent(stone.Opponent))
	assert.Equal(t, InitialSharpness, m.Sharpness())
	assert.Zero(t, m.Metrics().KnownSlotCount)
}

func TestPeekAndPlaceMarkKnowledge(t *testing.T) {
	clock := quartz.NewMock(t)
	m := New(clock)

	m.Observe(action.PeekedEvent(stone.Opponent, 4, 0, false))
	m.Observe(action.PlacedEvent(stone.Opponent, 2, stone.Knight))

	assert.True(t, m.Knows(4))
	assert.True(t, m.Knows(2))
	assert.Equal(t, []stone.Slot{2, 4}, m.KnownSlots())
	assert.Equal(t, 2, m.Metrics().KnownSlotCount)
}

func TestKnowledgeExpires(t *testing.T) {
	clock := quartz.NewMock(t)
	m := New(clock)

	m.Observe(action.PeekedEvent(stone.Opponent, 4, 0, false))
	clock.Advance(30 * time.Second)
	m.Observe(action.PeekedEvent(stone.Opponent, 1, 0, false))
	clock.Advance(20 * time.Second)
	m.Observe(action.TurnEndedEvent(stone.Opponent))

	assert.False(t, m.Knows(4), "slot 4 is older than the freshness window")
	assert.True(t, m.Knows(1))
}

func TestOpponentSwapMovesKnowledge(t *testing.T) {
	clock := quartz.NewMock(t)
	m := New(clock)

	m.Observe(action.PeekedEvent(stone.Opponent, 1, 0, false))
	m.Observe(action.SwappedEvent(stone.Opponent, 1, 5))

	assert.False(t, m.Knows(1))
	assert.True(t, m.Knows(5))
}

func TestStaleKnowledgeIsIgnoredWithoutOpponentEvents(t *testing.T) {
	clock := quartz.NewMock(t)
	m := New(clock)

	m.Observe(action.PeekedEvent(stone.Opponent, 4, 0, false))
	clock.Advance(FreshnessWindow + time.Second)

	assert.False(t, m.Knows(4))
	assert.Empty(t, m.KnownSlots())
	assert.Zero(t, m.Metrics().KnownSlotCount)
}

func TestSelfEventsPruneStaleKnowledge(t *testing.T) {
	clock := quartz.NewMock(t)
	m := New(clock)

	m.Observe(action.PeekedEvent(stone.Opponent, 4, 0, false))
	clock.Advance(FreshnessWindow + time.Second)
	m.Observe(action.FlippedEvent(stone.Self, 2, stone.Flag))

	assert.Empty(t, m.knowledge)
	assert.Equal(t, InitialSharpness, m.Sharpness())
}
