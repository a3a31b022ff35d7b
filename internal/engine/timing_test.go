package engine

import (
	"testing"
	"time"

	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/chatter"
	"github.com/lox/stonetell/internal/stone"
	"github.com/stretchr/testify/assert"
)

func TestThinkTimeRanges(t *testing.T) {
	tests := []struct {
		name     string
		decision action.Decision
		min, max time.Duration
	}{
		{"place", action.PlaceAt(3), 800 * time.Millisecond, 1300 * time.Millisecond},
		{"boast", action.BoastAll(), 800 * time.Millisecond, 1300 * time.Millisecond},
		{"swap", action.SwapSlots(1, 2), 3000 * time.Millisecond, 5000 * time.Millisecond},
		{"peek", action.PeekAt(1), 2500 * time.Millisecond, 4500 * time.Millisecond},
		{"unsure challenge", action.ChallengeAt(1), 1500 * time.Millisecond, 3500 * time.Millisecond},
		{"flip", action.FlipAt(1), 1500 * time.Millisecond, 3500 * time.Millisecond},
		{"pass", action.PassTurn(), 1500 * time.Millisecond, 3500 * time.Millisecond},
	}

	e, _ := newTestEngine(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				d := e.ThinkTime(tt.decision)
				assert.GreaterOrEqual(t, d, tt.min)
				assert.Less(t, d, tt.max)
			}
		})
	}
}

func TestThinkTimeSureChallengeIsQuick(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	e.beliefs.Update(4, stone.Sword, 0.95)

	for i := 0; i < 50; i++ {
		d := e.ThinkTime(action.ChallengeAt(4))
		assert.GreaterOrEqual(t, d, 600*time.Millisecond)
		assert.Less(t, d, 1000*time.Millisecond)
	}
}

func TestChatterNeverRepeatsBackToBack(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	prev := ""
	for i := 0; i < 50; i++ {
		line, ok := e.Chatter(chatter.CuePlace)
		if !ok {
			continue
		}
		assert.NotEqual(t, prev, line)
		prev = line
	}
}

func TestChatterExhaustsSingleLineCategory(t *testing.T) {
	catalog := chatter.Catalog{
		"Analytical": {chatter.CueBoast: {"I know them all."}},
	}
	e, _ := newTestEngine(t, Options{Catalog: catalog})

	line, ok := e.Chatter(chatter.CueBoast)
	assert.True(t, ok)
	assert.Equal(t, "I know them all.", line)

	_, ok = e.Chatter(chatter.CueBoast)
	assert.False(t, ok, "the only line was just used")

	_, ok = e.Chatter(chatter.CuePass)
	assert.False(t, ok, "empty category")
}

func TestChatterTauntsSlowOpponents(t *testing.T) {
	catalog := chatter.Catalog{
		"Analytical": {
			chatter.CuePlace:        {"place one", "place two"},
			chatter.CueSlowOpponent: {"taunt one", "taunt two"},
		},
	}
	e, clock := newTestEngine(t, Options{Catalog: catalog})
	s := snap(t, "???....", "")
	// three sluggish moves take sharpness from 0.5 to below 0.3
	for i := 0; i < 3; i++ {
		clock.Advance(10 * time.Second)
		e.Observe(action.PeekedEvent(stone.Opponent, 0, 0, false), s)
	}
	assert.Less(t, e.OpponentMetrics().Sharpness, 0.3)

	taunts := 0
	for i := 0; i < 100; i++ {
		line, ok := e.Chatter(chatter.CuePlace)
		if ok && (line == "taunt one" || line == "taunt two") {
			taunts++
		}
	}
	assert.Greater(t, taunts, 0)
	assert.Less(t, taunts, 100)
}

func TestDecisionCue(t *testing.T) {
	assert.Equal(t, chatter.CueSwap, DecisionCue(action.SwapSlots(0, 1)))
	assert.Equal(t, chatter.CueBoast, DecisionCue(action.BoastAll()))
	assert.Equal(t, chatter.CuePass, DecisionCue(action.PassTurn()))
}
