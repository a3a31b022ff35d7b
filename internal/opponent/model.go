// Package opponent keeps a second-order model of the human player: how
// alert they seem and which slots they probably still remember.
package opponent

import (
	"math"
	"slices"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/stone"
)

const (
	// FreshnessWindow is how long the opponent is assumed to remember a slot
	FreshnessWindow = 45 * time.Second
	// InitialSharpness is the alertness assumed before any evidence
	InitialSharpness = 0.5

	quickResponse  = 1500 * time.Millisecond
	slowResponse   = 8 * time.Second
	quickBonus     = 0.1
	slowPenalty    = 0.2
	baselineErode  = 0.05
	seenConfidence = 1.0
)

// Fact is one slot the opponent is believed to remember
type Fact struct {
	Confidence float64
	ObservedAt time.Time
}

// Metrics is a read-only view of the model
type Metrics struct {
	Sharpness      float64
	KnownSlotCount int
}

// Model estimates the opponent's attention and memory
type Model struct {
	clock        quartz.Clock
	sharpness    float64
	knowledge    map[stone.Slot]Fact
	lastActionAt time.Time
}

// New creates a model with neutral sharpness
func New(clock quartz.Clock) *Model {
	return &Model{
		clock:        clock,
		sharpness:    InitialSharpness,
		knowledge:    make(map[stone.Slot]Fact),
		lastActionAt: clock.Now(),
	}
}

// Observe updates the model from an event. Every event expires stale
// knowledge; otherwise events by Self are ignored.
func (m *Model) Observe(e action.Event) {
	now := m.clock.Now()
	m.prune(now)
	if e.Actor != stone.Opponent {
		return
	}

	if e.Kind != action.TurnEnded {
		m.updateSharpness(now.Sub(m.lastActionAt))
		m.lastActionAt = now
	}

	switch e.Kind {
	case action.Peeked, action.Placed:
		m.knowledge[e.Slot] = Fact{Confidence: seenConfidence, ObservedAt: now}
	case action.Swapped:
		// the opponent moved the stones themselves, so their memory moves too
		a, okA := m.knowledge[e.Slot]
		b, okB := m.knowledge[e.Other]
		delete(m.knowledge, e.Slot)
		delete(m.knowledge, e.Other)
		if okA {
			m.knowledge[e.Other] = a
		}
		if okB {
			m.knowledge[e.Slot] = b
		}
	}
}

func (m *Model) updateSharpness(delta time.Duration) {
	switch {
	case delta < quickResponse:
		m.sharpness = math.Min(1, m.sharpness+quickBonus)
	case delta > slowResponse:
		m.sharpness = math.Max(0, m.sharpness-slowPenalty)
	default:
		m.sharpness = math.Max(0, m.sharpness-baselineErode)
	}
}

func (m *Model) prune(now time.Time) {
	for slot, f := range m.knowledge {
		if !f.freshAt(now) {
			delete(m.knowledge, slot)
		}
	}
}

func (f Fact) freshAt(now time.Time) bool {
	return now.Sub(f.ObservedAt) <= FreshnessWindow
}

// Sharpness returns the current alertness estimate in [0, 1]
func (m *Model) Sharpness() float64 {
	return m.sharpness
}

// Knows reports whether the opponent is believed to remember slot. Facts
// past the freshness window never count, even before they are pruned.
func (m *Model) Knows(slot stone.Slot) bool {
	f, ok := m.knowledge[slot]
	return ok && f.freshAt(m.clock.Now())
}

// KnownSlots returns the remembered slots in ascending order
func (m *Model) KnownSlots() []stone.Slot {
	now := m.clock.Now()
	out := make([]stone.Slot, 0, len(m.knowledge))
	for slot, f := range m.knowledge {
		if f.freshAt(now) {
			out = append(out, slot)
		}
	}
	slices.Sort(out)
	return out
}

// Metrics returns a snapshot of the model
func (m *Model) Metrics() Metrics {
	return Metrics{
		Sharpness:      m.sharpness,
		KnownSlotCount: len(m.KnownSlots()),
	}
}
