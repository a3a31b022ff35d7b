// Package belief tracks what the engine thinks lies under each face-down
// stone, and how sure it is.
package belief

import (
	"math"
	"slices"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/stonetell/internal/personality"
	"github.com/lox/stonetell/internal/stone"
)

const (
	// PruneThreshold removes any entry whose confidence falls to or below it
	PruneThreshold = 0.1
	// ConfidentThreshold is the confidence above which a hidden stone
	// counts as accounted for during elimination
	ConfidentThreshold = 0.8
	// EliminationConfidence is assigned to a deduced stone. It stays below
	// 1.0 so normal decay and later observations can still override it.
	EliminationConfidence = 0.95

	minRetention     = 0.5
	crowdingPenalty  = 0.005
	staleAge         = 30 * time.Second
	stalePenalty     = 0.9
	blindSwapPenalty = 0.6
)

// Entry is one belief about a slot
type Entry struct {
	Kind            stone.Kind
	Confidence      float64
	LastConfirmedAt time.Time
}

// State is the sparse slot-to-belief map. A missing slot means "no
// confident belief". It is not safe for concurrent use.
type State struct {
	clock   quartz.Clock
	profile personality.Profile
	entries map[stone.Slot]Entry
}

// New creates an empty belief state
func New(clock quartz.Clock, profile personality.Profile) *State {
	return &State{
		clock:   clock,
		profile: profile,
		entries: make(map[stone.Slot]Entry),
	}
}

// Update overwrites the belief for slot with a fresh timestamp. A confidence
// at or below PruneThreshold simply clears the slot.
func (s *State) Update(slot stone.Slot, kind stone.Kind, confidence float64) {
	if !slot.Valid() {
		return
	}
	s.store(slot, Entry{
		Kind:            kind,
		Confidence:      clamp01(confidence),
		LastConfirmedAt: s.clock.Now(),
	})
}

// Forget drops the belief for slot
func (s *State) Forget(slot stone.Slot) {
	delete(s.entries, slot)
}

// Get returns the belief for slot, if any
func (s *State) Get(slot stone.Slot) (Entry, bool) {
	e, ok := s.entries[slot]
	return e, ok
}

// Confidence returns the confidence for slot; no belief reads as zero
func (s *State) Confidence(slot stone.Slot) float64 {
	return s.entries[slot].Confidence
}

// Len returns the number of held beliefs
func (s *State) Len() int {
	return len(s.entries)
}

// Slots returns the slots with a belief in ascending order
func (s *State) Slots() []stone.Slot {
	out := make([]stone.Slot, 0, len(s.entries))
	for slot := range s.entries {
		out = append(out, slot)
	}
	slices.Sort(out)
	return out
}

// CountAbove returns how many beliefs exceed the given confidence
func (s *State) CountAbove(threshold float64) int {
	n := 0
	for _, e := range s.entries {
		if e.Confidence > threshold {
			n++
		}
	}
	return n
}

// Decay erodes every belief. Memory fades faster the more stones are face
// down, and beliefs not confirmed for a while fade faster still.
func (s *State) Decay(board *stone.Board) {
	retention := math.Max(minRetention, s.profile.Retention-crowdingPenalty*float64(board.HiddenCount()))
	now := s.clock.Now()

	for slot, e := range s.entries {
		factor := retention
		if now.Sub(e.LastConfirmedAt) > staleAge {
			factor *= stalePenalty
		}
		e.Confidence = clamp01(e.Confidence * factor)
		s.store(slot, e)
	}
}

// ApplySwap follows two stones exchanging places. A missing belief on one
// side clears the other side. Both surviving beliefs lose confidence, and
// lose more when neither stone was face up.
func (s *State) ApplySwap(from, to stone.Slot, board *stone.Board) {
	if from == to || !from.Valid() || !to.Valid() {
		return
	}
	a, okA := s.entries[from]
	b, okB := s.entries[to]
	delete(s.entries, from)
	delete(s.entries, to)

	factor := 1 - s.profile.SwapConfusionPenalty
	if board.IsHidden(from) && board.IsHidden(to) {
		factor *= blindSwapPenalty
	}

	if okA {
		a.Confidence = clamp01(a.Confidence * factor)
		s.store(to, a)
	}
	if okB {
		b.Confidence = clamp01(b.Confidence * factor)
		s.store(from, b)
	}
}

// InferByElimination deduces the identity of a hidden stone when every other
// kind is accounted for by face-up stones, confident beliefs or the reserve,
// and exactly one hidden slot remains unexplained.
func (s *State) InferByElimination(board *stone.Board, reserve []stone.Kind) (stone.Slot, stone.Kind, bool) {
	if board == nil {
		return 0, 0, false
	}

	accounted := board.VisibleKinds(-1)
	for _, k := range reserve {
		accounted = accounted.Add(k)
	}

	var unexplained []stone.Slot
	for _, slot := range board.Hidden() {
		if e, ok := s.entries[slot]; ok && e.Confidence > ConfidentThreshold {
			accounted = accounted.Add(e.Kind)
			continue
		}
		unexplained = append(unexplained, slot)
	}

	missing := accounted.Missing()
	if len(missing) != 1 || len(unexplained) != 1 {
		return 0, 0, false
	}

	slot, kind := unexplained[0], missing[0]
	s.Update(slot, kind, EliminationConfidence)
	return slot, kind, true
}

func (s *State) store(slot stone.Slot, e Entry) {
	if e.Confidence <= PruneThreshold {
		delete(s.entries, slot)
		return
	}
	s.entries[slot] = e
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
