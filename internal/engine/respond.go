package engine

import (
	"github.com/lox/stonetell/internal/personality"
	"github.com/lox/stonetell/internal/randutil"
	"github.com/lox/stonetell/internal/stone"
)

const (
	trustedConfidence = 0.7
	hunchConfidence   = 0.4

	boastSafeHidden   = 2
	boastBelieveBelow = 0.4
	boastCounterAbove = 0.85
	chaosDoubtChance  = 0.5
)

// BoastResponse is how the engine answers an opponent's boast
type BoastResponse int

const (
	Believe BoastResponse = iota
	Doubt
	CounterBoast
)

func (r BoastResponse) String() string {
	switch r {
	case Believe:
		return "believe"
	case Doubt:
		return "doubt"
	case CounterBoast:
		return "counter_boast"
	default:
		return "unknown"
	}
}

// PredictStone names the stone the engine thinks is at slot, for answering a
// challenge. Only snap is consulted for board and reserve state. The result
// is always one of the seven kinds.
func (e *Engine) PredictStone(slot stone.Slot, snap *stone.Snapshot) stone.Kind {
	entry, known := e.beliefs.Get(slot)
	if known && entry.Confidence >= trustedConfidence {
		return entry.Kind
	}

	guess := e.eliminationGuess(slot, snap)
	if known && entry.Confidence > hunchConfidence && e.rng.Float64() < entry.Confidence {
		return entry.Kind
	}
	return guess
}

// eliminationGuess picks a kind not accounted for anywhere else: not face up
// on another slot, not waiting in reserve and not confidently placed
// elsewhere. With nothing left it guesses from the whole alphabet.
func (e *Engine) eliminationGuess(slot stone.Slot, snap *stone.Snapshot) stone.Kind {
	var seen stone.KindSet
	if snap != nil {
		seen = snap.Board.VisibleKinds(slot)
		for _, k := range snap.Reserve {
			seen = seen.Add(k)
		}
	}
	for _, other := range e.beliefs.Slots() {
		if other == slot {
			continue
		}
		if entry, ok := e.beliefs.Get(other); ok && entry.Confidence > certainConfidence {
			seen = seen.Add(entry.Kind)
		}
	}

	if k, ok := randutil.Pick(e.rng, seen.Missing()); ok {
		return k
	}
	k, _ := randutil.Pick(e.rng, stone.AllKinds())
	return k
}

// DecideBoastResponse answers an opponent's claim to know every hidden stone
func (e *Engine) DecideBoastResponse(snap *stone.Snapshot) BoastResponse {
	if snap == nil || snap.Board == nil {
		e.logger.Warn("Asked about a boast without a board, believing it")
		return Believe
	}

	hidden := snap.Board.Hidden()
	if len(hidden) <= boastSafeHidden {
		return Believe
	}

	switch e.profile.Challenge {
	case personality.Blind:
		return Doubt
	case personality.Chaos:
		if randutil.Chance(e.rng, chaosDoubtChance) {
			return Doubt
		}
		return Believe
	}

	total := 0.0
	for _, slot := range hidden {
		total += e.beliefs.Confidence(slot)
	}
	mean := total / float64(len(hidden))

	resp := Doubt
	switch {
	case mean < boastBelieveBelow:
		resp = Believe
	case mean > boastCounterAbove:
		resp = CounterBoast
	}
	e.logger.Debug("Boast response", "hidden", len(hidden), "mean_confidence", mean, "response", resp)
	return resp
}
