package engine

import (
	"slices"
	"time"

	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/personality"
	"github.com/lox/stonetell/internal/randutil"
	"github.com/lox/stonetell/internal/stone"
)

const (
	certainConfidence = 0.9
	peekCooldown      = 15 * time.Second
	touchCooldown     = 10 * time.Second
	confusionSwapRate = 0.7
	// the opening order only applies while the line is this short
	openingStones = 3
)

var (
	compactOrder = []stone.Slot{3, 2, 4, 1, 5, 0, 6}
	spreadOrder  = []stone.Slot{0, 6, 3, 1, 5, 2, 4}
)

// resolveTarget picks a concrete target for kind, or reports that the kind
// has no sensible target right now
func (e *Engine) resolveTarget(kind action.Kind, snap *stone.Snapshot) (action.Decision, bool) {
	board := snap.Board
	switch kind {
	case action.Place:
		return e.placeTarget(board)
	case action.Swap:
		return e.swapTarget(board)
	case action.Flip:
		return e.flipTarget(board)
	case action.Challenge:
		return e.challengeTarget(board)
	case action.Peek:
		return e.peekTarget(board)
	case action.Boast:
		return action.BoastAll(), true
	case action.Pass:
		return action.PassTurn(), true
	}
	return action.Decision{}, false
}

func (e *Engine) placeTarget(board *stone.Board) (action.Decision, bool) {
	allowed := e.oracle.ValidPlacementSlots(board)
	var valid []stone.Slot
	for _, slot := range board.Empty() {
		if slices.Contains(allowed, slot) {
			valid = append(valid, slot)
		}
	}
	if len(valid) == 0 {
		return action.Decision{}, false
	}

	opening := len(board.Occupied()) < openingStones
	switch e.profile.Opening {
	case personality.Compact:
		if opening {
			if slot, ok := firstIn(compactOrder, valid); ok {
				return action.PlaceAt(slot), true
			}
		}
	case personality.Spread:
		if opening {
			if slot, ok := firstIn(spreadOrder, valid); ok {
				return action.PlaceAt(slot), true
			}
		}
	case personality.Pressure:
		// crowd the face-down stones
		var crowding []stone.Slot
		for _, slot := range valid {
			if board.IsHidden(slot-1) || board.IsHidden(slot+1) {
				crowding = append(crowding, slot)
			}
		}
		if slot, ok := randutil.Pick(e.rng, crowding); ok {
			return action.PlaceAt(slot), true
		}
	}

	slot, _ := randutil.Pick(e.rng, valid)
	return action.PlaceAt(slot), true
}

func (e *Engine) swapTarget(board *stone.Board) (action.Decision, bool) {
	occupied := board.Occupied()
	hidden := board.Hidden()
	if len(occupied) < 2 || len(hidden) == 0 {
		return action.Decision{}, false
	}

	// counter-play: scramble whatever the opponent remembers
	var known []stone.Slot
	for _, slot := range e.opponent.KnownSlots() {
		if slices.Contains(occupied, slot) {
			known = append(known, slot)
		}
	}
	if a, ok := randutil.Pick(e.rng, known); ok {
		b, _ := randutil.Pick(e.rng, without(occupied, a))
		return action.SwapSlots(a, b), true
	}

	visible := board.Visible()
	if len(visible) > 0 && randutil.Chance(e.rng, confusionSwapRate) {
		v, _ := randutil.Pick(e.rng, visible)
		h, _ := randutil.Pick(e.rng, hidden)
		return action.SwapSlots(v, h), true
	}

	a, _ := randutil.Pick(e.rng, occupied)
	b, _ := randutil.Pick(e.rng, without(occupied, a))
	return action.SwapSlots(a, b), true
}

func (e *Engine) flipTarget(board *stone.Board) (action.Decision, bool) {
	slot, ok := randutil.Pick(e.rng, board.Visible())
	if !ok {
		return action.Decision{}, false
	}
	return action.FlipAt(slot), true
}

func (e *Engine) peekTarget(board *stone.Board) (action.Decision, bool) {
	hidden := board.Hidden()
	learnable := false
	for _, slot := range hidden {
		if e.beliefs.Confidence(slot) <= certainConfidence {
			learnable = true
			break
		}
	}
	if !learnable {
		return action.Decision{}, false
	}

	now := e.clock.Now()
	var candidates []stone.Slot
	for _, slot := range hidden {
		if at, ok := e.peekedAt[slot]; ok && now.Sub(at) < peekCooldown {
			continue
		}
		if e.beliefs.Confidence(slot) < e.profile.PeekConfidenceThreshold {
			candidates = append(candidates, slot)
		}
	}

	slot, ok := randutil.Pick(e.rng, candidates)
	if !ok {
		return action.Decision{}, false
	}
	return action.PeekAt(slot), true
}

func (e *Engine) challengeTarget(board *stone.Board) (action.Decision, bool) {
	hidden := board.Hidden()
	if len(hidden) == 0 {
		return action.Decision{}, false
	}

	now := e.clock.Now()
	var pool []stone.Slot
	for _, slot := range hidden {
		if at, ok := e.touchedAt[slot]; ok && now.Sub(at) < touchCooldown {
			continue
		}
		pool = append(pool, slot)
	}
	if len(pool) == 0 {
		pool = hidden
	}

	if e.profile.Challenge == personality.OldestHidden {
		return action.ChallengeAt(e.oldest(pool)), true
	}
	slot, _ := randutil.Pick(e.rng, pool)
	return action.ChallengeAt(slot), true
}

// oldest returns the slot whose belief was confirmed longest ago. A slot with
// no belief counts as the oldest of all.
func (e *Engine) oldest(pool []stone.Slot) stone.Slot {
	best := pool[0]
	var bestAt time.Time
	for i, slot := range pool {
		entry, ok := e.beliefs.Get(slot)
		if !ok {
			return slot
		}
		if i == 0 || entry.LastConfirmedAt.Before(bestAt) {
			best, bestAt = slot, entry.LastConfirmedAt
		}
	}
	return best
}

func firstIn(order, valid []stone.Slot) (stone.Slot, bool) {
	for _, slot := range order {
		if slices.Contains(valid, slot) {
			return slot, true
		}
	}
	return 0, false
}

func without(slots []stone.Slot, drop ...stone.Slot) []stone.Slot {
	out := make([]stone.Slot, 0, len(slots))
	for _, s := range slots {
		if !slices.Contains(drop, s) {
			out = append(out, s)
		}
	}
	return out
}
