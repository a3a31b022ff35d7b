package engine

import (
	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/randutil"
	"github.com/lox/stonetell/internal/stone"
)

const (
	maxSelectionAttempts = 3
	desperateScore       = 2

	reservePlaceBoost  = 0.5
	desperateChallenge = 0.5
	desperateBoast     = 0.3
	desperateSwap      = 0.2
	lowAmbiguityHidden = 2
	lowAmbiguityFlip   = 0.3
	cautiousPeekBoost  = 0.5
	unknownPeekPerSlot = 0.2
	unknownConfidence  = 0.4
)

// DecideMove picks the engine's next move for the given snapshot. It never
// fails: a missing board, or three failed attempts to find a target, both
// produce a Pass.
func (e *Engine) DecideMove(snap *stone.Snapshot) action.Decision {
	if snap == nil || snap.Board == nil {
		e.logger.Warn("Asked to move without a board, passing")
		e.metrics.recordFallback(e.profile.Name)
		return e.commit(action.PassTurn())
	}
	board := snap.Board

	if d, ok := e.signatureMove(board); ok {
		e.logger.Debug("Signature move", "decision", d.String())
		return e.commit(d)
	}

	w := e.actionWeights(snap)
	e.logger.Debug("Action weights",
		"board", board.String(),
		"desperate", snap.Scores.Opponent >= desperateScore,
		"weights", w.String())

	for attempt := 0; attempt < maxSelectionAttempts; attempt++ {
		idx := randutil.WeightedIndex(e.rng, w[:])
		if idx < 0 {
			break
		}
		kind := action.Kind(idx)
		d, ok := e.resolveTarget(kind, snap)
		if !ok {
			e.logger.Debug("No target, dropping action", "kind", kind, "attempt", attempt+1)
			w[kind] = 0
			continue
		}
		return e.commit(d)
	}

	e.metrics.recordFallback(e.profile.Name)
	return e.commit(action.PassTurn())
}

// actionWeights adjusts the profile's base weights to the board. A signature
// move, when one fires, takes precedence over anything decided here.
func (e *Engine) actionWeights(snap *stone.Snapshot) action.Weights {
	board := snap.Board
	hidden := board.HiddenCount()
	visible := board.VisibleCount()
	hasReserve := len(snap.Reserve) > 0

	w := e.profile.BaseWeights
	if hasReserve && visible < stone.NumSlots {
		w[action.Place] += reservePlaceBoost
	}
	if snap.Scores.Opponent >= desperateScore {
		w[action.Challenge] += desperateChallenge
		w[action.Boast] += desperateBoast
		w[action.Swap] += desperateSwap
		w[action.Peek] = 0
	}
	if !hasReserve {
		w[action.Place] = 0
	}
	if visible == 0 {
		w[action.Flip] = 0
	}
	if hidden <= lowAmbiguityHidden {
		// too little ambiguity to challenge or boast profitably; hide more instead
		w[action.Challenge] = 0
		w[action.Boast] = 0
		if visible > 0 {
			w[action.Flip] += lowAmbiguityFlip
		}
	}
	if e.profile.Cautious && len(e.uncertainHidden(board)) > 0 {
		w[action.Peek] += cautiousPeekBoost
	}
	w[action.Peek] += unknownPeekPerSlot * float64(e.unknownHidden(board))
	return w
}

// commit records a decision the engine is about to return
func (e *Engine) commit(d action.Decision) action.Decision {
	e.history.Push(d)
	if d.Kind == action.Peek {
		e.peekedAt[d.Target] = e.clock.Now()
	}
	e.metrics.recordDecision(e.profile.Name, d)
	e.logger.Debug("Decision made", "decision", d.String())
	return d
}

// unknownHidden counts hidden slots with no belief or a weak one
func (e *Engine) unknownHidden(board *stone.Board) int {
	n := 0
	for _, slot := range board.Hidden() {
		if e.beliefs.Confidence(slot) < unknownConfidence {
			n++
		}
	}
	return n
}

// uncertainHidden returns hidden slots below the profile's peek threshold
func (e *Engine) uncertainHidden(board *stone.Board) []stone.Slot {
	var out []stone.Slot
	for _, slot := range board.Hidden() {
		if e.beliefs.Confidence(slot) < e.profile.PeekConfidenceThreshold {
			out = append(out, slot)
		}
	}
	return out
}
