package engine

import (
	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/personality"
	"github.com/lox/stonetell/internal/randutil"
	"github.com/lox/stonetell/internal/stone"
)

const auditMinCertain = 4

// signatureMove returns the profile's deterministic override, if its trigger
// holds on this board
func (e *Engine) signatureMove(board *stone.Board) (action.Decision, bool) {
	switch e.profile.Signature {
	case personality.Audit:
		return e.audit(board)
	case personality.Bait:
		return e.bait(board)
	case personality.ChaoticChain:
		return e.chaoticChain(board)
	}
	return action.Decision{}, false
}

// audit re-checks the shakiest hidden stone once most of the board is known
func (e *Engine) audit(board *stone.Board) (action.Decision, bool) {
	if e.beliefs.CountAbove(certainConfidence) < auditMinCertain {
		return action.Decision{}, false
	}
	uncertain := e.uncertainHidden(board)
	if len(uncertain) == 0 {
		return action.Decision{}, false
	}

	target := uncertain[0]
	for _, slot := range uncertain[1:] {
		if e.beliefs.Confidence(slot) < e.beliefs.Confidence(target) {
			target = slot
		}
	}
	return action.PeekAt(target).Tagged(personality.Audit.String()), true
}

// bait hides the stone just placed before the opponent has studied it
func (e *Engine) bait(board *stone.Board) (action.Decision, bool) {
	last, ok := e.history.Last()
	if !ok || last.Kind != action.Place || !board.IsVisible(last.Target) {
		return action.Decision{}, false
	}
	return action.FlipAt(last.Target).Tagged(personality.Bait.String()), true
}

// chaoticChain follows a plain swap with a second swap involving one of the
// same stones. A chain never extends itself.
func (e *Engine) chaoticChain(board *stone.Board) (action.Decision, bool) {
	last, ok := e.history.Last()
	if !ok || last.Kind != action.Swap || last.Signature != "" {
		return action.Decision{}, false
	}

	occupied := board.Occupied()
	anchors := make([]stone.Slot, 0, 2)
	for _, slot := range []stone.Slot{last.From, last.To} {
		if board.At(slot).State != stone.Empty {
			anchors = append(anchors, slot)
		}
	}
	thirds := without(occupied, last.From, last.To)

	anchor, ok := randutil.Pick(e.rng, anchors)
	if !ok {
		return action.Decision{}, false
	}
	third, ok := randutil.Pick(e.rng, thirds)
	if !ok {
		return action.Decision{}, false
	}
	return action.SwapSlots(anchor, third).Tagged(personality.ChaoticChain.String()), true
}
