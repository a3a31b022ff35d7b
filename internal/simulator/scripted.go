package simulator

import (
	rand "math/rand/v2"
	"time"

	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/randutil"
	"github.com/lox/stonetell/internal/rules"
	"github.com/lox/stonetell/internal/stone"
)

const (
	// forgetRate is the chance, per opponent turn, of losing each memory
	forgetRate    = 0.1
	doubtRate     = 0.5
	minOppThink   = 500 * time.Millisecond
	oppThinkRange = 11500 * time.Millisecond
	boastMinimum  = 3
)

// scripted is a random opponent with a leaky but honest memory
type scripted struct {
	rng    *rand.Rand
	oracle rules.Oracle
	memory map[stone.Slot]stone.Kind
}

func newScripted(rng *rand.Rand, oracle rules.Oracle) *scripted {
	return &scripted{rng: rng, oracle: oracle, memory: make(map[stone.Slot]stone.Kind)}
}

func (o *scripted) remember(slot stone.Slot, k stone.Kind) {
	o.memory[slot] = k
}

func (o *scripted) swapped(a, b stone.Slot) {
	ka, okA := o.memory[a]
	kb, okB := o.memory[b]
	delete(o.memory, a)
	delete(o.memory, b)
	if okA {
		o.memory[b] = ka
	}
	if okB {
		o.memory[a] = kb
	}
}

func (o *scripted) forget() {
	for slot := stone.Slot(0); slot < stone.NumSlots; slot++ {
		if _, ok := o.memory[slot]; ok && randutil.Chance(o.rng, forgetRate) {
			delete(o.memory, slot)
		}
	}
}

func (o *scripted) thinkTime() time.Duration {
	return minOppThink + randutil.Jitter(o.rng, oppThinkRange)
}

// knowsAll reports whether every hidden stone is remembered correctly
func (o *scripted) knowsAll(t *table) bool {
	for _, slot := range t.slots.Hidden() {
		if k, ok := o.memory[slot]; !ok || k != t.truth(slot) {
			return false
		}
	}
	return true
}

// choose picks uniformly among the kinds of move currently open to it
func (o *scripted) choose(view *stone.Snapshot, t *table) action.Decision {
	board := view.Board
	var options []action.Decision

	if len(view.Reserve) > 0 {
		if slot, ok := randutil.Pick(o.rng, emptyAllowed(o.oracle, board)); ok {
			options = append(options, action.PlaceAt(slot))
		}
	}
	if slot, ok := randutil.Pick(o.rng, board.Visible()); ok {
		options = append(options, action.FlipAt(slot))
	}
	if occupied := board.Occupied(); len(occupied) >= 2 {
		o.rng.Shuffle(len(occupied), func(i, j int) { occupied[i], occupied[j] = occupied[j], occupied[i] })
		options = append(options, action.SwapSlots(occupied[0], occupied[1]))
	}

	hidden := board.Hidden()
	var unknown []stone.Slot
	for _, slot := range hidden {
		if _, ok := o.memory[slot]; !ok {
			unknown = append(unknown, slot)
		}
	}
	if slot, ok := randutil.Pick(o.rng, unknown); ok {
		options = append(options, action.PeekAt(slot))
	}
	if slot, ok := randutil.Pick(o.rng, hidden); ok {
		options = append(options, action.ChallengeAt(slot))
	}
	if len(hidden) >= boastMinimum && o.knowsAll(t) {
		options = append(options, action.BoastAll())
	}

	if d, ok := randutil.Pick(o.rng, options); ok {
		return d
	}
	return action.PassTurn()
}

// name answers a challenge from memory, or guesses among the kinds not
// showing face up
func (o *scripted) name(slot stone.Slot, view *stone.Snapshot) stone.Kind {
	if k, ok := o.memory[slot]; ok {
		return k
	}
	if k, ok := randutil.Pick(o.rng, view.Board.VisibleKinds(slot).Missing()); ok {
		return k
	}
	k, _ := randutil.Pick(o.rng, stone.AllKinds())
	return k
}

func (o *scripted) doubts() bool {
	return randutil.Chance(o.rng, doubtRate)
}

func emptyAllowed(oracle rules.Oracle, board *stone.Board) []stone.Slot {
	allowed := oracle.ValidPlacementSlots(board)
	var out []stone.Slot
	for _, slot := range allowed {
		if slot.Valid() && board.At(slot).State == stone.Empty {
			out = append(out, slot)
		}
	}
	return out
}
