package simulator

import (
	rand "math/rand/v2"

	"github.com/lox/stonetell/internal/stone"
)

// WinningScore ends a game as soon as either player reaches it
const WinningScore = 3

// table is the referee's private view: the true identity of every stone
type table struct {
	slots   stone.Board
	reserve []stone.Kind
	scores  stone.Scores
}

func newTable(rng *rand.Rand) *table {
	reserve := stone.AllKinds()
	rng.Shuffle(len(reserve), func(i, j int) { reserve[i], reserve[j] = reserve[j], reserve[i] })
	return &table{reserve: reserve}
}

// view returns what a player may see: hidden stones carry no identity. The
// scores are reported from the perspective of who.
func (t *table) view(who stone.Actor) *stone.Snapshot {
	b := t.slots
	for i := range b {
		if b[i].State == stone.Hidden {
			b[i].Kind = 0
		}
	}
	scores := t.scores
	if who == stone.Opponent {
		scores = stone.Scores{Self: t.scores.Opponent, Opponent: t.scores.Self}
	}
	reserve := append([]stone.Kind(nil), t.reserve...)
	return &stone.Snapshot{Board: &b, Reserve: reserve, Scores: scores, TurnOwner: who}
}

func (t *table) place(slot stone.Slot) stone.Kind {
	k := t.reserve[0]
	t.reserve = t.reserve[1:]
	t.slots[slot] = stone.SlotContents{State: stone.Visible, Kind: k}
	return k
}

func (t *table) flip(slot stone.Slot) stone.Kind {
	t.slots[slot].State = stone.Hidden
	return t.slots[slot].Kind
}

func (t *table) reveal(slot stone.Slot) stone.Kind {
	t.slots[slot].State = stone.Visible
	return t.slots[slot].Kind
}

func (t *table) swap(a, b stone.Slot) {
	t.slots[a], t.slots[b] = t.slots[b], t.slots[a]
}

func (t *table) truth(slot stone.Slot) stone.Kind {
	return t.slots[slot].Kind
}

func (t *table) award(who stone.Actor, points int) {
	if who == stone.Self {
		t.scores.Self += points
	} else {
		t.scores.Opponent += points
	}
}

// winner reports who has reached the winning score, if anyone
func (t *table) winner() (stone.Actor, bool) {
	switch {
	case t.scores.Self >= WinningScore:
		return stone.Self, true
	case t.scores.Opponent >= WinningScore:
		return stone.Opponent, true
	}
	return 0, false
}
