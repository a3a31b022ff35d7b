package action

import (
	"fmt"

	"github.com/lox/stonetell/internal/stone"
)

// EventKind is the type of an observation pushed into the engine
type EventKind int

const (
	Placed EventKind = iota
	Flipped
	Peeked
	Revealed
	Swapped
	TurnEnded
)

func (k EventKind) String() string {
	switch k {
	case Placed:
		return "placed"
	case Flipped:
		return "flipped"
	case Peeked:
		return "peeked"
	case Revealed:
		return "revealed"
	case Swapped:
		return "swapped"
	case TurnEnded:
		return "turn-ended"
	default:
		return "unknown"
	}
}

// Event is something the engine observed happen on the board. Other is only
// used by Swapped. Stone is only meaningful when HasStone is set; a Peeked
// event by the opponent, for example, carries no stone.
type Event struct {
	Kind     EventKind
	Slot     stone.Slot
	Other    stone.Slot
	Stone    stone.Kind
	HasStone bool
	Actor    stone.Actor
}

// PlacedEvent reports a stone placed face up at slot
func PlacedEvent(actor stone.Actor, slot stone.Slot, k stone.Kind) Event {
	return Event{Kind: Placed, Slot: slot, Stone: k, HasStone: true, Actor: actor}
}

// FlippedEvent reports the face-up stone at slot being turned face down
func FlippedEvent(actor stone.Actor, slot stone.Slot, k stone.Kind) Event {
	return Event{Kind: Flipped, Slot: slot, Stone: k, HasStone: true, Actor: actor}
}

// PeekedEvent reports a private look at slot. Only Self peeks carry a stone.
func PeekedEvent(actor stone.Actor, slot stone.Slot, k stone.Kind, seen bool) Event {
	return Event{Kind: Peeked, Slot: slot, Stone: k, HasStone: seen, Actor: actor}
}

// RevealedEvent reports the stone at slot shown to both players
func RevealedEvent(actor stone.Actor, slot stone.Slot, k stone.Kind) Event {
	return Event{Kind: Revealed, Slot: slot, Stone: k, HasStone: true, Actor: actor}
}

// SwappedEvent reports the stones at from and to exchanging places
func SwappedEvent(actor stone.Actor, from, to stone.Slot) Event {
	return Event{Kind: Swapped, Slot: from, Other: to, Actor: actor}
}

// TurnEndedEvent marks the end of a turn
func TurnEndedEvent(actor stone.Actor) Event {
	return Event{Kind: TurnEnded, Actor: actor}
}

// Slots returns the slots the event touches
func (e Event) Slots() []stone.Slot {
	switch e.Kind {
	case Swapped:
		return []stone.Slot{e.Slot, e.Other}
	case TurnEnded:
		return nil
	default:
		return []stone.Slot{e.Slot}
	}
}

func (e Event) String() string {
	switch e.Kind {
	case Swapped:
		return fmt.Sprintf("%s swapped %d<->%d", e.Actor, e.Slot, e.Other)
	case TurnEnded:
		return fmt.Sprintf("%s turn ended", e.Actor)
	}
	if e.HasStone {
		return fmt.Sprintf("%s %s %d (%s)", e.Actor, e.Kind, e.Slot, e.Stone)
	}
	return fmt.Sprintf("%s %s %d", e.Actor, e.Kind, e.Slot)
}
