package stone

import (
	"errors"
	"fmt"
	"strings"
)

// NumSlots is the length of the line of play
const NumSlots = 7

// ErrBadBoard is returned when board notation cannot be parsed
var ErrBadBoard = errors.New("invalid board notation")

// Slot is a board position in [0, NumSlots)
type Slot int

// Valid reports whether the slot lies on the board
func (s Slot) Valid() bool {
	return s >= 0 && s < NumSlots
}

// State is the visibility of a slot's contents
type State int

const (
	Empty State = iota
	Visible
	Hidden
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Visible:
		return "visible"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// SlotContents describes one slot. Kind is only meaningful when Visible;
// the engine never reads Kind for a Hidden slot.
type SlotContents struct {
	State State
	Kind  Kind
}

// Board is the ordered line of seven slots
type Board [NumSlots]SlotContents

// Scores holds the points of both players
type Scores struct {
	Self     int
	Opponent int
}

// Snapshot is the read-only view of the game passed into every engine call.
// Board may be nil when the caller has no board yet.
type Snapshot struct {
	Board     *Board
	Reserve   []Kind
	Scores    Scores
	TurnOwner Actor
}

// At returns the contents of a slot; out-of-range slots read as Empty
func (b *Board) At(s Slot) SlotContents {
	if b == nil || !s.Valid() {
		return SlotContents{}
	}
	return b[s]
}

// IsHidden reports whether slot s holds a face-down stone
func (b *Board) IsHidden(s Slot) bool {
	return b.At(s).State == Hidden
}

// IsVisible reports whether slot s holds a face-up stone
func (b *Board) IsVisible(s Slot) bool {
	return b.At(s).State == Visible
}

func (b *Board) slotsIn(states ...State) []Slot {
	if b == nil {
		return nil
	}
	var out []Slot
	for i, c := range b {
		for _, st := range states {
			if c.State == st {
				out = append(out, Slot(i))
				break
			}
		}
	}
	return out
}

// Hidden returns the face-down slots in board order
func (b *Board) Hidden() []Slot { return b.slotsIn(Hidden) }

// Visible returns the face-up slots in board order
func (b *Board) Visible() []Slot { return b.slotsIn(Visible) }

// Empty returns the unoccupied slots in board order
func (b *Board) Empty() []Slot { return b.slotsIn(Empty) }

// Occupied returns every slot holding a stone, face up or down
func (b *Board) Occupied() []Slot { return b.slotsIn(Visible, Hidden) }

// HiddenCount returns the number of face-down stones
func (b *Board) HiddenCount() int { return len(b.Hidden()) }

// VisibleCount returns the number of face-up stones
func (b *Board) VisibleCount() int { return len(b.Visible()) }

// VisibleKinds returns the set of kinds showing face up, skipping slot except
// when except is out of range
func (b *Board) VisibleKinds(except Slot) KindSet {
	var set KindSet
	for _, s := range b.Visible() {
		if s == except {
			continue
		}
		set = set.Add(b[s].Kind)
	}
	return set
}

// String renders the board in the notation accepted by ParseBoard
func (b *Board) String() string {
	if b == nil {
		return "<nil>"
	}
	var sb strings.Builder
	for _, c := range b {
		switch c.State {
		case Visible:
			sb.WriteByte(c.Kind.Letter())
		case Hidden:
			sb.WriteByte('?')
		default:
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// ParseBoard reads seven characters: a kind letter for a face-up stone,
// '?' for a face-down stone and '.' for an empty slot.
func ParseBoard(s string) (*Board, error) {
	if len(s) != NumSlots {
		return nil, fmt.Errorf("%w: want %d slots, got %d", ErrBadBoard, NumSlots, len(s))
	}
	var b Board
	for i := 0; i < NumSlots; i++ {
		switch s[i] {
		case '.':
			b[i] = SlotContents{State: Empty}
		case '?':
			b[i] = SlotContents{State: Hidden}
		default:
			k, err := ParseKind(s[i : i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: slot %d: %v", ErrBadBoard, i, err)
			}
			b[i] = SlotContents{State: Visible, Kind: k}
		}
	}
	return &b, nil
}

// MustParseBoard is ParseBoard for fixtures; it panics on bad notation
func MustParseBoard(s string) *Board {
	b, err := ParseBoard(s)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseReserve reads a string of kind letters, e.g. "CSW"
func ParseReserve(s string) ([]Kind, error) {
	out := make([]Kind, 0, len(s))
	for i := 0; i < len(s); i++ {
		k, err := ParseKind(s[i : i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}
