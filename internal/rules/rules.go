// Package rules provides placement oracles. The engine never decides
// legality itself; it asks an Oracle which slots accept a new stone.
package rules

import (
	"fmt"
	"strings"

	"github.com/lox/stonetell/internal/stone"
)

// Oracle reports the slots a stone may legally be placed into
type Oracle interface {
	ValidPlacementSlots(board *stone.Board) []stone.Slot
}

// OracleFunc adapts a function to the Oracle interface
type OracleFunc func(board *stone.Board) []stone.Slot

func (f OracleFunc) ValidPlacementSlots(board *stone.Board) []stone.Slot {
	return f(board)
}

// CenterSlot is where the first stone of a game goes under Line rules
const CenterSlot stone.Slot = 3

// Line is the standard rule set: the first stone goes in the center, every
// later stone must touch the existing line.
type Line struct{}

func (Line) ValidPlacementSlots(board *stone.Board) []stone.Slot {
	if board == nil {
		return nil
	}
	if len(board.Occupied()) == 0 {
		return []stone.Slot{CenterSlot}
	}
	var out []stone.Slot
	for _, s := range board.Empty() {
		if board.At(s-1).State != stone.Empty || board.At(s+1).State != stone.Empty {
			out = append(out, s)
		}
	}
	return out
}

// Open allows a stone in any empty slot
type Open struct{}

func (Open) ValidPlacementSlots(board *stone.Board) []stone.Slot {
	if board == nil {
		return nil
	}
	return board.Empty()
}

// Names lists the rule sets accepted by ByName
var Names = []string{"line", "open"}

// ByName returns the oracle for a rule set name
func ByName(name string) (Oracle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "line":
		return Line{}, nil
	case "open":
		return Open{}, nil
	default:
		return nil, fmt.Errorf("unknown rule set %q (want one of %s)", name, strings.Join(Names, ", "))
	}
}
