// Package action defines the closed set of moves the engine can choose and
// the observations callers feed back to it.
package action

import (
	"fmt"
	"strings"

	"github.com/lox/stonetell/internal/stone"
)

// Kind is one of the seven move kinds
type Kind int

const (
	Place Kind = iota
	Swap
	Flip
	Challenge
	Peek
	Boast
	Pass
)

// NumKinds is the number of move kinds
const NumKinds = 7

// Kinds returns every move kind in weight-vector order
func Kinds() []Kind {
	return []Kind{Place, Swap, Flip, Challenge, Peek, Boast, Pass}
}

// String returns the string representation of a move kind
func (k Kind) String() string {
	switch k {
	case Place:
		return "place"
	case Swap:
		return "swap"
	case Flip:
		return "flip"
	case Challenge:
		return "challenge"
	case Peek:
		return "peek"
	case Boast:
		return "boast"
	case Pass:
		return "pass"
	default:
		return "unknown"
	}
}

// ParseKind converts a lower-case move name into a Kind
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown action kind %q", s)
}

// Weights is a weight per move kind, indexed by Kind
type Weights [NumKinds]float64

// Total returns the sum of the positive weights
func (w Weights) Total() float64 {
	total := 0.0
	for _, v := range w {
		if v > 0 {
			total += v
		}
	}
	return total
}

// String renders the weights as "place=1.00 swap=0.50 ..."
func (w Weights) String() string {
	parts := make([]string, 0, NumKinds)
	for _, k := range Kinds() {
		parts = append(parts, fmt.Sprintf("%s=%.2f", k, w[k]))
	}
	return strings.Join(parts, " ")
}

// Decision is the engine's chosen move. Which slot fields are meaningful
// depends on Kind: Target for Place, Flip, Challenge and Peek; From and To
// for Swap; none for Boast and Pass.
type Decision struct {
	Kind      Kind
	Target    stone.Slot
	From      stone.Slot
	To        stone.Slot
	Signature string
}

func PlaceAt(target stone.Slot) Decision { return Decision{Kind: Place, Target: target} }

func SwapSlots(from, to stone.Slot) Decision { return Decision{Kind: Swap, From: from, To: to} }

func FlipAt(target stone.Slot) Decision { return Decision{Kind: Flip, Target: target} }

func ChallengeAt(target stone.Slot) Decision { return Decision{Kind: Challenge, Target: target} }

func PeekAt(target stone.Slot) Decision { return Decision{Kind: Peek, Target: target} }

func BoastAll() Decision { return Decision{Kind: Boast} }

func PassTurn() Decision { return Decision{Kind: Pass} }

// Tagged returns a copy of d carrying a signature tag
func (d Decision) Tagged(signature string) Decision {
	d.Signature = signature
	return d
}

// Valid reports whether the slot fields required by Kind are resolved
func (d Decision) Valid() bool {
	switch d.Kind {
	case Place, Flip, Challenge, Peek:
		return d.Target.Valid()
	case Swap:
		return d.From.Valid() && d.To.Valid() && d.From != d.To
	case Boast, Pass:
		return true
	default:
		return false
	}
}

// Slots returns the slots the decision touches
func (d Decision) Slots() []stone.Slot {
	switch d.Kind {
	case Place, Flip, Challenge, Peek:
		return []stone.Slot{d.Target}
	case Swap:
		return []stone.Slot{d.From, d.To}
	default:
		return nil
	}
}

func (d Decision) String() string {
	var s string
	switch d.Kind {
	case Place, Flip, Challenge, Peek:
		s = fmt.Sprintf("%s %d", d.Kind, d.Target)
	case Swap:
		s = fmt.Sprintf("swap %d<->%d", d.From, d.To)
	default:
		s = d.Kind.String()
	}
	if d.Signature != "" {
		s += " [" + d.Signature + "]"
	}
	return s
}
