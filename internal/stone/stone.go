// Package stone defines the pieces, slots and board snapshots of the
// seven-slot memory game.
package stone

import (
	"fmt"
	"strings"
)

// Kind identifies a stone. There are exactly seven distinct kinds.
type Kind int

const (
	Crown Kind = iota
	Shield
	Sword
	Flag
	Knight
	Hammer
	Scales
)

// NumKinds is the size of the stone alphabet
const NumKinds = 7

// AllKinds returns every stone kind in alphabet order
func AllKinds() []Kind {
	return []Kind{Crown, Shield, Sword, Flag, Knight, Hammer, Scales}
}

// Valid reports whether k belongs to the alphabet
func (k Kind) Valid() bool {
	return k >= Crown && k <= Scales
}

// String returns the string representation of a kind
func (k Kind) String() string {
	switch k {
	case Crown:
		return "Crown"
	case Shield:
		return "Shield"
	case Sword:
		return "Sword"
	case Flag:
		return "Flag"
	case Knight:
		return "Knight"
	case Hammer:
		return "Hammer"
	case Scales:
		return "Scales"
	default:
		return "Unknown"
	}
}

// Letter returns the single-letter board notation for a kind
func (k Kind) Letter() byte {
	switch k {
	case Crown:
		return 'C'
	case Shield:
		return 'S'
	case Sword:
		return 'W'
	case Flag:
		return 'F'
	case Knight:
		return 'K'
	case Hammer:
		return 'H'
	case Scales:
		return 'L'
	default:
		return '!'
	}
}

// ParseKind converts a letter or full name into a Kind
func ParseKind(s string) (Kind, error) {
	if len(s) == 1 {
		letter := strings.ToUpper(s)[0]
		for _, k := range AllKinds() {
			if k.Letter() == letter {
				return k, nil
			}
		}
	}
	for _, k := range AllKinds() {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown stone %q", s)
}

// KindSet is a bitset over the stone alphabet
type KindSet uint8

// Add returns the set with k included
func (s KindSet) Add(k Kind) KindSet {
	if !k.Valid() {
		return s
	}
	return s | 1<<uint(k)
}

// Has reports whether k is in the set
func (s KindSet) Has(k Kind) bool {
	return k.Valid() && s&(1<<uint(k)) != 0
}

// Missing returns the kinds of the alphabet not in the set
func (s KindSet) Missing() []Kind {
	var out []Kind
	for _, k := range AllKinds() {
		if !s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Actor says who performed an observed action
type Actor int

const (
	Self Actor = iota
	Opponent
)

func (a Actor) String() string {
	if a == Self {
		return "self"
	}
	return "opponent"
}
