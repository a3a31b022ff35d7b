// Package personality defines the immutable profiles that tune every part of
// the engine: memory retention, action weights and signature tactics.
package personality

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/stonetell/internal/action"
)

// ErrUnknownProfile is returned when a profile name is not registered
var ErrUnknownProfile = errors.New("unknown personality profile")

// ChallengeStrategy selects how challenge targets are picked and how boasts
// are answered
type ChallengeStrategy int

const (
	OldestHidden ChallengeStrategy = iota
	Chaos
	PressureSmart
	Blind
)

func (c ChallengeStrategy) String() string {
	switch c {
	case OldestHidden:
		return "oldest_hidden"
	case Chaos:
		return "chaos"
	case PressureSmart:
		return "pressure_smart"
	case Blind:
		return "blind"
	default:
		return "unknown"
	}
}

// OpeningStrategy selects placement order early in the game
type OpeningStrategy int

const (
	Compact OpeningStrategy = iota
	Spread
	Pressure
)

func (o OpeningStrategy) String() string {
	switch o {
	case Compact:
		return "compact"
	case Spread:
		return "spread"
	case Pressure:
		return "pressure"
	default:
		return "unknown"
	}
}

// SignatureStyle names the deterministic override a profile may use
type SignatureStyle int

const (
	NoSignature SignatureStyle = iota
	Audit
	Bait
	ChaoticChain
)

func (s SignatureStyle) String() string {
	switch s {
	case Audit:
		return "Audit"
	case Bait:
		return "Bait"
	case ChaoticChain:
		return "ChaoticChain"
	default:
		return "none"
	}
}

// Profile is a complete personality. It is a plain value with no reference
// fields, so copies can be shared freely and never change.
type Profile struct {
	Name                    string
	Retention               float64
	SwapConfusionPenalty    float64
	BaseWeights             action.Weights
	PeekConfidenceThreshold float64
	Challenge               ChallengeStrategy
	Opening                 OpeningStrategy
	// Cautious profiles boost peeking while any hidden stone is uncertain
	Cautious  bool
	Signature SignatureStyle
}

// DefaultPeekConfidenceThreshold applies when a profile leaves it unset
const DefaultPeekConfidenceThreshold = 0.85

// Validate checks that every tunable lies in its legal range
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	if p.Retention <= 0 || p.Retention > 1 {
		return fmt.Errorf("profile %s: retention must be in (0, 1], got %v", p.Name, p.Retention)
	}
	if p.SwapConfusionPenalty < 0 || p.SwapConfusionPenalty >= 1 {
		return fmt.Errorf("profile %s: swap confusion penalty must be in [0, 1), got %v", p.Name, p.SwapConfusionPenalty)
	}
	if p.PeekConfidenceThreshold <= 0 || p.PeekConfidenceThreshold > 1 {
		return fmt.Errorf("profile %s: peek confidence threshold must be in (0, 1], got %v", p.Name, p.PeekConfidenceThreshold)
	}
	for _, k := range action.Kinds() {
		if p.BaseWeights[k] < 0 {
			return fmt.Errorf("profile %s: weight for %s must not be negative", p.Name, k)
		}
	}
	if p.BaseWeights.Total() == 0 {
		return fmt.Errorf("profile %s: at least one action weight must be positive", p.Name)
	}
	return nil
}

func weights(place, swap, flip, challenge, peek, boast, pass float64) action.Weights {
	var w action.Weights
	w[action.Place] = place
	w[action.Swap] = swap
	w[action.Flip] = flip
	w[action.Challenge] = challenge
	w[action.Peek] = peek
	w[action.Boast] = boast
	w[action.Pass] = pass
	return w
}

var builtins = []Profile{
	{
		Name:                    "Analytical",
		Retention:               0.97,
		SwapConfusionPenalty:    0.15,
		BaseWeights:             weights(1.0, 0.6, 0.4, 0.5, 1.0, 0.2, 0.1),
		PeekConfidenceThreshold: 0.85,
		Challenge:               OldestHidden,
		Opening:                 Compact,
		Cautious:                true,
		Signature:               Audit,
	},
	{
		Name:                    "Aggressive",
		Retention:               0.92,
		SwapConfusionPenalty:    0.25,
		BaseWeights:             weights(1.2, 0.8, 0.6, 1.0, 0.3, 0.6, 0.05),
		PeekConfidenceThreshold: 0.7,
		Challenge:               PressureSmart,
		Opening:                 Pressure,
		Signature:               Bait,
	},
	{
		Name:                    "Trickster",
		Retention:               0.9,
		SwapConfusionPenalty:    0.2,
		BaseWeights:             weights(0.8, 1.4, 0.7, 0.6, 0.4, 0.5, 0.1),
		PeekConfidenceThreshold: 0.8,
		Challenge:               Chaos,
		Opening:                 Spread,
		Signature:               ChaoticChain,
	},
	{
		Name:                    "Novice",
		Retention:               0.85,
		SwapConfusionPenalty:    0.35,
		BaseWeights:             weights(1.0, 0.4, 0.5, 0.5, 0.5, 0.2, 0.3),
		PeekConfidenceThreshold: DefaultPeekConfidenceThreshold,
		Challenge:               Blind,
		Opening:                 Spread,
	},
}

// Builtins returns the shipped profiles
func Builtins() []Profile {
	out := make([]Profile, len(builtins))
	copy(out, builtins)
	return out
}

// Builtin returns the shipped profile with the given name
func Builtin(name string) (Profile, error) {
	for _, p := range builtins {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
}

// Find looks name up in extra first, then among the builtins
func Find(name string, extra []Profile) (Profile, error) {
	for _, p := range extra {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Builtin(name)
}

// Default is the profile used when a caller does not pick one
func Default() Profile {
	return builtins[0]
}
