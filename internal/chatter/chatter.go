// Package chatter picks personality-flavoured table talk from a line catalog.
package chatter

import (
	_ "embed"
	"fmt"
	rand "math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lox/stonetell/internal/randutil"
)

// Cue is the situation a line responds to
type Cue string

const (
	CuePlace         Cue = "place"
	CueSwap          Cue = "swap"
	CueFlip          Cue = "flip"
	CueChallenge     Cue = "challenge"
	CuePeek          Cue = "peek"
	CueBoast         Cue = "boast"
	CuePass          Cue = "pass"
	CueChallengeWon  Cue = "challenge_won"
	CueChallengeLost Cue = "challenge_lost"
	CueOpponentBoast Cue = "opponent_boast"
	CueSlowOpponent  Cue = "slow_opponent"
)

// DefaultSection answers for profiles with no lines of their own
const DefaultSection = "default"

const (
	slowSharpness = 0.3
	tauntDraw     = 0.6
)

//go:embed lines.yaml
var defaultLines []byte

// Catalog maps profile name to cue to candidate lines
type Catalog map[string]map[Cue][]string

// DefaultCatalog returns the embedded catalog
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultLines)
	if err != nil {
		panic(fmt.Sprintf("embedded chatter catalog is invalid: %v", err))
	}
	return c
}

// ParseCatalog decodes a YAML catalog
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse chatter catalog: %w", err)
	}
	if c == nil {
		c = Catalog{}
	}
	return c, nil
}

// LoadCatalog reads a YAML catalog from disk
func LoadCatalog(filename string) (Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read chatter catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Lines returns the lines for a profile and cue, falling back to the default
// section when the profile has none
func (c Catalog) Lines(profile string, cue Cue) []string {
	if lines := c[profile][cue]; len(lines) > 0 {
		return lines
	}
	return c[DefaultSection][cue]
}

// Speaker hands out lines for one profile and never says the same line twice
// in a row.
type Speaker struct {
	catalog Catalog
	profile string
	rng     *rand.Rand
	last    string
}

// NewSpeaker creates a speaker for a profile
func NewSpeaker(catalog Catalog, profile string, rng *rand.Rand) *Speaker {
	if rng == nil {
		rng = randutil.NewUnseeded()
	}
	return &Speaker{catalog: catalog, profile: profile, rng: rng}
}

// Say picks a line for cue. A sluggish opponent sometimes gets a taunt
// instead. It returns false when no fresh line is available.
func (s *Speaker) Say(cue Cue, opponentSharpness float64) (string, bool) {
	if opponentSharpness < slowSharpness && s.rng.Float64() > tauntDraw {
		cue = CueSlowOpponent
	}

	candidates := make([]string, 0, 4)
	for _, line := range s.catalog.Lines(s.profile, cue) {
		if line != "" && line != s.last {
			candidates = append(candidates, line)
		}
	}

	line, ok := randutil.Pick(s.rng, candidates)
	if !ok {
		return "", false
	}
	s.last = line
	return line, true
}
