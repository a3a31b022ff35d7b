package personality

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/stonetell/internal/action"
)

// FileConfig is the top-level shape of a profiles file
type FileConfig struct {
	Profiles []ProfileConfig `hcl:"profile,block"`
}

// ProfileConfig is one profile block. Unset fields fall back to the profile
// named by Extends, or to the default profile.
type ProfileConfig struct {
	Name                    string         `hcl:"name,label"`
	Extends                 *string        `hcl:"extends,optional"`
	Retention               *float64       `hcl:"retention,optional"`
	SwapConfusionPenalty    *float64       `hcl:"swap_confusion_penalty,optional"`
	PeekConfidenceThreshold *float64       `hcl:"peek_confidence_threshold,optional"`
	ChallengeStrategy       *string        `hcl:"challenge_strategy,optional"`
	OpeningStrategy         *string        `hcl:"opening_strategy,optional"`
	Cautious                *bool          `hcl:"cautious,optional"`
	Signature               *string        `hcl:"signature,optional"`
	Weights                 *WeightsConfig `hcl:"weights,block"`
}

// WeightsConfig overrides individual base weights
type WeightsConfig struct {
	Place     *float64 `hcl:"place,optional"`
	Swap      *float64 `hcl:"swap,optional"`
	Flip      *float64 `hcl:"flip,optional"`
	Challenge *float64 `hcl:"challenge,optional"`
	Peek      *float64 `hcl:"peek,optional"`
	Boast     *float64 `hcl:"boast,optional"`
	Pass      *float64 `hcl:"pass,optional"`
}

// LoadFile parses profiles from an HCL file
func LoadFile(filename string) ([]Profile, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source into validated profiles
func Parse(src []byte, filename string) ([]Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config FileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	profiles := make([]Profile, 0, len(config.Profiles))
	seen := make(map[string]bool)
	for _, pc := range config.Profiles {
		key := strings.ToLower(pc.Name)
		if seen[key] {
			return nil, fmt.Errorf("profile %s defined more than once", pc.Name)
		}
		seen[key] = true

		p, err := pc.build()
		if err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (pc ProfileConfig) build() (Profile, error) {
	base := Default()
	if pc.Extends != nil {
		b, err := Builtin(*pc.Extends)
		if err != nil {
			return Profile{}, fmt.Errorf("profile %s: %w", pc.Name, err)
		}
		base = b
	}
	p := base
	p.Name = pc.Name

	if pc.Retention != nil {
		p.Retention = *pc.Retention
	}
	if pc.SwapConfusionPenalty != nil {
		p.SwapConfusionPenalty = *pc.SwapConfusionPenalty
	}
	if pc.PeekConfidenceThreshold != nil {
		p.PeekConfidenceThreshold = *pc.PeekConfidenceThreshold
	}
	if pc.Cautious != nil {
		p.Cautious = *pc.Cautious
	}
	if pc.ChallengeStrategy != nil {
		c, err := parseChallenge(*pc.ChallengeStrategy)
		if err != nil {
			return Profile{}, fmt.Errorf("profile %s: %w", pc.Name, err)
		}
		p.Challenge = c
	}
	if pc.OpeningStrategy != nil {
		o, err := parseOpening(*pc.OpeningStrategy)
		if err != nil {
			return Profile{}, fmt.Errorf("profile %s: %w", pc.Name, err)
		}
		p.Opening = o
	}
	if pc.Signature != nil {
		s, err := parseSignature(*pc.Signature)
		if err != nil {
			return Profile{}, fmt.Errorf("profile %s: %w", pc.Name, err)
		}
		p.Signature = s
	}
	if pc.Weights != nil {
		pc.Weights.apply(&p.BaseWeights)
	}
	return p, nil
}

func (wc *WeightsConfig) apply(w *action.Weights) {
	set := func(k action.Kind, v *float64) {
		if v != nil {
			w[k] = *v
		}
	}
	set(action.Place, wc.Place)
	set(action.Swap, wc.Swap)
	set(action.Flip, wc.Flip)
	set(action.Challenge, wc.Challenge)
	set(action.Peek, wc.Peek)
	set(action.Boast, wc.Boast)
	set(action.Pass, wc.Pass)
}

func parseChallenge(s string) (ChallengeStrategy, error) {
	for _, c := range []ChallengeStrategy{OldestHidden, Chaos, PressureSmart, Blind} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("invalid challenge strategy %q", s)
}

func parseOpening(s string) (OpeningStrategy, error) {
	for _, o := range []OpeningStrategy{Compact, Spread, Pressure} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("invalid opening strategy %q", s)
}

func parseSignature(s string) (SignatureStyle, error) {
	for _, sig := range []SignatureStyle{NoSignature, Audit, Bait, ChaoticChain} {
		if strings.EqualFold(sig.String(), s) {
			return sig, nil
		}
	}
	return 0, fmt.Errorf("invalid signature %q", s)
}
