package engine

import (
	"time"

	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/chatter"
	"github.com/lox/stonetell/internal/randutil"
)

const (
	quickThink       = 800 * time.Millisecond
	quickJitter      = 500 * time.Millisecond
	sureChallenge    = 600 * time.Millisecond
	sureJitter       = 400 * time.Millisecond
	swapThink        = 3000 * time.Millisecond
	peekThink        = 2500 * time.Millisecond
	defaultThink     = 1500 * time.Millisecond
	deliberateJitter = 2000 * time.Millisecond
)

// ThinkTime suggests how long the caller should wait before playing d, so the
// engine looks like it is thinking. The engine itself never waits.
func (e *Engine) ThinkTime(d action.Decision) time.Duration {
	switch d.Kind {
	case action.Place, action.Boast:
		return quickThink + randutil.Jitter(e.rng, quickJitter)
	case action.Challenge:
		if e.beliefs.Confidence(d.Target) > certainConfidence {
			return sureChallenge + randutil.Jitter(e.rng, sureJitter)
		}
		return defaultThink + randutil.Jitter(e.rng, deliberateJitter)
	case action.Swap:
		return swapThink + randutil.Jitter(e.rng, deliberateJitter)
	case action.Peek:
		return peekThink + randutil.Jitter(e.rng, deliberateJitter)
	default:
		return defaultThink + randutil.Jitter(e.rng, deliberateJitter)
	}
}

// Chatter returns a line of table talk for cue, or false when there is
// nothing fresh to say
func (e *Engine) Chatter(cue chatter.Cue) (string, bool) {
	return e.speaker.Say(cue, e.opponent.Sharpness())
}

// DecisionCue maps a decision to the chatter cue that announces it
func DecisionCue(d action.Decision) chatter.Cue {
	switch d.Kind {
	case action.Place:
		return chatter.CuePlace
	case action.Swap:
		return chatter.CueSwap
	case action.Flip:
		return chatter.CueFlip
	case action.Challenge:
		return chatter.CueChallenge
	case action.Peek:
		return chatter.CuePeek
	case action.Boast:
		return chatter.CueBoast
	default:
		return chatter.CuePass
	}
}
