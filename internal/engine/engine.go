// Package engine is the opponent-modelling decision engine. It keeps a
// decaying memory of face-down stones, a model of what the opponent
// remembers, and picks moves with personality-weighted randomness.
//
// An Engine is a single-actor, call-and-response object: every method
// returns immediately, nothing sleeps, and callers must serialise calls on
// one instance. No locking is done.
package engine

import (
	"fmt"
	"io"
	rand "math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/belief"
	"github.com/lox/stonetell/internal/chatter"
	"github.com/lox/stonetell/internal/opponent"
	"github.com/lox/stonetell/internal/personality"
	"github.com/lox/stonetell/internal/randutil"
	"github.com/lox/stonetell/internal/rules"
	"github.com/lox/stonetell/internal/stone"
)

// Options configures a new Engine. Zero fields get sensible defaults: the
// default profile, Line rules, the real clock, a time-seeded generator, a
// discarding logger and the embedded chatter catalog. A profile that fails
// validation is replaced by the default profile.
type Options struct {
	Profile personality.Profile
	Oracle  rules.Oracle
	Clock   quartz.Clock
	Rand    *rand.Rand
	Logger  *log.Logger
	Catalog chatter.Catalog
	Metrics *Metrics
}

// Engine is one AI player's private decision state for one game
type Engine struct {
	id       string
	profile  personality.Profile
	beliefs  *belief.State
	opponent *opponent.Model
	oracle   rules.Oracle
	clock    quartz.Clock
	rng      *rand.Rand
	logger   *log.Logger
	speaker  *chatter.Speaker
	metrics  *Metrics
	history  History

	touchedAt map[stone.Slot]time.Time
	peekedAt  map[stone.Slot]time.Time
}

// New creates an engine at game start
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Profile.Name == "" {
		opts.Profile = personality.Default()
	}
	if err := opts.Profile.Validate(); err != nil {
		opts.Logger.Warn("Invalid personality profile, using default", "error", err, "default", personality.Default().Name)
		opts.Profile = personality.Default()
	}
	if opts.Oracle == nil {
		opts.Oracle = rules.Line{}
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Rand == nil {
		opts.Rand = randutil.NewUnseeded()
	}
	if opts.Catalog == nil {
		opts.Catalog = chatter.DefaultCatalog()
	}

	id := uuid.NewString()
	return &Engine{
		id:        id,
		profile:   opts.Profile,
		beliefs:   belief.New(opts.Clock, opts.Profile),
		opponent:  opponent.New(opts.Clock),
		oracle:    opts.Oracle,
		clock:     opts.Clock,
		rng:       opts.Rand,
		logger:    opts.Logger.WithPrefix("engine").With("profile", opts.Profile.Name, "engine", id[:8]),
		speaker:   chatter.NewSpeaker(opts.Catalog, opts.Profile.Name, opts.Rand),
		metrics:   opts.Metrics,
		touchedAt: make(map[stone.Slot]time.Time),
		peekedAt:  make(map[stone.Slot]time.Time),
	}
}

// ID returns the engine's instance identifier
func (e *Engine) ID() string { return e.id }

// Profile returns the engine's personality
func (e *Engine) Profile() personality.Profile { return e.profile }

// OpponentMetrics returns the current opponent model snapshot
func (e *Engine) OpponentMetrics() opponent.Metrics { return e.opponent.Metrics() }

// History returns the engine's own recent decisions, oldest first
func (e *Engine) History() []action.Decision { return e.history.All() }

// Belief returns the engine's belief about slot, if it holds one
func (e *Engine) Belief(slot stone.Slot) (belief.Entry, bool) { return e.beliefs.Get(slot) }

// Observe feeds one event into the belief state and the opponent model. The
// snapshot should reflect the board after the event.
func (e *Engine) Observe(ev action.Event, snap *stone.Snapshot) {
	var board *stone.Board
	var reserve []stone.Kind
	if snap != nil {
		board = snap.Board
		reserve = snap.Reserve
	}

	now := e.clock.Now()
	for _, slot := range ev.Slots() {
		e.touchedAt[slot] = now
	}
	e.opponent.Observe(ev)

	switch ev.Kind {
	case action.Placed, action.Flipped, action.Revealed:
		// all three show the stone face up to both players
		if ev.HasStone {
			e.beliefs.Update(ev.Slot, ev.Stone, 1.0)
		}
	case action.Peeked:
		if ev.Actor == stone.Self {
			e.peekedAt[ev.Slot] = now
			if ev.HasStone {
				e.beliefs.Update(ev.Slot, ev.Stone, 1.0)
			}
		}
	case action.Swapped:
		if board == nil {
			e.logger.Warn("Swap observed without a board, dropping beliefs", "from", ev.Slot, "to", ev.Other)
			e.beliefs.Forget(ev.Slot)
			e.beliefs.Forget(ev.Other)
			return
		}
		e.beliefs.ApplySwap(ev.Slot, ev.Other, board)
	case action.TurnEnded:
		if board == nil {
			e.logger.Warn("Turn end observed without a board, skipping decay")
			return
		}
		e.beliefs.Decay(board)
		if slot, kind, ok := e.beliefs.InferByElimination(board, reserve); ok {
			e.metrics.recordElimination(e.profile.Name)
			e.logger.Debug("Deduced stone by elimination", "slot", slot, "stone", kind)
		}
	}

	e.logger.Debug("Observed event",
		"event", ev.String(),
		"beliefs", e.beliefs.Len(),
		"sharpness", e.opponent.Sharpness())
}

// DebugStats renders the belief state and opponent model for diagnostics
func (e *Engine) DebugStats() string {
	m := e.opponent.Metrics()

	var sb strings.Builder
	fmt.Fprintf(&sb, "engine=%s profile=%s beliefs=%d sharpness=%.2f known=%d\n",
		e.id[:8], e.profile.Name, e.beliefs.Len(), m.Sharpness, m.KnownSlotCount)
	for slot := stone.Slot(0); slot < stone.NumSlots; slot++ {
		entry, ok := e.beliefs.Get(slot)
		if !ok {
			fmt.Fprintf(&sb, "  slot %d: -\n", slot)
			continue
		}
		fmt.Fprintf(&sb, "  slot %d: %-7s %.3f\n", slot, entry.Kind, entry.Confidence)
	}
	return sb.String()
}
