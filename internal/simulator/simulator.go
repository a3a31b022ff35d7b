// Package simulator referees complete games between the engine and a
// scripted opponent. The referee alone knows every stone; each side only
// ever sees its own view of the table.
package simulator

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/chatter"
	"github.com/lox/stonetell/internal/engine"
	"github.com/lox/stonetell/internal/personality"
	"github.com/lox/stonetell/internal/randutil"
	"github.com/lox/stonetell/internal/rules"
	"github.com/lox/stonetell/internal/statistics"
	"github.com/lox/stonetell/internal/stone"
)

const (
	// DefaultTurns caps a game that nobody manages to win
	DefaultTurns = 60

	engineSeedOffset = 7919
)

// Config holds configuration for running simulations
type Config struct {
	Games   int
	Turns   int // turns per player before a game is drawn
	Profile personality.Profile
	Seed    int64
	Logger  *log.Logger
	Metrics *engine.Metrics
	Catalog chatter.Catalog
	Oracle  rules.Oracle
	// Clock drives every timestamp in a game. Left nil, the simulator keeps
	// its own virtual clock and advances it by each think time, so games run
	// at full speed while time-based rules still see realistic gaps. A
	// supplied clock is never advanced by the simulator; use Pace for that.
	Clock quartz.Clock
	// Pace is handed every think time, the engine's and the opponent's, after
	// any virtual clock has moved. nil plays as fast as possible.
	Pace func(time.Duration)
}

// Simulator runs engine-versus-script games
type Simulator struct {
	config  Config
	virtual *virtualClock
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Turns <= 0 {
		config.Turns = DefaultTurns
	}
	if config.Profile.Name == "" {
		config.Profile = personality.Default()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Oracle == nil {
		config.Oracle = rules.Line{}
	}

	s := &Simulator{}
	if config.Clock == nil {
		s.virtual = newVirtualClock(simulationEpoch)
		config.Clock = s.virtual
	}
	s.config = config
	return s
}

// Run plays every configured game in sequence and returns the aggregate
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	stats := &statistics.Statistics{}

	for i := 0; i < s.config.Games; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation stopped after %d games: %w", i, err)
		}
		result := s.playGame(s.config.Seed + int64(i))
		stats.Add(result)
		s.config.Logger.Info("Game finished",
			"game", i+1,
			"seed", result.Seed,
			"outcome", result.Outcome,
			"turns", result.Turns,
			"accuracy", fmt.Sprintf("%.2f", result.Accuracy()))
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// game is one referee'd game in progress
type game struct {
	cfg     Config
	virtual *virtualClock
	table   *table
	eng     *engine.Engine
	opp     *scripted
	oracle  rules.Oracle
	logger  *log.Logger
	result  statistics.GameResult
}

func (s *Simulator) playGame(seed int64) statistics.GameResult {
	g := s.newGame(seed)
	for turn := 0; turn < s.config.Turns; turn++ {
		if g.round() {
			break
		}
	}

	g.logger.Debug("Final state", "stats", g.eng.DebugStats())
	return g.result
}

func (s *Simulator) newGame(seed int64) *game {
	refRng := randutil.New(seed)
	oracle := s.config.Oracle
	logger := s.config.Logger.With("seed", seed)

	g := &game{
		cfg:     s.config,
		virtual: s.virtual,
		table:   newTable(refRng),
		eng: engine.New(engine.Options{
			Profile: s.config.Profile,
			Oracle:  oracle,
			Clock:   s.config.Clock,
			Rand:    randutil.New(seed + engineSeedOffset),
			Logger:  logger,
			Catalog: s.config.Catalog,
			Metrics: s.config.Metrics,
		}),
		opp:    newScripted(refRng, oracle),
		oracle: oracle,
		logger: logger,
		result: statistics.GameResult{Seed: seed, Responses: make(map[string]int)},
	}
	g.logger.Debug("Game started", "engine", g.eng.ID(), "rules", fmt.Sprintf("%T", oracle))
	return g
}

// round plays one turn for each side and reports whether the game is over
func (g *game) round() bool {
	g.engineTurn()
	if g.finished() {
		return true
	}
	g.opponentTurn()
	return g.finished()
}

func (g *game) pace(d time.Duration) {
	if g.virtual != nil {
		g.virtual.Advance(d)
	}
	if g.cfg.Pace != nil {
		g.cfg.Pace(d)
	}
}

func (g *game) say(cue chatter.Cue) {
	if line, ok := g.eng.Chatter(cue); ok {
		g.logger.Debug("Engine says", "line", line)
	}
}

func (g *game) finished() bool {
	winner, ok := g.table.winner()
	if !ok {
		return false
	}
	if winner == stone.Self {
		g.result.Outcome = statistics.Won
	} else {
		g.result.Outcome = statistics.Lost
	}
	return true
}

// legal reports whether the referee accepts d from a player seeing view
func (g *game) legal(d action.Decision, view *stone.Snapshot) bool {
	if !d.Valid() {
		return false
	}
	board := view.Board
	switch d.Kind {
	case action.Place:
		return len(view.Reserve) > 0 && slices.Contains(emptyAllowed(g.oracle, board), d.Target)
	case action.Swap:
		return board.At(d.From).State != stone.Empty && board.At(d.To).State != stone.Empty
	case action.Flip:
		return board.IsVisible(d.Target)
	case action.Challenge, action.Peek:
		return board.IsHidden(d.Target)
	}
	return true
}

func (g *game) engineTurn() {
	view := g.table.view(stone.Self)
	d := g.eng.DecideMove(view)
	g.pace(g.eng.ThinkTime(d))

	g.result.Turns++
	g.result.Decisions[d.Kind]++
	if d.Signature != "" {
		g.result.Signatures++
	}
	if !g.legal(d, view) {
		g.logger.Warn("Referee rejected engine move", "decision", d.String(), "board", view.Board.String())
		d = action.PassTurn()
	}
	g.say(engine.DecisionCue(d))

	switch d.Kind {
	case action.Place:
		k := g.table.place(d.Target)
		g.opp.remember(d.Target, k)
		g.eng.Observe(action.PlacedEvent(stone.Self, d.Target, k), g.table.view(stone.Self))
	case action.Flip:
		k := g.table.flip(d.Target)
		g.opp.remember(d.Target, k)
		g.eng.Observe(action.FlippedEvent(stone.Self, d.Target, k), g.table.view(stone.Self))
	case action.Swap:
		g.table.swap(d.From, d.To)
		g.opp.swapped(d.From, d.To)
		g.eng.Observe(action.SwappedEvent(stone.Self, d.From, d.To), g.table.view(stone.Self))
	case action.Peek:
		g.eng.Observe(action.PeekedEvent(stone.Self, d.Target, g.table.truth(d.Target), true), g.table.view(stone.Self))
	case action.Challenge:
		guess := g.opp.name(d.Target, g.table.view(stone.Opponent))
		k := g.table.reveal(d.Target)
		if guess == k {
			g.table.award(stone.Opponent, 1)
			g.say(chatter.CueChallengeLost)
		} else {
			g.table.award(stone.Self, 1)
			g.say(chatter.CueChallengeWon)
		}
		g.opp.remember(d.Target, k)
		g.eng.Observe(action.RevealedEvent(stone.Self, d.Target, k), g.table.view(stone.Self))
	case action.Boast:
		if g.opp.doubts() {
			g.settleBoast(stone.Self, g.engineProves())
		} else {
			g.table.award(stone.Self, 1)
		}
	}

	g.eng.Observe(action.TurnEndedEvent(stone.Self), g.table.view(stone.Self))
}

func (g *game) opponentTurn() {
	g.pace(g.opp.thinkTime())
	view := g.table.view(stone.Opponent)
	d := g.opp.choose(view, g.table)

	switch d.Kind {
	case action.Place:
		k := g.table.place(d.Target)
		g.opp.remember(d.Target, k)
		g.eng.Observe(action.PlacedEvent(stone.Opponent, d.Target, k), g.table.view(stone.Self))
	case action.Flip:
		k := g.table.flip(d.Target)
		g.opp.remember(d.Target, k)
		g.eng.Observe(action.FlippedEvent(stone.Opponent, d.Target, k), g.table.view(stone.Self))
	case action.Swap:
		g.table.swap(d.From, d.To)
		g.opp.swapped(d.From, d.To)
		g.eng.Observe(action.SwappedEvent(stone.Opponent, d.From, d.To), g.table.view(stone.Self))
	case action.Peek:
		g.opp.remember(d.Target, g.table.truth(d.Target))
		g.eng.Observe(action.PeekedEvent(stone.Opponent, d.Target, 0, false), g.table.view(stone.Self))
	case action.Challenge:
		named := g.predict(d.Target, g.table.view(stone.Self))
		k := g.table.reveal(d.Target)
		if named {
			g.table.award(stone.Self, 1)
			g.say(chatter.CueChallengeWon)
		} else {
			g.table.award(stone.Opponent, 1)
			g.say(chatter.CueChallengeLost)
		}
		g.opp.remember(d.Target, k)
		g.eng.Observe(action.RevealedEvent(stone.Opponent, d.Target, k), g.table.view(stone.Self))
	case action.Boast:
		g.say(chatter.CueOpponentBoast)
		resp := g.eng.DecideBoastResponse(g.table.view(stone.Self))
		g.result.Responses[resp.String()]++
		switch resp {
		case engine.Believe:
			g.table.award(stone.Opponent, 1)
		case engine.Doubt:
			g.settleBoast(stone.Opponent, g.opp.knowsAll(g.table))
		case engine.CounterBoast:
			g.settleBoast(stone.Self, g.engineProves())
		}
	}

	g.opp.forget()
	g.eng.Observe(action.TurnEndedEvent(stone.Opponent), g.table.view(stone.Self))
}

// predict asks the engine to name a hidden stone and scores the answer
func (g *game) predict(slot stone.Slot, view *stone.Snapshot) bool {
	k := g.eng.PredictStone(slot, view)
	g.result.Predictions++
	if k == g.table.truth(slot) {
		g.result.Correct++
		return true
	}
	return false
}

// engineProves has the engine name every hidden stone
func (g *game) engineProves() bool {
	view := g.table.view(stone.Self)
	all := true
	for _, slot := range view.Board.Hidden() {
		if !g.predict(slot, view) {
			all = false
		}
	}
	return all
}

// settleBoast ends the game: the boaster wins if proven right
func (g *game) settleBoast(boaster stone.Actor, proven bool) {
	winner := boaster
	if !proven {
		winner = stone.Opponent
		if boaster == stone.Opponent {
			winner = stone.Self
		}
	}
	g.table.award(winner, WinningScore)
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, games int, profile personality.Profile, seed int64, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Games:   games,
		Profile: profile,
		Seed:    seed,
		Logger:  logger,
	}).Run(ctx)
}

// PrintSummary writes a plain-text summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, profile string) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== RESULTS for %s ===\n", profile)
	fmt.Fprintf(w, "Games played: %d (won %d, lost %d, drawn %d)\n", stats.Games, stats.Wins, stats.Losses, stats.Draws)
	fmt.Fprintf(w, "Engine turns: %d, signature moves: %d\n", stats.Turns, stats.Signatures)

	fmt.Fprintf(w, "\n=== DECISIONS ===\n")
	for _, k := range action.Kinds() {
		fmt.Fprintf(w, "%-10s %5d (%.1f%%)\n", k, stats.Decisions[k], stats.Share(k)*100)
	}

	fmt.Fprintf(w, "\n=== PREDICTIONS ===\n")
	fmt.Fprintf(w, "Named correctly: %d of %d (%.1f%%)\n", stats.Correct, stats.Predictions, stats.OverallAccuracy()*100)
	fmt.Fprintf(w, "Per-game accuracy: mean %.3f, median %.3f, 95%% CI [%.3f, %.3f]\n",
		stats.Mean(), stats.Median(), low, high)

	if len(stats.Responses) > 0 {
		fmt.Fprintf(w, "\n=== BOAST RESPONSES ===\n")
		for _, r := range []engine.BoastResponse{engine.Believe, engine.Doubt, engine.CounterBoast} {
			fmt.Fprintf(w, "%-13s %d\n", r, stats.Responses[r.String()])
		}
	}
}
