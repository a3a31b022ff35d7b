package simulator

import (
	"bytes"
	"context"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/stonetell/internal/engine"
	"github.com/lox/stonetell/internal/opponent"
	"github.com/lox/stonetell/internal/personality"
	"github.com/lox/stonetell/internal/rules"
	"github.com/lox/stonetell/internal/statistics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, profile personality.Profile, games int) Config {
	t.Helper()
	clock := quartz.NewMock(t)
	return Config{
		Games:   games,
		Profile: profile,
		Seed:    12345,
		Logger:  log.New(io.Discard),
		Clock:   clock,
		Pace:    func(d time.Duration) { clock.Advance(d) },
	}
}

func TestNewDefaults(t *testing.T) {
	sim := New(Config{Games: 1})

	assert.Equal(t, DefaultTurns, sim.config.Turns)
	assert.Equal(t, personality.Default().Name, sim.config.Profile.Name)
	assert.NotNil(t, sim.config.Logger)
	assert.IsType(t, &virtualClock{}, sim.config.Clock)
	assert.IsType(t, rules.Line{}, sim.config.Oracle)
}

func TestSuppliedClockIsNotVirtualised(t *testing.T) {
	sim := New(testConfig(t, personality.Default(), 1))
	assert.Nil(t, sim.virtual)
}

func TestDefaultClockAdvancesByThinkTime(t *testing.T) {
	sim := New(Config{Games: 1, Seed: 12345, Logger: log.New(io.Discard)})
	g := sim.newGame(sim.config.Seed)

	start := sim.config.Clock.Now()
	lowest := g.eng.OpponentMetrics().Sharpness
	for turn := 0; turn < 10; turn++ {
		done := g.round()
		lowest = math.Min(lowest, g.eng.OpponentMetrics().Sharpness)
		if done {
			break
		}
	}

	assert.Greater(t, sim.config.Clock.Since(start), time.Second)
	assert.Less(t, lowest, opponent.InitialSharpness, "opponent think times should register as slow play")
}

func TestRunWithOpenRules(t *testing.T) {
	cfg := testConfig(t, personality.Default(), 3)
	cfg.Oracle = rules.Open{}

	stats, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Positive(t, stats.Turns)
}

func TestRunEveryProfile(t *testing.T) {
	for _, p := range personality.Builtins() {
		t.Run(p.Name, func(t *testing.T) {
			stats, err := New(testConfig(t, p, 5)).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 5, stats.Games)
			assert.Equal(t, 5, stats.Wins+stats.Losses+stats.Draws)
			assert.Positive(t, stats.Turns)
			assert.LessOrEqual(t, stats.Correct, stats.Predictions)
			assert.NoError(t, stats.Validate())
		})
	}
}

func TestRunIsReproducible(t *testing.T) {
	run := func() *statistics.Statistics {
		stats, err := New(testConfig(t, personality.Default(), 3)).Run(context.Background())
		require.NoError(t, err)
		return stats
	}

	a, b := run(), run()
	assert.Equal(t, a.Decisions, b.Decisions)
	assert.Equal(t, a.Predictions, b.Predictions)
	assert.Equal(t, a.Correct, b.Correct)
	assert.Equal(t, a.Wins, b.Wins)
}

func TestRunRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := testConfig(t, personality.Default(), 2)
	cfg.Metrics = engine.NewMetrics(reg)

	stats, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "stonetell_engine_decisions_total")
	require.NoError(t, err)
	assert.Positive(t, count)
	assert.Positive(t, stats.Turns)
}

func TestRunStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(t, personality.Default(), 3)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTurnCapDrawsTheGame(t *testing.T) {
	cfg := testConfig(t, personality.Default(), 1)
	cfg.Turns = 1

	stats, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Turns)
}

func TestRunSimulationConvenience(t *testing.T) {
	stats, err := RunSimulation(context.Background(), 2, personality.Default(), 99, log.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Games)
}

func TestPrintSummary(t *testing.T) {
	stats, err := New(testConfig(t, personality.Default(), 2)).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, stats, "Analytical")

	out := buf.String()
	assert.Contains(t, out, "=== RESULTS for Analytical ===")
	assert.Contains(t, out, "=== DECISIONS ===")
	assert.Contains(t, out, "Named correctly:")
}
