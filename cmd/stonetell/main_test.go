package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/engine"
	"github.com/lox/stonetell/internal/personality"
	"github.com/lox/stonetell/internal/randutil"
	"github.com/lox/stonetell/internal/rules"
	"github.com/lox/stonetell/internal/statistics"
	"github.com/lox/stonetell/internal/stone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKnown(t *testing.T) {
	board := stone.MustParseBoard("C??....")

	tests := []struct {
		name     string
		input    []string
		expected map[stone.Slot]stone.Kind
		hasError bool
	}{
		{
			name:     "Nothing known",
			input:    nil,
			expected: map[stone.Slot]stone.Kind{},
		},
		{
			name:     "Two hidden stones",
			input:    []string{"1=K", "2=scales"},
			expected: map[stone.Slot]stone.Kind{1: stone.Knight, 2: stone.Scales},
		},
		{
			name:     "Missing separator",
			input:    []string{"1K"},
			hasError: true,
		},
		{
			name:     "Slot out of range",
			input:    []string{"9=K"},
			hasError: true,
		},
		{
			name:     "Face up slot",
			input:    []string{"0=C"},
			hasError: true,
		},
		{
			name:     "Unknown stone",
			input:    []string{"1=X"},
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			known, err := parseKnown(tt.input, board)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, known)
		})
	}
}

func TestCLIParsesCommands(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)

	_, err = parser.Parse([]string{"decide", "...C...", "-r", "SW", "-p", "Trickster", "-k", "3=C"})
	require.NoError(t, err)
	assert.Equal(t, "...C...", cli.Decide.Board)
	assert.Equal(t, "Trickster", cli.Decide.Profile)
	assert.Equal(t, []string{"3=C"}, cli.Decide.Known)

	assert.Equal(t, "line", cli.Rules)

	_, err = parser.Parse([]string{"--rules", "open", "simulate", "-n", "5", "--seed", "7"})
	require.NoError(t, err)
	assert.Equal(t, 5, cli.Simulate.Games)
	assert.Equal(t, int64(7), cli.Simulate.Seed)
	assert.Equal(t, "open", cli.Rules)

	_, err = parser.Parse([]string{"--rules", "diagonal", "profiles"})
	assert.Error(t, err)
}

func TestGlobalsOracle(t *testing.T) {
	o, err := (&Globals{Rules: "open"}).oracle()
	require.NoError(t, err)
	assert.IsType(t, rules.Open{}, o)

	o, err = (&Globals{}).oracle()
	require.NoError(t, err)
	assert.IsType(t, rules.Line{}, o)
}

func TestGlobalsResolveProfileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
profile "Careful" {
  extends   = "Analytical"
  retention = 0.99
}
`), 0o644))

	g := &Globals{ProfileFile: path}
	p, err := g.profile("careful")
	require.NoError(t, err)
	assert.Equal(t, "Careful", p.Name)
	assert.Equal(t, 0.99, p.Retention)

	p, err = g.profile("Novice")
	require.NoError(t, err)
	assert.Equal(t, "Novice", p.Name)

	_, err = g.profile("Nobody")
	assert.ErrorIs(t, err, personality.ErrUnknownProfile)
}

func TestGlobalsDefaultCatalog(t *testing.T) {
	g := &Globals{}
	c, err := g.catalog()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Lines("Analytical", "place"))
}

func TestRenderProfiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderProfiles(&buf, personality.Builtins(), true))

	out := buf.String()
	for _, p := range personality.Builtins() {
		assert.Contains(t, out, p.Name)
	}
	assert.Contains(t, out, "place=")
}

func TestReport(t *testing.T) {
	eng := engine.New(engine.Options{Rand: randutil.New(1)})
	snap := &stone.Snapshot{Board: stone.MustParseBoard("..C?S.."), Reserve: []stone.Kind{stone.Flag}}

	var buf bytes.Buffer
	require.NoError(t, report(&buf, eng, snap))

	out := buf.String()
	assert.Contains(t, out, "Analytical on ..C?S..")
	assert.Contains(t, out, "would name:")
	assert.Contains(t, out, "profile=Analytical")
	assert.Contains(t, out, "engine="+eng.ID()[:8])
}

func TestReportShowsHeldBeliefs(t *testing.T) {
	eng := engine.New(engine.Options{Rand: randutil.New(1)})
	snap := &stone.Snapshot{Board: stone.MustParseBoard("..C?S.."), Reserve: []stone.Kind{stone.Flag}}
	eng.Observe(action.PeekedEvent(stone.Self, 3, stone.Knight, true), snap)

	var buf bytes.Buffer
	require.NoError(t, report(&buf, eng, snap))
	assert.Contains(t, buf.String(), "3=K@1.00")
}

func TestWriteSummary(t *testing.T) {
	stats := &statistics.Statistics{}
	stats.Add(statistics.GameResult{Outcome: statistics.Won, Turns: 12, Predictions: 4, Correct: 3})

	path := filepath.Join(t.TempDir(), "summary.txt")
	require.NoError(t, writeSummary(path, stats, "Analytical"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "=== RESULTS for Analytical ===")
	assert.Contains(t, string(data), "Named correctly: 3 of 4")
}
