package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lox/stonetell/internal/action"
	"github.com/lox/stonetell/internal/engine"
	"github.com/lox/stonetell/internal/randutil"
	"github.com/lox/stonetell/internal/stone"
)

type DecideCmd struct {
	Board         string   `arg:"" help:"Board as seven characters: a stone letter (C S W F K H L) face up, '?' face down, '.' empty"`
	Reserve       string   `short:"r" help:"Stones still in reserve, as letters"`
	Profile       string   `short:"p" default:"Analytical" env:"STONETELL_PROFILE" help:"Personality profile"`
	Seed          int64    `default:"0" env:"STONETELL_SEED" help:"RNG seed (0 for random)"`
	Known         []string `short:"k" help:"Hidden stones the engine has peeked, as slot=letter (e.g. 3=K)"`
	MyScore       int      `help:"Engine's score"`
	OpponentScore int      `help:"Opponent's score"`
}

func (c *DecideCmd) Run(g *Globals) error {
	logger := g.logger()

	profile, err := g.profile(c.Profile)
	if err != nil {
		return err
	}
	catalog, err := g.catalog()
	if err != nil {
		return err
	}
	board, err := stone.ParseBoard(c.Board)
	if err != nil {
		return err
	}
	reserve, err := stone.ParseReserve(c.Reserve)
	if err != nil {
		return fmt.Errorf("invalid reserve: %w", err)
	}
	known, err := parseKnown(c.Known, board)
	if err != nil {
		return err
	}
	oracle, err := g.oracle()
	if err != nil {
		return err
	}

	rng := randutil.NewUnseeded()
	if c.Seed != 0 {
		rng = randutil.New(c.Seed)
	}

	eng := engine.New(engine.Options{
		Profile: profile,
		Oracle:  oracle,
		Rand:    rng,
		Logger:  logger,
		Catalog: catalog,
	})

	snap := &stone.Snapshot{
		Board:     board,
		Reserve:   reserve,
		Scores:    stone.Scores{Self: c.MyScore, Opponent: c.OpponentScore},
		TurnOwner: stone.Self,
	}
	for _, slot := range board.Hidden() {
		if k, ok := known[slot]; ok {
			eng.Observe(action.PeekedEvent(stone.Self, slot, k, true), snap)
		}
	}
	for _, slot := range board.Visible() {
		eng.Observe(action.RevealedEvent(stone.Self, slot, board.At(slot).Kind), snap)
	}

	return report(os.Stdout, eng, snap)
}

// parseKnown reads slot=letter pairs. Every named slot must be face down.
func parseKnown(pairs []string, board *stone.Board) (map[stone.Slot]stone.Kind, error) {
	out := make(map[stone.Slot]stone.Kind, len(pairs))
	for _, pair := range pairs {
		slotStr, kindStr, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid known stone %q: want slot=letter", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(slotStr))
		if err != nil || !stone.Slot(n).Valid() {
			return nil, fmt.Errorf("invalid known stone %q: slot must be 0-%d", pair, stone.NumSlots-1)
		}
		slot := stone.Slot(n)
		if !board.IsHidden(slot) {
			return nil, fmt.Errorf("invalid known stone %q: slot %d is not face down", pair, slot)
		}
		k, err := stone.ParseKind(strings.TrimSpace(kindStr))
		if err != nil {
			return nil, fmt.Errorf("invalid known stone %q: %w", pair, err)
		}
		out[slot] = k
	}
	return out, nil
}

func report(w io.Writer, eng *engine.Engine, snap *stone.Snapshot) error {
	d := eng.DecideMove(snap)
	think := eng.ThinkTime(d)

	move := decisionStyle.Render(d.Kind.String())
	if rest := strings.TrimPrefix(d.String(), d.Kind.String()); rest != "" {
		move += rest
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s on %s", eng.Profile().Name, snap.Board)))
	fmt.Fprintf(w, "%s %s\n", label("move:      "), move)
	fmt.Fprintf(w, "%s %s\n", label("think time:"), think.Round(time.Millisecond))
	if line, ok := eng.Chatter(engine.DecisionCue(d)); ok {
		fmt.Fprintf(w, "%s %s\n", label("says:      "), chatterStyle.Render(strconv.Quote(line)))
	}
	fmt.Fprintf(w, "%s %s\n", label("vs boast:  "), eng.DecideBoastResponse(snap))

	hidden := snap.Board.Hidden()
	if len(hidden) > 0 {
		guesses := make([]string, 0, len(hidden))
		for _, slot := range hidden {
			guess := fmt.Sprintf("%d=%c", slot, eng.PredictStone(slot, snap).Letter())
			if entry, ok := eng.Belief(slot); ok {
				guess += fmt.Sprintf("@%.2f", entry.Confidence)
			}
			guesses = append(guesses, guess)
		}
		fmt.Fprintf(w, "%s %s\n", label("would name:"), strings.Join(guesses, " "))
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, dimStyle.Render(eng.DebugStats()))
	fmt.Fprintln(w)
	return nil
}
