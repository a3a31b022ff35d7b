package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/stonetell/internal/personality"
)

type ProfilesCmd struct {
	Weights bool `short:"w" help:"Include base action weights"`
}

func (c *ProfilesCmd) Run(g *Globals) error {
	extra, err := g.extraProfiles()
	if err != nil {
		return err
	}
	return renderProfiles(os.Stdout, append(personality.Builtins(), extra...), c.Weights)
}

func renderProfiles(w io.Writer, profiles []personality.Profile, weights bool) error {
	headers := []string{"Name", "Retention", "Swap penalty", "Peek below", "Challenge", "Opening", "Signature"}
	if weights {
		headers = append(headers, "Weights")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, p := range profiles {
		signature := p.Signature.String()
		if p.Signature != personality.NoSignature {
			signature = signatureStyle.Render(signature)
		}
		name := p.Name
		if p.Cautious {
			name += " (cautious)"
		}
		row := []string{
			name,
			strconv.FormatFloat(p.Retention, 'f', 2, 64),
			strconv.FormatFloat(p.SwapConfusionPenalty, 'f', 2, 64),
			strconv.FormatFloat(p.PeekConfidenceThreshold, 'f', 2, 64),
			p.Challenge.String(),
			p.Opening.String(),
			signature,
		}
		if weights {
			row = append(row, p.BaseWeights.String())
		}
		t.Row(row...)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
