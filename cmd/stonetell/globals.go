package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/stonetell/internal/chatter"
	"github.com/lox/stonetell/internal/personality"
	"github.com/lox/stonetell/internal/rules"
)

// Globals are the flags shared by every command
type Globals struct {
	Debug       bool   `help:"Enable debug logging"`
	ProfileFile string `name:"profile-file" type:"existingfile" env:"STONETELL_PROFILE_FILE" help:"HCL file with extra personality profiles"`
	Lines       string `type:"existingfile" help:"YAML chatter catalog to use instead of the built-in lines"`
	Rules       string `enum:"line,open" default:"line" env:"STONETELL_RULES" help:"Placement rules: line (touch the existing line) or open (any empty slot)"`
}

func (g *Globals) logger() *log.Logger {
	level := log.InfoLevel
	if g.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}

// extraProfiles loads the profile file, if one was given
func (g *Globals) extraProfiles() ([]personality.Profile, error) {
	if g.ProfileFile == "" {
		return nil, nil
	}
	profiles, err := personality.LoadFile(g.ProfileFile)
	if err != nil {
		return nil, fmt.Errorf("loading profiles: %w", err)
	}
	return profiles, nil
}

// profile resolves a profile name against the profile file and builtins
func (g *Globals) profile(name string) (personality.Profile, error) {
	extra, err := g.extraProfiles()
	if err != nil {
		return personality.Profile{}, err
	}
	return personality.Find(name, extra)
}

// catalog returns the chatter catalog to speak from
func (g *Globals) catalog() (chatter.Catalog, error) {
	if g.Lines == "" {
		return chatter.DefaultCatalog(), nil
	}
	c, err := chatter.LoadCatalog(g.Lines)
	if err != nil {
		return nil, fmt.Errorf("loading chatter lines: %w", err)
	}
	return c, nil
}

// oracle returns the placement rules to play under
func (g *Globals) oracle() (rules.Oracle, error) {
	return rules.ByName(g.Rules)
}
