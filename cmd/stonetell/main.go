package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Profiles ProfilesCmd      `cmd:"" help:"List the available personality profiles"`
	Decide   DecideCmd        `cmd:"" help:"Ask the engine for one move on a given board"`
	Simulate SimulateCmd      `cmd:"" help:"Play the engine against a scripted opponent"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("stonetell"),
		kong.Description("Opponent-modelling AI for the seven-stone memory game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx.BindTo(sigCtx, (*context.Context)(nil))

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
