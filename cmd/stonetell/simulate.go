package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/stonetell/internal/engine"
	"github.com/lox/stonetell/internal/fileutil"
	"github.com/lox/stonetell/internal/simulator"
	"github.com/lox/stonetell/internal/statistics"
)

type SimulateCmd struct {
	Games       int    `short:"n" default:"100" help:"Number of games to play"`
	Turns       int    `default:"60" help:"Turns per player before a game is drawn"`
	Profile     string `short:"p" default:"Analytical" env:"STONETELL_PROFILE" help:"Personality profile for the engine"`
	Seed        int64  `default:"0" env:"STONETELL_SEED" help:"RNG seed (0 for random)"`
	Pace        bool   `help:"Also wait out every think time in real time, like a real table"`
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address while simulating (e.g. :9090)"`
	Out         string `short:"o" type:"path" help:"Also write the summary to this file"`
}

func (c *SimulateCmd) Run(g *Globals, ctx context.Context) error {
	logger := g.logger()

	profile, err := g.profile(c.Profile)
	if err != nil {
		return err
	}
	catalog, err := g.catalog()
	if err != nil {
		return err
	}
	oracle, err := g.oracle()
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	reg := prometheus.NewRegistry()
	metrics := engine.NewMetrics(reg)
	if c.MetricsAddr != "" {
		stop := serveMetrics(c.MetricsAddr, reg, logger)
		defer stop()
	}

	cfg := simulator.Config{
		Games:   c.Games,
		Turns:   c.Turns,
		Profile: profile,
		Seed:    seed,
		Logger:  logger.WithPrefix("sim"),
		Metrics: metrics,
		Catalog: catalog,
		Oracle:  oracle,
	}
	if c.Pace {
		cfg.Pace = func(d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		}
	}

	logger.Info("Starting simulation", "profile", profile.Name, "games", c.Games, "seed", seed)
	start := time.Now()
	stats, err := simulator.New(cfg).Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Simulation complete", "duration", time.Since(start).Round(time.Millisecond))

	os.Stdout.WriteString(headerStyle.Render("stonetell simulation") + "\n")
	simulator.PrintSummary(os.Stdout, stats, profile.Name)

	if c.Out != "" {
		if err := writeSummary(c.Out, stats, profile.Name); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		logger.Info("Wrote summary", "path", c.Out)
	}
	return nil
}

func writeSummary(path string, stats *statistics.Statistics, profile string) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		simulator.PrintSummary(w, stats, profile)
		return nil
	})
}

// serveMetrics exposes reg over HTTP until the returned func is called
func serveMetrics(addr string, reg *prometheus.Registry, logger *log.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
