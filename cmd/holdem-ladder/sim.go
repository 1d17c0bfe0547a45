package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lox/holdem-ladder/internal/cpu"
	"github.com/lox/holdem-ladder/internal/phh"
	"github.com/lox/holdem-ladder/internal/simulator"
)

// SimCmd plays CPU-vs-CPU matches and prints a summary per opponent.
type SimCmd struct {
	Matches  int           `short:"n" help:"Matches per opponent (default from config)"`
	Workers  int           `short:"w" help:"Parallel workers (default from config)"`
	Player   string        `short:"p" help:"Profile seated in the player seat (default from config)"`
	Opponent string        `short:"o" default:"all" help:"Opponent id or name, or 'all'"`
	Seed     int64         `help:"Base seed (0 uses config, then the clock)"`
	Timeout  time.Duration `default:"30s" help:"Per-match time limit"`
	History  string        `type:"path" help:"Write every simulated hand to a PHH file"`
}

func (s *SimCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	if s.Matches == 0 {
		s.Matches = cfg.Sim.Matches
	}
	if s.Workers == 0 {
		s.Workers = cfg.Sim.Workers
	}
	if s.Player == "" {
		s.Player = cfg.Sim.Player
	}
	seed := s.Seed
	if seed == 0 {
		seed = seedFor(cfg)
	}

	player, ok := cpu.Lookup(s.Player)
	if !ok {
		return fmt.Errorf("unknown player profile %q", s.Player)
	}
	opponents := cpu.Profiles
	if !strings.EqualFold(s.Opponent, "all") {
		p, ok := cpu.Lookup(s.Opponent)
		if !ok {
			return fmt.Errorf("unknown opponent %q", s.Opponent)
		}
		opponents = []cpu.Profile{p}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting simulation",
		"player", player.ID,
		"opponents", len(opponents),
		"matches", s.Matches,
		"workers", s.Workers,
		"seed", seed)

	var history *phh.Writer
	if s.History != "" {
		f, err := os.Create(s.History)
		if err != nil {
			return fmt.Errorf("create history file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Error("Failed to close history file", "error", err)
			}
		}()
		history = phh.NewWriter(f)
	}

	start := time.Now()
	for _, opp := range opponents {
		report, err := simulator.Run(ctx, simulator.Config{
			Matches:   s.Matches,
			Workers:   s.Workers,
			Seed:      seed,
			Player:    player,
			Opponent:  opp,
			Ladder:    cfg.Ladder(),
			Evaluator: cfg.Evaluator,
			Timeout:   s.Timeout,
			History:   history != nil,
			Logger:    logger,
		})
		if err != nil {
			return fmt.Errorf("simulate vs %s: %w", opp.ID, err)
		}
		simulator.PrintSummary(os.Stdout, report)
		for _, h := range report.Histories {
			if err := history.Write(h); err != nil {
				return fmt.Errorf("write history: %w", err)
			}
		}
	}
	if history != nil {
		logger.Info("Wrote hand histories", "hands", history.Count(), "path", s.History)
	}
	logger.Info("Simulation complete", "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
