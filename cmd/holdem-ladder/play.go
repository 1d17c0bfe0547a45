package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/quartz"

	"github.com/lox/holdem-ladder/internal/phh"
	"github.com/lox/holdem-ladder/internal/progress"
	"github.com/lox/holdem-ladder/internal/scheduler"
	"github.com/lox/holdem-ladder/internal/tui"
)

// PlayCmd runs the interactive ladder.
type PlayCmd struct {
	Opponent string `short:"o" help:"Opponent to select on start (must be unlocked)"`
	NoColor  bool   `help:"Render without colour"`
	Delay    string `help:"Override the CPU reveal delay (e.g. 0s, 1.5s)"`
	History  string `type:"path" help:"Write this session's hands to a PHH file (overwritten)"`
}

func (p *PlayCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	if p.Delay != "" {
		cfg.CPUDelay = p.Delay
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, closeLog, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := cfg.OpenStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	}()

	mgr, err := progress.Load(ctx, store, seedFor(cfg), progress.WithLogger(logger))
	if err != nil {
		return err
	}
	if p.Opponent != "" {
		if err := mgr.SetOpponent(p.Opponent); err != nil {
			return err
		}
	}

	eval, err := cfg.NewEvaluator()
	if err != nil {
		return err
	}

	logger.Info("Starting ladder session",
		"opponent", mgr.Opponent().ID,
		"tokens", mgr.State().Tokens,
		"evaluator", eval.Name(),
		"cpu_delay", cfg.Delay())

	sched := scheduler.New(quartz.NewReal(), cfg.Delay(), logger)
	defer sched.Cancel()

	var history *phh.Writer
	if p.History != "" {
		f, err := os.Create(p.History)
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

	err = tui.Run(tui.Options{
		Progress:  mgr,
		Scheduler: sched,
		Ladder:    cfg.Ladder(),
		Evaluator: eval,
		Logger:    logger,
		History:   history,
		NoColor:   p.NoColor,
	})
	if err != nil {
		return err
	}
	return mgr.Save(ctx)
}
