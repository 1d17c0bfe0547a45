package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-ladder/internal/config"
	"github.com/lox/holdem-ladder/internal/cpu"
	"github.com/lox/holdem-ladder/internal/progress"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))
)

// ProgressCmd inspects or clears the saved career.
type ProgressCmd struct {
	Show  ProgressShowCmd  `cmd:"" default:"1" help:"Print the saved career and leaderboard"`
	Reset ProgressResetCmd `cmd:"" help:"Start a new career"`
}

type ProgressShowCmd struct{}

type ProgressResetCmd struct {
	Seed int64 `help:"Career seed (0 uses config, then the clock)"`
}

// openProgress loads the configured store into a manager.
func openProgress(ctx context.Context, cli *CLI) (*config.Config, *progress.Manager, func(), error) {
	cfg, err := cli.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return nil, nil, nil, err
	}
	store, closeStore, err := cfg.OpenStore()
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}
	cleanup := func() {
		if err := closeStore(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
		closeLog()
	}
	mgr, err := progress.Load(ctx, store, seedFor(cfg), progress.WithLogger(logger))
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return cfg, mgr, cleanup, nil
}

func (p *ProgressShowCmd) Run(cli *CLI) error {
	_, mgr, cleanup, err := openProgress(context.Background(), cli)
	if err != nil {
		return err
	}
	defer cleanup()
	return printProgress(os.Stdout, mgr)
}

func (p *ProgressResetCmd) Run(cli *CLI) error {
	ctx := context.Background()
	cfg, mgr, cleanup, err := openProgress(ctx, cli)
	if err != nil {
		return err
	}
	defer cleanup()

	seed := p.Seed
	if seed == 0 {
		seed = seedFor(cfg)
	}
	mgr.Reset(seed)
	if err := mgr.Save(ctx); err != nil {
		return err
	}
	fmt.Printf("Career reset (seed %d)\n", seed)
	return nil
}

func printProgress(w io.Writer, mgr *progress.Manager) error {
	st := mgr.State()
	opp := mgr.Opponent()

	fmt.Fprintln(w, headerStyle.Render("Career"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Tokens\t%d\n", st.Tokens)
	fmt.Fprintf(tw, "Next opponent\t%s (streak %d/%d)\n", opp, st.Wins[opp.ID], progress.UnlockWins)
	fmt.Fprintf(tw, "Unlocked tiers\t%d of %d\n", st.UnlockedTiers, cpu.MaxTier())
	fmt.Fprintf(tw, "Matches played\t%d (%d deadlocked)\n", st.Stats.MatchesPlayed, st.Stats.Deadlocks)
	fmt.Fprintf(tw, "Tokens won/lost\t%d/%d\n", st.Stats.TotalTokensWon, st.Stats.TotalTokensLost)
	fmt.Fprintf(tw, "Longest streak\t%d\n", st.Stats.LongestStreak)
	fmt.Fprintf(tw, "Highest tier beaten\t%d\n", st.Stats.HighestTierBeaten)
	fmt.Fprintf(tw, "Seed\t%d\n", st.Seed)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Leaderboard"))
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tName\tTokens\tStreak\tTier")
	for i, e := range mgr.Leaderboard() {
		name := e.Name
		if e.IsPlayer {
			name += " (you)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\n", i+1, name, e.TokensWon, e.WinStreak, e.Tier)
	}
	return tw.Flush()
}
