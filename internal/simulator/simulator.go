// Package simulator plays batches of CPU-vs-CPU ladder matches in parallel
// and summarizes them.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-ladder/internal/cpu"
	"github.com/lox/holdem-ladder/internal/evaluator"
	"github.com/lox/holdem-ladder/internal/holdem"
	"github.com/lox/holdem-ladder/internal/ladder"
	"github.com/lox/holdem-ladder/internal/phh"
	"github.com/lox/holdem-ladder/internal/statistics"
)

// Config holds configuration for a simulation run.
type Config struct {
	Matches int
	Workers int
	// Match i is played from seed Seed+i.
	Seed int64
	// Player is the profile seated in the human seat.
	Player    cpu.Profile
	Opponent  cpu.Profile
	Ladder    ladder.Ladder
	Evaluator string
	// Timeout bounds each match; zero means no limit.
	Timeout time.Duration
	// History keeps a PHH record of every hand in the report.
	History bool
	Logger  *log.Logger
}

// Report summarizes a run. Hands are seen from the player seat.
type Report struct {
	Player     string
	Opponent   string
	Matches    int
	PlayerWins int
	CPUWins    int
	Deadlocks  int
	TotalHands int
	Hands      *statistics.Statistics
	// Results are in seed order.
	Results []ladder.Result
	// Histories are set when Config.History is, in seed then hand order.
	Histories []*phh.HandHistory
}

// WinRate is the share of matches the player seat won outright.
func (r *Report) WinRate() float64 {
	if r.Matches == 0 {
		return 0
	}
	return float64(r.PlayerWins) / float64(r.Matches)
}

// DeadlockRate is the share of matches that ended undecided.
func (r *Report) DeadlockRate() float64 {
	if r.Matches == 0 {
		return 0
	}
	return float64(r.Deadlocks) / float64(r.Matches)
}

// MeanMatchLength is the average number of hands per match.
func (r *Report) MeanMatchLength() float64 {
	if r.Matches == 0 {
		return 0
	}
	return float64(r.TotalHands) / float64(r.Matches)
}

type matchOutcome struct {
	result ladder.Result
	stats  *statistics.Statistics
	hands  []*phh.HandHistory
}

// Run plays cfg.Matches matches on up to cfg.Workers goroutines. The report
// does not depend on the worker count.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Matches < 1 {
		return nil, errors.New("simulation needs at least one match")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if err := cfg.Player.Validate(); err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	if err := cfg.Opponent.Validate(); err != nil {
		return nil, fmt.Errorf("opponent: %w", err)
	}
	logger := cfg.Logger.WithPrefix("sim")

	outcomes := make([]matchOutcome, cfg.Matches)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range cfg.Matches {
		g.Go(func() error {
			out, err := playMatch(gctx, cfg, cfg.Seed+int64(i))
			if err != nil {
				return fmt.Errorf("match %d (seed %d): %w", i, cfg.Seed+int64(i), err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Player:   cfg.Player.ID,
		Opponent: cfg.Opponent.ID,
		Matches:  cfg.Matches,
		Hands:    &statistics.Statistics{},
		Results:  make([]ladder.Result, 0, cfg.Matches),
	}
	for _, out := range outcomes {
		res := out.result
		report.Results = append(report.Results, res)
		report.TotalHands += res.HandsPlayed
		report.Hands.Merge(out.stats)
		report.Histories = append(report.Histories, out.hands...)
		switch {
		case res.Deadlock:
			report.Deadlocks++
		case res.PlayerWon():
			report.PlayerWins++
		default:
			report.CPUWins++
		}
	}
	if err := report.Hands.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	logger.Info("simulation complete",
		"player", cfg.Player.Name,
		"opponent", cfg.Opponent.Name,
		"matches", report.Matches,
		"player_wins", report.PlayerWins,
		"deadlocks", report.Deadlocks)
	return report, nil
}

func playMatch(ctx context.Context, cfg Config, seed int64) (matchOutcome, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	ev, err := evaluator.New(cfg.Evaluator)
	if err != nil {
		return matchOutcome{}, err
	}
	m, err := ladder.NewMatch(ladder.Config{
		Seed:      seed,
		Opponent:  cfg.Opponent,
		Ladder:    cfg.Ladder,
		Evaluator: ev,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return matchOutcome{}, err
	}

	stats := &statistics.Statistics{}
	var start holdem.HandStartEvent
	m.Engine().Subscribe(func(e holdem.Event) {
		switch e := e.(type) {
		case holdem.HandStartEvent:
			start = e
		case holdem.HandEndEvent:
			before := start.Stacks[holdem.Player] + start.Posted[holdem.Player]
			stats.Add(statistics.HandResult{
				NetBB:          float64(e.Stacks[holdem.Player]-before) / float64(start.BigBlind),
				Seed:           seed,
				HandNumber:     e.HandNumber,
				Button:         start.Button == holdem.Player,
				WentToShowdown: e.Showdown,
				FinalPotSize:   e.Pot,
				BigBlind:       start.BigBlind,
				Street:         e.Phase,
			})
		}
	})

	var rec *phh.Recorder
	if cfg.History {
		rec = phh.NewRecorder(m.Engine(), fmt.Sprintf("sim-%s-%d", cfg.Opponent.ID, seed), [2]string{cfg.Player.Name, cfg.Opponent.Name}, nil)
		defer rec.Attach()()
	}

	player := ladder.ModelAgent{Model: cpu.New(cfg.Player, m.RNG(), cfg.Logger.WithPrefix("player"))}
	res, err := m.Play(ctx, player)
	if err != nil {
		return matchOutcome{}, err
	}
	out := matchOutcome{result: res, stats: stats}
	if rec != nil {
		out.hands = rec.Hands()
	}
	return out, nil
}

// PrintSummary writes a human-readable summary of the report.
func PrintSummary(w io.Writer, r *Report) {
	stats := r.Hands
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== %s vs %s: %d matches ===\n", r.Player, r.Opponent, r.Matches)
	fmt.Fprintf(w, "Player wins: %d (%.1f%%)\n", r.PlayerWins, r.WinRate()*100)
	fmt.Fprintf(w, "CPU wins: %d\n", r.CPUWins)
	fmt.Fprintf(w, "Deadlocks: %d (%.1f%%)\n", r.Deadlocks, r.DeadlockRate()*100)
	fmt.Fprintf(w, "Hands: %d (%.1f per match)\n", r.TotalHands, r.MeanMatchLength())

	fmt.Fprintf(w, "\n=== PER HAND ===\n")
	fmt.Fprintf(w, "Mean: %.4f bb/hand\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.4f bb/hand\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f bb\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] bb/hand\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	if wins := stats.ShowdownWins + stats.NonShowdownWins; wins > 0 {
		fmt.Fprintf(w, "Winning hands: %d showdown (%.1f%%), %d without showdown (%.1f%%)\n",
			stats.ShowdownWins, float64(stats.ShowdownWins)/float64(wins)*100,
			stats.NonShowdownWins, float64(stats.NonShowdownWins)/float64(wins)*100)
	}
	fmt.Fprintf(w, "Button: %.3f bb/hand, big blind: %.3f bb/hand\n",
		stats.PositionMean(statistics.OnButton), stats.PositionMean(statistics.InBigBlind))
	fmt.Fprintf(w, "Max pot: %d chips (%.1f bb), pots of %d bb or more: %d\n",
		stats.MaxPotChips, stats.MaxPotBB, statistics.BigPotBB, stats.BigPots)
	for _, phase := range []holdem.Phase{holdem.Preflop, holdem.Flop, holdem.Turn, holdem.River, holdem.Showdown} {
		if n := stats.Streets[phase]; n > 0 {
			fmt.Fprintf(w, "Ended on %s: %d\n", phase, n)
		}
	}
}
