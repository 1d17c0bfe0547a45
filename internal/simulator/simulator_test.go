package simulator

import (
	"bytes"
	"context"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-ladder/internal/cpu"
	"github.com/lox/holdem-ladder/internal/ladder"
)

func profile(t *testing.T, id string) cpu.Profile {
	t.Helper()
	p, ok := cpu.Lookup(id)
	require.True(t, ok)
	return p
}

func config(t *testing.T, workers int) Config {
	return Config{
		Matches:  12,
		Workers:  workers,
		Seed:     500,
		Player:   profile(t, "redTheRiot"),
		Opponent: profile(t, "theNorm"),
		Timeout:  10 * time.Second,
		Logger:   log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel}),
	}
}

func TestRunCountsEveryMatch(t *testing.T) {
	t.Parallel()

	report, err := Run(context.Background(), config(t, 4))
	require.NoError(t, err)

	assert.Equal(t, 12, report.Matches)
	assert.Equal(t, report.Matches, report.PlayerWins+report.CPUWins+report.Deadlocks)
	require.Len(t, report.Results, 12)
	assert.Equal(t, report.TotalHands, report.Hands.Hands)
	require.NoError(t, report.Hands.Validate())

	hands := 0
	for i, res := range report.Results {
		assert.Equal(t, int64(500+i), res.Seed)
		assert.Equal(t, "theNorm", res.Opponent)
		assert.LessOrEqual(t, res.HandsPlayed, 2*ladder.DefaultLadder.Final())
		hands += res.HandsPlayed
	}
	assert.Equal(t, report.TotalHands, hands)
	assert.InDelta(t, float64(hands)/12, report.MeanMatchLength(), 1e-9)
	assert.InDelta(t, float64(report.PlayerWins)/12, report.WinRate(), 1e-9)
}

func TestRunIndependentOfWorkers(t *testing.T) {
	t.Parallel()

	serial, err := Run(context.Background(), config(t, 1))
	require.NoError(t, err)
	parallel, err := Run(context.Background(), config(t, 6))
	require.NoError(t, err)

	strip := func(rs []ladder.Result) []ladder.Result {
		out := make([]ladder.Result, len(rs))
		for i, r := range rs {
			r.MatchID = ""
			out[i] = r
		}
		return out
	}
	assert.Equal(t, strip(serial.Results), strip(parallel.Results))
	assert.Equal(t, serial.Hands.Values, parallel.Hands.Values)
	assert.Equal(t, serial.PlayerWins, parallel.PlayerWins)
}

func TestRunRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := config(t, 2)
	cfg.Matches = 0
	_, err := Run(context.Background(), cfg)
	assert.Error(t, err)

	cfg = config(t, 2)
	cfg.Evaluator = "abacus"
	_, err = Run(context.Background(), cfg)
	assert.Error(t, err)

	cfg = config(t, 2)
	cfg.Opponent = cpu.Profile{}
	_, err = Run(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRunHonoursCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, config(t, 2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	cfg := config(t, 2)
	cfg.Matches = 3
	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "redTheRiot vs theNorm: 3 matches")
	assert.Contains(t, out, "Deadlocks:")
	assert.Contains(t, out, "bb/hand")
}

func TestRunRecordsHistories(t *testing.T) {
	t.Parallel()

	cfg := config(t, 3)
	cfg.Matches = 2
	cfg.History = true
	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, report.Histories, report.TotalHands)
	first := report.Histories[0]
	assert.Equal(t, "sim-theNorm-500-001", first.HandID)
	assert.Equal(t, []string{"RedTheRiot", "TheNorm"}, sortedPlayers(first.Players))
	for _, h := range report.Histories {
		assert.Equal(t, h.StartingStacks[0]+h.StartingStacks[1], h.FinishingStacks[0]+h.FinishingStacks[1], h.HandID)
	}

	cfg.History = false
	report, err = Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, report.Histories)
}

func sortedPlayers(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return out
}
