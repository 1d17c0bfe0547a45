package ladder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-ladder/internal/cpu"
	"github.com/lox/holdem-ladder/internal/handodds"
	"github.com/lox/holdem-ladder/internal/holdem"
)

func newMatch(t *testing.T, seed int64, opponent string) *Match {
	t.Helper()
	p, ok := cpu.Lookup(opponent)
	require.True(t, ok)
	m, err := NewMatch(Config{Seed: seed, Opponent: p})
	require.NoError(t, err)
	return m
}

var folder = AgentFunc(func(holdem.Snapshot) (holdem.Action, int) {
	return holdem.Fold, 0
})

// valueBettor raises good hands and calls everything else without touching
// the match stream.
var valueBettor = AgentFunc(func(view holdem.Snapshot) (holdem.Action, int) {
	if handodds.Strength(view.Hole) >= 60 && view.Allows(holdem.Raise) {
		return holdem.Raise, view.MinRaiseTo()
	}
	return CallingStation(view)
})

func playOut(t *testing.T, m *Match, player PlayerAgent) {
	t.Helper()
	require.NoError(t, m.playHand(player))
}

func TestDefaultLadder(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultLadder.Validate())
	assert.Len(t, DefaultLadder, 9)
	assert.Equal(t, 8, DefaultLadder.Final())

	tests := map[int]int{0: 0, 1: 0, 2: 1, 3: 1, 15: 7, 16: 8, 17: 8, 500: 8, -3: 0}
	for hands, want := range tests {
		assert.Equal(t, want, DefaultLadder.LevelFor(hands), "hands %d", hands)
	}
}

func TestLadderValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]Ladder{
		"empty":            {},
		"small not below":  {{SmallBlind: 100, BigBlind: 100, StackChips: 1000}},
		"zero stack":       {{SmallBlind: 50, BigBlind: 100, StackChips: 0}},
		"decreasing level": {{SmallBlind: 100, BigBlind: 200, StackChips: 1000}, {SmallBlind: 50, BigBlind: 100, StackChips: 1000}},
	}
	for name, l := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, l.Validate(), ErrInvalidLadder)
		})
	}

	_, err := NewMatch(Config{Opponent: cpu.Profiles[0], Ladder: tests["decreasing level"]})
	assert.ErrorIs(t, err, ErrInvalidLadder)
}

func TestDeadlockAtFinalLevel(t *testing.T) {
	t.Parallel()

	m := newMatch(t, 1, "theNorm")
	m.handsPlayed, m.level, m.stacks = 17, 8, [2]int{1000, 1000}

	require.NoError(t, m.NextHand())
	s := m.Engine().State()
	assert.Equal(t, 8, s.BlindLevel)
	assert.Equal(t, holdem.Player, s.Button)
	assert.True(t, s.AllIn(holdem.CPU), "a 1000 big blind puts the cpu all-in")

	require.NoError(t, m.Act(holdem.Fold, 0))
	res, over, err := m.FinishHand()
	require.NoError(t, err)
	require.True(t, over)
	assert.True(t, res.Deadlock)
	assert.Equal(t, holdem.Undecided, res.Winner)
	assert.False(t, res.PlayerWon())
	assert.Equal(t, [2]int{500, 1500}, res.Stacks)
	assert.Equal(t, 18, res.HandsPlayed)

	assert.ErrorIs(t, m.NextHand(), ErrMatchOver)
}

func TestStacksCarryWithinLevelAndResetOnNewLevel(t *testing.T) {
	t.Parallel()

	m := newMatch(t, 7, "redTheRiot")

	require.NoError(t, m.NextHand())
	playOut(t, m, folder)
	_, over, err := m.FinishHand()
	require.NoError(t, err)
	require.False(t, over)
	after := m.stacks
	assert.Equal(t, 2000, after[holdem.Player]+after[holdem.CPU])

	require.NoError(t, m.NextHand())
	s := m.Engine().State()
	assert.Equal(t, 0, s.BlindLevel)
	for _, seat := range []holdem.Seat{holdem.Player, holdem.CPU} {
		assert.Equal(t, after[seat], s.Stacks[seat]+s.Bets[seat])
	}
	require.NoError(t, m.Act(holdem.Fold, 0))
	_, _, err = m.FinishHand()
	require.NoError(t, err)

	require.NoError(t, m.NextHand())
	s = m.Engine().State()
	lvl, blinds := m.Level()
	assert.Equal(t, 1, lvl)
	assert.Equal(t, "75/150", blinds.String())
	for _, seat := range []holdem.Seat{holdem.Player, holdem.CPU} {
		assert.Equal(t, 1000, s.Stacks[seat]+s.Bets[seat])
	}
}

func TestMatchSequencingErrors(t *testing.T) {
	t.Parallel()

	m := newMatch(t, 3, "theNorm")
	assert.ErrorIs(t, m.Act(holdem.Check, 0), ErrNoHand)
	_, err := m.CPUTurn()
	assert.ErrorIs(t, err, ErrNoHand)
	_, _, err = m.FinishHand()
	assert.ErrorIs(t, err, ErrNoHand)

	require.NoError(t, m.NextHand())
	assert.ErrorIs(t, m.NextHand(), ErrHandInProgress)
	playOut(t, m, folder)
	_, _, err = m.FinishHand()
	require.NoError(t, err)

	// odd hands put the player on the button, first to act
	require.NoError(t, m.NextHand())
	_, err = m.CPUTurn()
	assert.ErrorIs(t, err, ErrNotCPUTurn)
	_, _, err = m.FinishHand()
	assert.ErrorIs(t, err, ErrHandInProgress)
	assert.ErrorIs(t, m.Act(holdem.Check, 0), holdem.ErrIllegalAction)
}

func TestPlayEndsInBustOrDeadlock(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 20; seed++ {
		for _, p := range cpu.Profiles {
			m := newMatch(t, seed, p.ID)
			res, err := m.Play(context.Background(), valueBettor)
			require.NoError(t, err)
			require.True(t, m.Over())

			assert.LessOrEqual(t, res.HandsPlayed, 2*DefaultLadder.Final())
			assert.Equal(t, 2000, res.Stacks[holdem.Player]+res.Stacks[holdem.CPU])
			if res.Deadlock {
				assert.Equal(t, 2*DefaultLadder.Final(), res.HandsPlayed)
				assert.Positive(t, res.Stacks[holdem.Player])
				assert.Positive(t, res.Stacks[holdem.CPU])
				continue
			}
			winner, ok := res.Winner.Winner()
			require.True(t, ok)
			assert.Zero(t, res.Stacks[winner.Other()])
		}
	}
}

func TestSameSeedSameMatch(t *testing.T) {
	t.Parallel()

	run := func() (Result, []LoggedAction) {
		m := newMatch(t, 12345, "crazyHorse")
		player := ModelAgent{Model: cpu.New(cpu.Profiles[2], m.RNG(), nil)}
		res, err := m.Play(context.Background(), player)
		require.NoError(t, err)
		return res, m.Actions()
	}
	a, logA := run()
	b, logB := run()

	assert.Equal(t, logA, logB)
	assert.NotEqual(t, a.MatchID, b.MatchID)
	a.MatchID, b.MatchID = "", ""
	assert.Equal(t, a, b)
}

func TestReplayReproducesMatch(t *testing.T) {
	t.Parallel()

	profile, _ := cpu.Lookup("mrMark")
	m, err := NewMatch(Config{Seed: 99, Opponent: profile})
	require.NoError(t, err)
	want, err := m.Play(context.Background(), valueBettor)
	require.NoError(t, err)

	got, err := Replay(context.Background(), Config{Seed: 99, Opponent: profile}, m.Actions())
	require.NoError(t, err)
	want.MatchID, got.MatchID = "", ""
	assert.Equal(t, want, got)

	_, err = Replay(context.Background(), Config{Seed: 100, Opponent: profile}, m.Actions())
	assert.ErrorIs(t, err, ErrReplayDiverged)
}

func TestPlayHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := newMatch(t, 5, "theNorm")
	_, err := m.Play(ctx, folder)
	assert.ErrorIs(t, err, context.Canceled)
}
