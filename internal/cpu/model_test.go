package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-ladder/internal/cards"
	"github.com/lox/holdem-ladder/internal/holdem"
	"github.com/lox/holdem-ladder/internal/randutil"
)

func profile(t *testing.T, id string) Profile {
	t.Helper()
	p, ok := Lookup(id)
	require.True(t, ok, id)
	return p
}

// view builds the CPU's side of the table at 10/20 with deep stacks.
func view(hole string, phase holdem.Phase, toCall int, legal ...holdem.Action) holdem.Snapshot {
	return holdem.Snapshot{
		Viewer:     holdem.CPU,
		Phase:      phase,
		SmallBlind: 10,
		BigBlind:   20,
		Stacks:     [2]int{1000, 1000},
		Bets:       [2]int{toCall, 0},
		Pot:        40 + toCall,
		CurrentBet: toCall,
		ToCall:     toCall,
		Hole:       cards.MustParseCards(hole),
		ToAct:      holdem.CPU,
		Legal:      legal,
	}
}

var (
	unopened = []holdem.Action{holdem.Fold, holdem.Check, holdem.Raise, holdem.AllIn}
	facing   = []holdem.Action{holdem.Fold, holdem.Call, holdem.Raise, holdem.AllIn}
)

func TestStrengthAdjustments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile string
		hole    string
		phase   holdem.Phase
		stack   int
		want    int
	}{
		{"raw flop", "theNorm", "AsAh", holdem.Flop, 1000, 85},
		{"aggressive preflop bonus", "mrMark", "AsAh", holdem.Preflop, 1000, 95},
		{"passive preflop no bonus", "redTheRiot", "AsAh", holdem.Preflop, 1000, 85},
		{"cautious turn trim", "redTheRiot", "AsAh", holdem.Turn, 1000, 80},
		{"cautious river trim", "crazyHorse", "AsAh", holdem.River, 1000, 75},
		{"loose river untouched", "theNorm", "AsAh", holdem.River, 1000, 85},
		{"short stack floor", "theNorm", "3h2d", holdem.Flop, 50, 40},
		{"floor never lowers", "theNorm", "AsAh", holdem.Flop, 50, 85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(profile(t, tt.profile), randutil.NewScripted(0.5), nil)
			v := view(tt.hole, tt.phase, 0, unopened...)
			v.Stacks[holdem.CPU] = tt.stack
			assert.Equal(t, tt.want, m.Strength(v))
		})
	}
}

func TestShortStackOverride(t *testing.T) {
	t.Parallel()

	short := func() holdem.Snapshot {
		v := view("3h2d", holdem.Preflop, 10, facing...)
		v.Stacks[holdem.CPU] = 40
		return v
	}

	t.Run("weak hand and high draw folds", func(t *testing.T) {
		rng := randutil.NewScripted(0.5)
		m := New(profile(t, "theNorm"), rng, nil)
		d := m.decideWith(short(), 25)
		assert.Equal(t, holdem.Fold, d.Action)
		assert.Equal(t, 1, rng.Consumed())
	})

	t.Run("weak hand and low draw shoves", func(t *testing.T) {
		m := New(profile(t, "theNorm"), randutil.NewScripted(0.2), nil)
		assert.Equal(t, holdem.AllIn, m.decideWith(short(), 25).Action)
	})

	t.Run("playable hand shoves without drawing", func(t *testing.T) {
		rng := randutil.NewScripted(0.99)
		m := New(profile(t, "theNorm"), rng, nil)
		assert.Equal(t, holdem.AllIn, m.decideWith(short(), 31).Action)
		assert.Zero(t, rng.Consumed())
	})

	t.Run("stack floor makes Decide push", func(t *testing.T) {
		m := New(profile(t, "theNorm"), randutil.NewScripted(0.99), nil)
		d := m.Decide(short())
		assert.Equal(t, 40, d.Strength)
		assert.Equal(t, holdem.AllIn, d.Action)
	})

	t.Run("free check is never folded", func(t *testing.T) {
		m := New(profile(t, "theNorm"), randutil.NewScripted(0.9), nil)
		v := short()
		v.ToCall, v.CurrentBet, v.Legal = 0, 0, unopened
		assert.Equal(t, holdem.Check, m.decideWith(v, 20).Action)
	})
}

func TestUnopenedPot(t *testing.T) {
	t.Parallel()

	t.Run("strong hand raises", func(t *testing.T) {
		// bluff miss, no shove, sizing draws
		rng := randutil.NewScripted(0.99, 0.5, 0.5, 0.5)
		m := New(profile(t, "crazyHorse"), rng, nil)
		d := m.Decide(view("AsAh", holdem.Flop, 0, unopened...))
		require.Equal(t, holdem.Raise, d.Action)
		assert.InDelta(t, 95.5, d.Score, 1e-9)
		// 20 * 2.5 * 85/50 * 1.0
		assert.Equal(t, 85, d.Amount)
		assert.Equal(t, 4, rng.Consumed())
	})

	t.Run("strong hand sometimes shoves", func(t *testing.T) {
		m := New(profile(t, "crazyHorse"), randutil.NewScripted(0.99, 0.1), nil)
		assert.Equal(t, holdem.AllIn, m.Decide(view("AsAh", holdem.Flop, 0, unopened...)).Action)
	})

	t.Run("weak hand checks", func(t *testing.T) {
		m := New(profile(t, "mrMark"), randutil.NewScripted(0.99), nil)
		d := m.Decide(view("3h2d", holdem.River, 0, unopened...))
		assert.Equal(t, holdem.Check, d.Action)
		assert.False(t, d.Bluff)
	})

	t.Run("bluff lifts the score", func(t *testing.T) {
		m := New(profile(t, "theNorm"), randutil.NewScripted(0.01, 0.9, 0.5, 0.5), nil)
		d := m.Decide(view("3h2d", holdem.Flop, 0, unopened...))
		assert.True(t, d.Bluff)
		// (35 - 12 + 25) beats TheNorm's raise frequency of 5
		assert.Equal(t, holdem.Raise, d.Action)
		assert.Equal(t, 20, d.Amount, "raise size floors at one big blind")
	})
}

func TestFacingBet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		profile  string
		hole     string
		phase    holdem.Phase
		toCall   int
		draws    []float64
		want     holdem.Action
		consumed int
	}{
		{"weak hand folds", "theNorm", "3h2d", holdem.Flop, 20, []float64{0.99}, holdem.Fold, 1},
		{"marginal hand priced in", "theNorm", "AsAh", holdem.Flop, 20, []float64{0.99}, holdem.Call, 1},
		{"marginal hand bad price folds on low draw", "redTheRiot", "3h2d", holdem.Flop, 100, []float64{0.99, 0.2}, holdem.Fold, 2},
		{"marginal hand bad price calls on high draw", "redTheRiot", "3h2d", holdem.Flop, 100, []float64{0.99, 0.7}, holdem.Call, 2},
		{"between call and raise calls", "redTheRiot", "Kd2c", holdem.Flop, 20, []float64{0.99}, holdem.Call, 1},
		{"strong hand re-raises", "mrMark", "AsAh", holdem.Preflop, 20, []float64{0.99, 0.5, 0.5, 0.5}, holdem.Raise, 4},
		{"strong hand re-shoves", "mrMark", "AsAh", holdem.Preflop, 20, []float64{0.99, 0.3}, holdem.AllIn, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := randutil.NewScripted(tt.draws...)
			m := New(profile(t, tt.profile), rng, nil)
			v := view(tt.hole, tt.phase, tt.toCall, facing...)
			v.Stacks[holdem.CPU] = 2000
			d := m.Decide(v)
			assert.Equal(t, tt.want, d.Action, d.Reason)
			assert.Equal(t, tt.consumed, rng.Consumed())
		})
	}
}

func TestDecisionsMapOntoLegalActions(t *testing.T) {
	t.Parallel()

	// opponent is all-in: raising is not possible, so a raise becomes a call
	m := New(profile(t, "mrMark"), randutil.NewScripted(0.99, 0.5, 0.5, 0.5), nil)
	v := view("AsAh", holdem.Preflop, 20, holdem.Fold, holdem.Call, holdem.AllIn)
	d := m.Decide(v)
	assert.Equal(t, holdem.Call, d.Action)
	assert.Zero(t, d.Amount)

	assert.Equal(t, holdem.NoAction, m.Decide(holdem.Snapshot{Viewer: holdem.CPU}).Action)
}

func TestDecisionsAgainstEngine(t *testing.T) {
	t.Parallel()

	for _, p := range Profiles {
		t.Run(p.Name, func(t *testing.T) {
			rng := randutil.New(99)
			e := holdem.NewEngine(rng)
			m := New(p, rng, nil)
			for n := 0; n < 40; n++ {
				require.NoError(t, e.StartHand(holdem.HandConfig{
					HandNumber: n, Button: holdem.Seat(n % 2), SmallBlind: 10, BigBlind: 20,
					PlayerStack: 1000, CPUStack: 1000,
				}))
				for !e.State().GameOver {
					s := e.State()
					d := m.Decide(e.Snapshot(s.ToAct))
					require.NotEqual(t, holdem.NoAction, d.Action)
					require.NoError(t, e.Apply(s.ToAct, d.Action, d.Amount), "%s: %s", p.Name, d)
				}
			}
		})
	}
}

func TestProfiles(t *testing.T) {
	t.Parallel()

	for i, p := range Profiles {
		require.NoError(t, p.Validate())
		assert.Equal(t, i+1, p.Tier)
		got, ok := ForTier(p.Tier)
		require.True(t, ok)
		assert.Equal(t, p.ID, got.ID)
	}
	assert.Equal(t, 5, MaxTier())

	p, ok := Lookup("crazyhorse")
	require.True(t, ok)
	assert.Equal(t, 85, p.Aggression)
	_, ok = Lookup("nobody")
	assert.False(t, ok)

	bad := Profiles[0]
	bad.Aggression = 101
	assert.Error(t, bad.Validate())
}
