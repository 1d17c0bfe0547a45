package tui

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-ladder/internal/cards"
	"github.com/lox/holdem-ladder/internal/holdem"
	"github.com/lox/holdem-ladder/internal/phh"
	"github.com/lox/holdem-ladder/internal/progress"
	"github.com/lox/holdem-ladder/internal/scheduler"
)

func newTestModel(t *testing.T, sched *scheduler.Scheduler) (*Model, progress.Store) {
	t.Helper()
	return newTestModelWithHistory(t, sched, nil)
}

func newTestModelWithHistory(t *testing.T, sched *scheduler.Scheduler, history *phh.Writer) (*Model, progress.Store) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	store := progress.NewFileStore(filepath.Join(t.TempDir(), "progress.json"))
	mgr, err := progress.Load(context.Background(), store, 77, progress.WithLogger(logger))
	require.NoError(t, err)
	if sched == nil {
		sched = scheduler.New(quartz.NewMock(t), 0, logger)
	}
	return New(Options{Progress: mgr, Scheduler: sched, Logger: logger, History: history, TestMode: true}), store
}

func logText(m *Model) string {
	return strings.Join(m.GetCapturedLog(), "\n")
}

func TestLobbyCommands(t *testing.T) {
	m, _ := newTestModel(t, nil)
	assert.Contains(t, logText(m), "Next opponent: TheNorm")

	m.Submit("opponents")
	assert.Contains(t, logText(m), "CrazyHorse")

	m.Submit("board")
	assert.Contains(t, logText(m), "Leaderboard")

	m.Submit("select mrMark")
	assert.Contains(t, m.Status(), "locked")

	m.Submit("play nobody")
	assert.Contains(t, m.Status(), "unknown opponent")
	assert.Nil(t, m.Match())

	m.Submit("dance")
	assert.Contains(t, m.Status(), "unknown command")
}

func TestPlayMatchToTheEnd(t *testing.T) {
	m, store := newTestModel(t, nil)

	m.Submit("play")
	require.NotNil(t, m.Match())
	assert.Contains(t, logText(m), "Match vs TheNorm")
	assert.Equal(t, progress.StartingTokens-1, m.progress.State().Tokens)

	for i := 0; m.Match() != nil; i++ {
		require.Less(t, i, 500, "match did not finish")
		match := m.Match()
		if !match.InHand() {
			m.Submit("")
			continue
		}
		view := match.Snapshot()
		require.True(t, view.CanAct(), "the cpu acts inline with no delay")
		if view.Allows(holdem.Check) {
			m.Submit("check")
		} else {
			m.Submit("call")
		}
		require.Empty(t, m.Status())
	}

	st := m.progress.State()
	assert.Equal(t, 1, st.Stats.MatchesPlayed)
	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, st, saved)
	assert.Contains(t, logText(m), "Type 'play' for another match.")
}

func TestMatchWritesHandHistory(t *testing.T) {
	var buf bytes.Buffer
	history := phh.NewWriter(&buf)
	m, _ := newTestModelWithHistory(t, nil, history)

	m.Submit("play")
	require.NotNil(t, m.Match())
	id := m.Match().ID()
	for i := 0; m.Match() != nil; i++ {
		require.Less(t, i, 500, "match did not finish")
		if !m.Match().InHand() {
			m.Submit("")
			continue
		}
		if m.Match().Snapshot().Allows(holdem.Check) {
			m.Submit("check")
		} else {
			m.Submit("call")
		}
	}

	require.Positive(t, history.Count())
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[1]\n"))
	assert.Contains(t, out, `hand = "`+id+`-001"`)
	assert.Contains(t, out, `"Player"`)
}

func TestRejectedActionsShowStatus(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Submit("play")
	require.NotNil(t, m.Match())
	for i := 0; !m.Match().InHand(); i++ {
		require.Less(t, i, 10)
		m.Submit("")
	}

	m.Submit("raise abc")
	assert.Contains(t, m.Status(), "invalid raise amount")

	m.Submit("juggle")
	assert.Contains(t, m.Status(), "unknown action")

	before := m.Match().Snapshot()
	m.Submit("")
	assert.Equal(t, "enter an action", m.Status())
	assert.Equal(t, before, m.Match().Snapshot())
}

func TestCPURevealWaitsForClock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	m, _ := newTestModel(t, scheduler.New(clock, time.Second, nil))

	// the cpu has the button on the first hand and acts first
	cmd := m.Submit("play")
	require.NotNil(t, cmd)
	require.True(t, m.cpuThinking)
	assert.Equal(t, holdem.CPU, m.Match().Engine().State().ToAct)

	m.Submit("call")
	assert.Contains(t, m.Status(), "thinking")

	clock.Advance(time.Second).MustWait(ctx)
	msg := cmd()
	require.Equal(t, cpuRevealMsg{fired: true}, msg)
	m.Update(msg)

	assert.False(t, m.cpuThinking)
	assert.NotEmpty(t, m.Match().Actions())
	assert.Equal(t, holdem.CPU, m.Match().Actions()[0].Seat)
}

func TestQuitCancelsReveal(t *testing.T) {
	clock := quartz.NewMock(t)
	sched := scheduler.New(clock, time.Second, nil)
	m, _ := newTestModel(t, sched)

	cmd := m.Submit("play")
	require.NotNil(t, cmd)
	require.True(t, sched.Pending())

	m.Submit("quit")
	assert.True(t, m.Quitting())
	assert.False(t, sched.Pending())
	assert.Equal(t, cpuRevealMsg{fired: false}, cmd())
}

func TestDescribeEvent(t *testing.T) {
	t.Parallel()

	names := seatNames{"You", "MrMark"}
	tests := []struct {
		ev   holdem.Event
		want []string
	}{
		{
			holdem.HandStartEvent{HandNumber: 2, Button: holdem.CPU, SmallBlind: 75, BigBlind: 150, Posted: [2]int{150, 75}},
			[]string{"Hand #3  blinds 75/150  MrMark has the button", "MrMark posts 75, You posts 150"},
		},
		{holdem.ActionEvent{Seat: holdem.Player, Action: holdem.Raise, Amount: 250, To: 300}, []string{"You raises to 300"}},
		{holdem.ActionEvent{Seat: holdem.CPU, Action: holdem.Call, Amount: 200, To: 300}, []string{"MrMark calls 200"}},
		{holdem.ActionEvent{Seat: holdem.CPU, Action: holdem.AllIn, Amount: 900, To: 1000}, []string{"MrMark is all-in for 1000"}},
		{
			holdem.StreetDealtEvent{Phase: holdem.Flop, Board: cards.MustParseCards("As Kd 3c"), RunOut: true},
			[]string{"*** FLOP *** [As Kd 3c]  (run out)"},
		},
		{
			holdem.HandEndEvent{Winner: holdem.CPUWon, Pot: 400, Payouts: [2]int{0, 400}},
			[]string{"MrMark wins 400"},
		},
		{
			holdem.HandEndEvent{Winner: holdem.Split, Pot: 400, Payouts: [2]int{200, 200}, Showdown: true,
				Hole:         [2][]cards.Card{cards.MustParseCards("Ah Kh"), cards.MustParseCards("Ad Kd")},
				Descriptions: [2]string{"Straight", "Straight"}},
			[]string{"You shows [Ah Kh] (Straight)", "MrMark shows [Ad Kd] (Straight)", "Split pot: 200 each"},
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describeEvent(tt.ev, names))
	}
}
