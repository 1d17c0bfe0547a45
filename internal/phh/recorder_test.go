package phh

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-ladder/internal/cards"
	"github.com/lox/holdem-ladder/internal/holdem"
	"github.com/lox/holdem-ladder/internal/randutil"
)

// newEngine deals order top first: player, player, cpu, cpu, board.
func newEngine(t *testing.T, order string) (*holdem.Engine, quartz.Clock) {
	t.Helper()
	top := cards.MustParseCards(order)
	clock := quartz.NewMock(t)
	e := holdem.NewEngine(randutil.New(1),
		holdem.WithLogger(log.New(io.Discard)),
		holdem.WithClock(clock),
		holdem.WithDeck(func(rng randutil.Source, logger *log.Logger) *cards.Deck {
			return cards.NewStackedDeck(top, rng, logger)
		}))
	return e, clock
}

func handConfig(button holdem.Seat) holdem.HandConfig {
	return holdem.HandConfig{
		Button:      button,
		SmallBlind:  50,
		BigBlind:    100,
		PlayerStack: 1000,
		CPUStack:    1000,
	}
}

func TestRecorderFoldOnFlop(t *testing.T) {
	t.Parallel()

	e, clock := newEngine(t, "AsAh KdKc 2c7d9h Ts 3s")
	var got []*HandHistory
	rec := NewRecorder(e, "t1", [2]string{"You", "TheNorm"}, func(h *HandHistory) { got = append(got, h) })
	defer rec.Attach()()

	require.NoError(t, e.StartHand(handConfig(holdem.Player)))
	require.NoError(t, e.Call(holdem.Player))
	require.NoError(t, e.Check(holdem.CPU))
	require.NoError(t, e.Check(holdem.CPU))
	require.NoError(t, e.Raise(holdem.Player, 200))
	require.NoError(t, e.Fold(holdem.CPU))

	require.Len(t, got, 1)
	h := got[0]
	assert.Equal(t, []string{
		"d dh p1 AsAh",
		"d dh p2 KdKc",
		"p1 cc",
		"p2 cc",
		"d db 2c7d9h",
		"p2 cc",
		"p1 cbr 200",
		"p2 f",
	}, h.Actions)
	assert.Equal(t, "t1-001", h.HandID)
	assert.Equal(t, []string{"You", "TheNorm"}, h.Players)
	assert.Equal(t, []int{50, 100}, h.BlindsOrStraddles)
	assert.Equal(t, 100, h.MinBet)
	assert.Equal(t, []int{1000, 1000}, h.StartingStacks)
	assert.Equal(t, []int{1100, 900}, h.FinishingStacks)
	assert.Equal(t, []int{400, 0}, h.Winnings)
	assert.Equal(t, clock.Now().UTC().Format("15:04:05"), h.Time)
	assert.Equal(t, got, rec.Hands())
}

func TestRecorderAllInShowdown(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, "AsAh KdKc 2c7d9h Ts 3s")
	rec := NewRecorder(e, "t2", [2]string{"You", "MrMark"}, nil)
	defer rec.Attach()()

	// the cpu has the button, so it is p1
	require.NoError(t, e.StartHand(handConfig(holdem.CPU)))
	require.NoError(t, e.AllIn(holdem.CPU))
	require.NoError(t, e.Call(holdem.Player))

	hands := rec.Hands()
	require.Len(t, hands, 1)
	h := hands[0]
	assert.Equal(t, []string{
		"d dh p1 KdKc",
		"d dh p2 AsAh",
		"p1 cbr 1000",
		"p2 cc",
		"d db 2c7d9h",
		"d db Ts",
		"d db 3s",
		"p1 sm KdKc",
		"p2 sm AsAh",
	}, h.Actions)
	assert.Equal(t, []string{"MrMark", "You"}, h.Players)
	assert.Equal(t, []int{0, 2000}, h.FinishingStacks)
	assert.Equal(t, []int{0, 2000}, h.Winnings)
}

func TestRecorderStopsAfterUnsubscribe(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, "AsAh KdKc")
	rec := NewRecorder(e, "t3", [2]string{"You", "TheNorm"}, nil)
	unsubscribe := rec.Attach()

	require.NoError(t, e.StartHand(handConfig(holdem.Player)))
	require.NoError(t, e.Fold(holdem.Player))
	unsubscribe()
	require.NoError(t, e.StartHand(handConfig(holdem.CPU)))
	require.NoError(t, e.Fold(holdem.CPU))

	require.Len(t, rec.Hands(), 1)
	assert.Equal(t, []string{"d dh p1 AsAh", "d dh p2 KdKc", "p1 f"}, rec.Hands()[0].Actions)
}
