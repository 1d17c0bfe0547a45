package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-ladder/internal/cards"
	"github.com/lox/holdem-ladder/internal/randutil"
)

func backends(t *testing.T) []Evaluator {
	t.Helper()
	var out []Evaluator
	for _, name := range Backends() {
		ev, err := New(name)
		require.NoError(t, err)
		require.Equal(t, name, ev.Name())
		out = append(out, ev)
	}
	return out
}

func seven(hole, board string) []cards.Card {
	return append(cards.MustParseCards(hole), cards.MustParseCards(board)...)
}

func TestWinners(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		board string
		a, b  string
		want  []int
	}{
		{"flush beats straight", "9h8h7h2c3d", "AhKs", "Td6s", []int{0}},
		{"set beats two pair", "Kd9s4c2h7d", "JcJs", "Kh9h", []int{1}},
		{"kicker decides", "Ah8d5c3s2h", "AcKd", "AsQd", []int{0}},
		{"board plays for both", "AhKhQhJhTh", "2c3d", "4s5s", []int{0, 1}},
		{"same straight ties", "9c8d7h6s2c", "Th3c", "Td4h", []int{0, 1}},
	}
	for _, ev := range backends(t) {
		for _, tt := range tests {
			t.Run(ev.Name()+"/"+tt.name, func(t *testing.T) {
				got, ranks, err := Winners(ev, seven(tt.a, tt.board), seven(tt.b, tt.board))
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				require.Len(t, ranks, 2)
			})
		}
	}
}

func TestRankRejectsBadInput(t *testing.T) {
	t.Parallel()

	for _, ev := range backends(t) {
		_, err := ev.Rank(cards.MustParseCards("AsKsQs"))
		assert.ErrorIs(t, err, ErrInvalidHand)

		_, err = ev.Rank(seven("AsAs", "2c3d4h5s9c"))
		assert.ErrorIs(t, err, ErrInvalidHand)
	}
}

func TestBackendsAgree(t *testing.T) {
	t.Parallel()

	ch, ph := NewChehsunliu(), NewPaulhankin()
	rng := randutil.New(2024)
	for i := 0; i < 500; i++ {
		d := cards.NewDeck(rng, nil)
		a, b := d.DrawN(2), d.DrawN(2)
		board := d.DrawN(5)
		handA := append(append([]cards.Card{}, a...), board...)
		handB := append(append([]cards.Card{}, b...), board...)

		wc, _, err := Winners(ch, handA, handB)
		require.NoError(t, err)
		wp, _, err := Winners(ph, handA, handB)
		require.NoError(t, err)
		require.Equal(t, wc, wp, "hand %d: %s vs %s on %s", i, cards.Join(a), cards.Join(b), cards.Join(board))
	}
}

func TestDescription(t *testing.T) {
	t.Parallel()

	for _, ev := range backends(t) {
		r, err := ev.Rank(seven("AhKh", "QhJhTh2c3d"))
		require.NoError(t, err)
		assert.NotEmpty(t, r.String(), ev.Name())
	}
}

func TestUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := New("treys")
	assert.ErrorIs(t, err, ErrUnknownBackend)

	ev, err := New("")
	require.NoError(t, err)
	assert.Equal(t, Default, ev.Name())
}
