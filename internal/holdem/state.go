package holdem

import (
	"slices"

	"github.com/lox/holdem-ladder/internal/cards"
	"github.com/lox/holdem-ladder/internal/evaluator"
)

// State is the full table state of the hand in play. Per-seat fields are
// indexed by Seat.
//
// While a hand runs, Stacks[Player]+Stacks[CPU]+Pot is constant. Pot holds
// every chip committed this hand, including the street bets in Bets, and
// CurrentBet equals the larger of the two Bets between actions.
type State struct {
	HandNumber int
	BlindLevel int
	Phase      Phase
	Button     Seat
	SmallBlind int
	BigBlind   int

	Stacks     [2]int
	Bets       [2]int
	Pot        int
	CurrentBet int

	Hole  [2][]cards.Card
	Board []cards.Card

	ToAct      Seat
	Acted      [2]bool
	LastAction [2]Action

	GameOver bool
	Winner   Outcome
	// Payouts holds the chips each seat collected from the pot at the end.
	Payouts [2]int
	// Ranks is filled in only when the hand reached showdown.
	Ranks [2]evaluator.HandRank
}

// Stack returns the chips seat has behind.
func (s State) Stack(seat Seat) int { return s.Stacks[seat] }

// Bet returns the chips seat has committed on the current street.
func (s State) Bet(seat Seat) int { return s.Bets[seat] }

// ToCall returns the chips seat must add to match the current bet.
func (s State) ToCall(seat Seat) int {
	return s.CurrentBet - s.Bets[seat]
}

// AllIn reports whether seat has no chips behind.
func (s State) AllIn(seat Seat) bool {
	return s.Stacks[seat] == 0
}

// BigBlindSeat returns the seat that posted the big blind.
func (s State) BigBlindSeat() Seat {
	return s.Button.Other()
}

// Chips returns the chips in play: both stacks plus the pot.
func (s State) Chips() int {
	return s.Stacks[Player] + s.Stacks[CPU] + s.Pot
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Hole[Player] = slices.Clone(s.Hole[Player])
	out.Hole[CPU] = slices.Clone(s.Hole[CPU])
	out.Board = slices.Clone(s.Board)
	return out
}
