package holdem

import (
	"slices"

	"github.com/lox/holdem-ladder/internal/cards"
)

// Snapshot is the table as seen from one seat. The opponent's hole cards
// are only present once the hand has been shown down.
type Snapshot struct {
	Viewer     Seat
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

	Hole          []cards.Card
	OpponentHole  []cards.Card
	Board         []cards.Card
	ToAct         Seat
	LastAction    [2]Action
	Legal         []Action
	ToCall        int
	MinRaiseTo    int
	GameOver      bool
	Winner        Outcome
	Payouts       [2]int
	Descriptions  [2]string
	OpponentShown bool
}

// Snapshot returns the table from viewer's side.
func (e *Engine) Snapshot(viewer Seat) Snapshot {
	s := e.state
	snap := Snapshot{
		Viewer:     viewer,
		HandNumber: s.HandNumber,
		BlindLevel: s.BlindLevel,
		Phase:      s.Phase,
		Button:     s.Button,
		SmallBlind: s.SmallBlind,
		BigBlind:   s.BigBlind,
		Stacks:     s.Stacks,
		Bets:       s.Bets,
		Pot:        s.Pot,
		CurrentBet: s.CurrentBet,
		Hole:       slices.Clone(s.Hole[viewer]),
		Board:      slices.Clone(s.Board),
		ToAct:      s.ToAct,
		LastAction: s.LastAction,
		Legal:      e.LegalActions(viewer),
		ToCall:     max(s.ToCall(viewer), 0),
		MinRaiseTo: s.MinRaiseTo(),
		GameOver:   s.GameOver,
		Winner:     s.Winner,
		Payouts:    s.Payouts,
	}
	// a fold never reaches the showdown phase, so folded cards stay hidden
	if s.Phase == Showdown {
		snap.OpponentHole = slices.Clone(s.Hole[viewer.Other()])
		snap.OpponentShown = true
		snap.Descriptions = [2]string{s.Ranks[Player].Description, s.Ranks[CPU].Description}
	}
	return snap
}

// Opponent returns the viewer's opponent.
func (s Snapshot) Opponent() Seat {
	return s.Viewer.Other()
}

// CanAct reports whether the viewer has a decision to make.
func (s Snapshot) CanAct() bool {
	return len(s.Legal) > 0
}

// Allows reports whether action is currently legal for the viewer.
func (s Snapshot) Allows(action Action) bool {
	return slices.Contains(s.Legal, action)
}
