// Package holdem implements the heads-up no-limit betting state machine: one
// human seat against one CPU seat, blinds, four betting streets, all-in
// run-outs and showdown settlement without side pots.
//
// The engine is single-threaded. Callers serialize actions, and the engine
// enforces whose turn it is through State.ToAct.
package holdem

import "fmt"

// Seat identifies one side of the table.
type Seat int

const (
	Player Seat = iota
	CPU
)

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	return 1 - s
}

func (s Seat) String() string {
	switch s {
	case Player:
		return "player"
	case CPU:
		return "cpu"
	default:
		return fmt.Sprintf("seat(%d)", int(s))
	}
}

// Valid reports whether s is one of the two seats.
func (s Seat) Valid() bool {
	return s == Player || s == CPU
}

// Phase represents the betting street
type Phase int

const (
	Preflop Phase = iota
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	if p < Preflop || p > Showdown {
		return "unknown"
	}
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[p]
}

// Action represents a player action. The zero value means no action yet.
type Action int

const (
	NoAction Action = iota
	Fold
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	if a < NoAction || a > AllIn {
		return "unknown"
	}
	return [...]string{"none", "fold", "check", "call", "raise", "allin"}[a]
}

// ParseAction maps a lowercase action name back to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold", "f":
		return Fold, nil
	case "check", "k":
		return Check, nil
	case "call", "c":
		return Call, nil
	case "raise", "bet", "r":
		return Raise, nil
	case "allin", "all-in", "shove", "a":
		return AllIn, nil
	default:
		return NoAction, fmt.Errorf("unknown action %q", s)
	}
}

// Outcome is the result of a finished hand.
type Outcome int

const (
	Undecided Outcome = iota
	PlayerWon
	CPUWon
	Split
)

func (o Outcome) String() string {
	switch o {
	case PlayerWon:
		return "player"
	case CPUWon:
		return "cpu"
	case Split:
		return "tie"
	default:
		return "none"
	}
}

// Winner returns the winning seat, or false for a split or undecided hand.
func (o Outcome) Winner() (Seat, bool) {
	switch o {
	case PlayerWon:
		return Player, true
	case CPUWon:
		return CPU, true
	default:
		return 0, false
	}
}

func outcomeFor(s Seat) Outcome {
	if s == Player {
		return PlayerWon
	}
	return CPUWon
}
