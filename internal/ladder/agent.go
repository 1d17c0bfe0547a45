package ladder

import (
	"github.com/lox/holdem-ladder/internal/cpu"
	"github.com/lox/holdem-ladder/internal/holdem"
)

// PlayerAgent supplies the human seat's actions when a match is driven by
// Play. amount is the raise-to total and is ignored for other actions.
type PlayerAgent interface {
	Decide(view holdem.Snapshot) (action holdem.Action, amount int)
}

// AgentFunc adapts a function to PlayerAgent.
type AgentFunc func(view holdem.Snapshot) (holdem.Action, int)

func (f AgentFunc) Decide(view holdem.Snapshot) (holdem.Action, int) {
	return f(view)
}

// ModelAgent lets a CPU model sit in the human seat.
type ModelAgent struct {
	Model *cpu.Model
}

func (a ModelAgent) Decide(view holdem.Snapshot) (holdem.Action, int) {
	d := a.Model.Decide(view)
	return d.Action, d.Amount
}

// CallingStation checks when it can and calls otherwise.
var CallingStation = AgentFunc(func(view holdem.Snapshot) (holdem.Action, int) {
	if view.Allows(holdem.Check) {
		return holdem.Check, 0
	}
	return holdem.Call, 0
})
