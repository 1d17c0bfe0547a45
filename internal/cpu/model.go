// Package cpu is the personality-driven CPU opponent. A Model reads the
// table from its own seat, draws from the shared match stream for every
// probabilistic branch, and returns one legal action per turn.
package cpu

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-ladder/internal/handodds"
	"github.com/lox/holdem-ladder/internal/holdem"
	"github.com/lox/holdem-ladder/internal/randutil"
)

const (
	preflopAggressionBonus = 10
	turnCautionTrim        = 5
	riverCautionTrim       = 10
	shortStackFloor        = 40

	shortStackPushStrength = 30
	shortStackGamble       = 0.3
	bluffBoost             = 25
	openShoveChance        = 0.3
	reraiseShoveChance     = 0.4
	marginalCallDraw       = 0.4
)

// Decision is the action a Model chose and the numbers behind it.
type Decision struct {
	Action holdem.Action
	// Amount is the raise-to total for Raise and zero otherwise.
	Amount   int
	Strength int
	Score    float64
	Bluff    bool
	Reason   string
}

func (d Decision) String() string {
	if d.Action == holdem.Raise {
		return fmt.Sprintf("raise to %d", d.Amount)
	}
	return d.Action.String()
}

// Model decides for one profile.
type Model struct {
	profile Profile
	rng     randutil.Source
	logger  *log.Logger
}

// New creates a model for profile drawing from rng.
func New(profile Profile, rng randutil.Source, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Model{
		profile: profile,
		rng:     rng,
		logger:  logger.WithPrefix(profile.Name),
	}
}

// Profile returns the personality the model plays.
func (m *Model) Profile() Profile {
	return m.profile
}

// Strength rates the viewer's hole cards on a 0-100 scale, adjusted for
// the street, the profile and the stack depth.
func (m *Model) Strength(view holdem.Snapshot) int {
	strength := handodds.Strength(view.Hole)
	switch view.Phase {
	case holdem.Preflop:
		if m.profile.Aggression > 50 {
			strength += preflopAggressionBonus
		}
	case holdem.Turn:
		if m.profile.CallFrequency < 50 {
			strength -= turnCautionTrim
		}
	case holdem.River:
		if m.profile.CallFrequency < 50 {
			strength -= riverCautionTrim
		}
	}
	if view.Stacks[view.Viewer] < 3*view.BigBlind {
		strength = max(strength, shortStackFloor)
	}
	return min(max(strength, 0), 100)
}

// Decide picks the action for view, which must be the model's own seat.
// It returns NoAction when the seat has nothing to decide.
func (m *Model) Decide(view holdem.Snapshot) Decision {
	if !view.CanAct() {
		return Decision{Action: holdem.NoAction, Reason: "not our turn"}
	}
	return m.decideWith(view, m.Strength(view))
}

func (m *Model) decideWith(view holdem.Snapshot, strength int) Decision {
	d := m.choose(view, strength)
	d = legalize(view, d)
	m.logger.Debug("decision",
		"hand", view.HandNumber,
		"phase", view.Phase,
		"action", d.Action,
		"amount", d.Amount,
		"strength", d.Strength,
		"score", fmt.Sprintf("%.1f", d.Score),
		"bluff", d.Bluff,
		"reason", d.Reason)
	return d
}

func (m *Model) choose(view holdem.Snapshot, strength int) Decision {
	p := m.profile
	stack := view.Stacks[view.Viewer]
	bb := view.BigBlind
	d := Decision{Strength: strength}

	if stack <= 2*bb {
		// the draw is only taken for weak hands
		if strength > shortStackPushStrength {
			return d.with(holdem.AllIn, "short stack push")
		}
		if m.rng.Float64() < shortStackGamble {
			return d.with(holdem.AllIn, "short stack gamble")
		}
		return d.with(holdem.Fold, "short stack fold")
	}

	score := float64(strength) + float64(p.Aggression-50)*0.3
	if m.rng.Float64()*100 < float64(p.BluffFrequency) {
		score += bluffBoost
		d.Bluff = true
	}
	score *= phaseFactor(view.Phase)
	d.Score = score

	raiseAt := float64(p.RaiseFrequency)
	callAt := float64(p.CallFrequency)

	if view.ToCall <= 0 {
		if score > raiseAt {
			if m.rng.Float64() < openShoveChance || stack < 5*bb {
				return d.with(holdem.AllIn, "open shove")
			}
			return m.sizeRaise(view, d.with(holdem.Raise, "open raise"))
		}
		return d.with(holdem.Check, "no bet to face")
	}

	switch {
	case score < callAt-20:
		return d.with(holdem.Fold, "too weak to continue")
	case score < callAt:
		if potOdds(view) < float64(strength)/100 {
			return d.with(holdem.Call, "priced in")
		}
		if m.rng.Float64() > marginalCallDraw {
			return d.with(holdem.Call, "marginal call")
		}
		return d.with(holdem.Fold, "marginal fold")
	case score > raiseAt:
		if m.rng.Float64() < reraiseShoveChance || stack < 5*bb {
			return d.with(holdem.AllIn, "re-shove")
		}
		return m.sizeRaise(view, d.with(holdem.Raise, "re-raise"))
	default:
		return d.with(holdem.Call, "strong enough to call")
	}
}

func (d Decision) with(action holdem.Action, reason string) Decision {
	d.Action = action
	d.Reason = reason
	return d
}

// sizeRaise sets the raise-to total: 2-3 big blinds scaled by aggression
// and jittered by +/-20%, at least one big blind over the current bet and
// never more than the stack.
func (m *Model) sizeRaise(view holdem.Snapshot, d Decision) Decision {
	bb := float64(view.BigBlind)
	size := bb * (2 + m.rng.Float64())
	size *= float64(m.profile.Aggression) / 50
	size *= 0.8 + m.rng.Float64()*0.4

	increment := max(int(size), view.BigBlind)
	to := view.CurrentBet + increment
	ceiling := view.Bets[view.Viewer] + view.Stacks[view.Viewer]
	if to >= ceiling {
		d.Action = holdem.AllIn
		return d
	}
	d.Amount = to
	return d
}

// legalize maps a chosen action onto the seat's legal actions.
func legalize(view holdem.Snapshot, d Decision) Decision {
	fallback := func() Decision {
		d.Amount = 0
		d.Reason += " (mapped)"
		if view.Allows(holdem.Call) {
			d.Action = holdem.Call
		} else {
			d.Action = holdem.Check
		}
		return d
	}

	switch d.Action {
	case holdem.Fold:
		// never fold a free check
		if view.Allows(holdem.Check) {
			d.Action = holdem.Check
			d.Reason += " (free check)"
		}
	case holdem.Raise, holdem.AllIn:
		if !view.Allows(d.Action) {
			return fallback()
		}
	case holdem.Call, holdem.Check:
		if !view.Allows(d.Action) {
			return fallback()
		}
	}
	return d
}

func potOdds(view holdem.Snapshot) float64 {
	if view.Pot <= 0 {
		return 0
	}
	return float64(view.ToCall) / float64(view.Pot+view.ToCall)
}

func phaseFactor(phase holdem.Phase) float64 {
	switch phase {
	case holdem.Preflop:
		return 1.1
	case holdem.Turn:
		return 0.9
	case holdem.River:
		return 0.8
	default:
		return 1.0
	}
}
