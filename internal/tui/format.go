package tui

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-ladder/internal/cards"
	"github.com/lox/holdem-ladder/internal/holdem"
)

// seatNames names the two seats in the log.
type seatNames [2]string

func (n seatNames) of(s holdem.Seat) string {
	if !s.Valid() {
		return "?"
	}
	return n[s]
}

// describeEvent renders a table event as one or more log lines.
func describeEvent(ev holdem.Event, names seatNames) []string {
	switch e := ev.(type) {
	case holdem.HandStartEvent:
		return []string{
			fmt.Sprintf("Hand #%d  blinds %d/%d  %s has the button",
				e.HandNumber+1, e.SmallBlind, e.BigBlind, names.of(e.Button)),
			fmt.Sprintf("%s posts %d, %s posts %d",
				names.of(e.Button), e.Posted[e.Button], names.of(e.Button.Other()), e.Posted[e.Button.Other()]),
		}

	case holdem.ActionEvent:
		who := names.of(e.Seat)
		switch e.Action {
		case holdem.Fold:
			return []string{who + " folds"}
		case holdem.Check:
			return []string{who + " checks"}
		case holdem.Call:
			return []string{fmt.Sprintf("%s calls %d", who, e.Amount)}
		case holdem.Raise:
			return []string{fmt.Sprintf("%s raises to %d", who, e.To)}
		case holdem.AllIn:
			return []string{fmt.Sprintf("%s is all-in for %d", who, e.To)}
		}
		return []string{fmt.Sprintf("%s %s", who, e.Action)}

	case holdem.StreetDealtEvent:
		line := fmt.Sprintf("*** %s *** %s", strings.ToUpper(e.Phase.String()), plainCards(e.Board))
		if e.RunOut {
			line += "  (run out)"
		}
		return []string{line}

	case holdem.HandEndEvent:
		var lines []string
		if e.Showdown {
			for _, seat := range []holdem.Seat{holdem.Player, holdem.CPU} {
				lines = append(lines, fmt.Sprintf("%s shows %s (%s)",
					names.of(seat), plainCards(e.Hole[seat]), e.Descriptions[seat]))
			}
		}
		if winner, ok := e.Winner.Winner(); ok {
			lines = append(lines, fmt.Sprintf("%s wins %d", names.of(winner), e.Payouts[winner]))
		} else {
			lines = append(lines, fmt.Sprintf("Split pot: %d each", e.Pot/2))
		}
		return lines
	}
	return nil
}

func plainCards(cs []cards.Card) string {
	return "[" + cards.Join(cs) + "]"
}

// formatCards renders cards with suit colours; missing cards show as backs.
func formatCards(cs []cards.Card, slots int) string {
	parts := make([]string, 0, max(len(cs), slots))
	for _, c := range cs {
		if c.IsRed() {
			parts = append(parts, RedCardStyle.Render(c.Pretty()))
		} else {
			parts = append(parts, BlackCardStyle.Render(c.Pretty()))
		}
	}
	for len(parts) < slots {
		parts = append(parts, HiddenCardStyle.Render("??"))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// renderActions lists what the viewer may do.
func renderActions(view holdem.Snapshot) string {
	var actions []string
	for _, a := range view.Legal {
		switch a {
		case holdem.Fold:
			actions = append(actions, ErrorStyle.Render("[fold]"))
		case holdem.Check:
			actions = append(actions, SuccessStyle.Render("[check]"))
		case holdem.Call:
			actions = append(actions, SuccessStyle.Render(fmt.Sprintf("[call %d]", min(view.ToCall, view.Stacks[view.Viewer]))))
		case holdem.Raise:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[raise %d+]", view.MinRaiseTo)))
		case holdem.AllIn:
			actions = append(actions, WarningStyle.Render(fmt.Sprintf("[allin %d]", view.Bets[view.Viewer]+view.Stacks[view.Viewer])))
		}
	}
	if len(actions) == 0 {
		return InfoStyle.Render("no actions available")
	}
	return ActionsStyle.Render("Actions: " + strings.Join(actions, " "))
}
