package phh

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-ladder/internal/cards"
	"github.com/lox/holdem-ladder/internal/holdem"
)

// Recorder turns an engine's event stream into hand histories.
type Recorder struct {
	table  string
	names  [2]string
	engine *holdem.Engine
	onHand func(*HandHistory)

	cur   *HandHistory
	order [2]holdem.Seat
	bets  [2]int
	dealt int
	hands []*HandHistory
}

// NewRecorder records hands played on engine. names are indexed by seat;
// onHand, if set, receives each hand as it completes.
func NewRecorder(engine *holdem.Engine, table string, names [2]string, onHand func(*HandHistory)) *Recorder {
	return &Recorder{table: table, names: names, engine: engine, onHand: onHand}
}

// Attach subscribes to the engine and returns the unsubscribe function.
func (r *Recorder) Attach() func() {
	return r.engine.Subscribe(r.observe)
}

// Hands returns every completed hand so far.
func (r *Recorder) Hands() []*HandHistory {
	return append([]*HandHistory(nil), r.hands...)
}

func (r *Recorder) label(seat holdem.Seat) string {
	if r.order[0] == seat {
		return "p1"
	}
	return "p2"
}

func (r *Recorder) byOrder(v [2]int) []int {
	return []int{v[r.order[0]], v[r.order[1]]}
}

func (r *Recorder) observe(ev holdem.Event) {
	switch e := ev.(type) {
	case holdem.HandStartEvent:
		r.start(e)

	case holdem.ActionEvent:
		if r.cur == nil {
			return
		}
		p := r.label(e.Seat)
		var line string
		switch e.Action {
		case holdem.Fold:
			line = p + " f"
		case holdem.Check, holdem.Call:
			line = p + " cc"
		case holdem.Raise:
			line = fmt.Sprintf("%s cbr %d", p, e.To)
		case holdem.AllIn:
			// a short all-in that does not exceed the bet is a call
			if e.To > r.bets[e.Seat.Other()] {
				line = fmt.Sprintf("%s cbr %d", p, e.To)
			} else {
				line = p + " cc"
			}
		}
		r.bets[e.Seat] = e.To
		r.cur.Actions = append(r.cur.Actions, line)

	case holdem.StreetDealtEvent:
		if r.cur == nil || len(e.Board) <= r.dealt {
			return
		}
		r.cur.Actions = append(r.cur.Actions, "d db "+packed(e.Board[r.dealt:]))
		r.dealt = len(e.Board)
		r.bets = [2]int{}

	case holdem.HandEndEvent:
		if r.cur == nil {
			return
		}
		if e.Showdown {
			for _, seat := range r.order {
				r.cur.Actions = append(r.cur.Actions, fmt.Sprintf("%s sm %s", r.label(seat), packed(e.Hole[seat])))
			}
		}
		r.cur.FinishingStacks = r.byOrder(e.Stacks)
		r.cur.Winnings = r.byOrder(e.Payouts)
		hand := r.cur
		r.cur = nil
		r.hands = append(r.hands, hand)
		if r.onHand != nil {
			r.onHand(hand)
		}
	}
}

func (r *Recorder) start(e holdem.HandStartEvent) {
	r.order = [2]holdem.Seat{e.Button, e.Button.Other()}
	r.bets = e.Posted
	r.dealt = 0

	var starting [2]int
	for seat := range starting {
		starting[seat] = e.Stacks[seat] + e.Posted[seat]
	}
	ts := e.Timestamp().UTC()
	h := &HandHistory{
		Variant:           "NT",
		Table:             r.table,
		SeatCount:         2,
		Antes:             []int{0, 0},
		BlindsOrStraddles: r.byOrder(e.Posted),
		MinBet:            e.BigBlind,
		StartingStacks:    r.byOrder(starting),
		Players:           []string{r.names[r.order[0]], r.names[r.order[1]]},
		HandID:            fmt.Sprintf("%s-%03d", r.table, e.HandNumber+1),
	}
	if !ts.IsZero() {
		h.Time = ts.Format("15:04:05")
		h.TimeZone = "UTC"
		h.Day, h.Month, h.Year = ts.Day(), int(ts.Month()), ts.Year()
	}

	hole := r.engine.State().Hole
	for _, seat := range r.order {
		h.Actions = append(h.Actions, fmt.Sprintf("d dh %s %s", r.label(seat), packed(hole[seat])))
	}
	r.cur = h
}

// packed renders cards without separators, e.g. "AsKd".
func packed(cs []cards.Card) string {
	return strings.Join(cards.Strings(cs), "")
}
