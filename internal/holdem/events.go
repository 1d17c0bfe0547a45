package holdem

import (
	"slices"
	"time"

	"github.com/lox/holdem-ladder/internal/cards"
)

// EventType represents a table event type
type EventType string

const (
	EventTypeHandStart   EventType = "hand_start"
	EventTypeAction      EventType = "action"
	EventTypeStreetDealt EventType = "street_dealt"
	EventTypeHandEnd     EventType = "hand_end"
)

func (et EventType) String() string {
	return string(et)
}

// Event is anything the engine publishes to its subscribers.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published once blinds are posted.
type HandStartEvent struct {
	HandNumber int
	Button     Seat
	SmallBlind int
	BigBlind   int
	// Stacks are behind the blinds; Posted is what each seat put in.
	Stacks    [2]int
	Posted    [2]int
	Pot       int
	timestamp time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// ActionEvent is published after every accepted action. Amount is the chips
// the seat added to the pot with it.
type ActionEvent struct {
	HandNumber int
	Seat       Seat
	Action     Action
	Amount     int
	// To is the seat's street total after the action.
	To        int
	Phase     Phase
	PotAfter  int
	timestamp time.Time
}

func (e ActionEvent) EventType() EventType { return EventTypeAction }
func (e ActionEvent) Timestamp() time.Time { return e.timestamp }

// StreetDealtEvent is published when community cards are dealt.
type StreetDealtEvent struct {
	HandNumber int
	Phase      Phase
	Board      []cards.Card
	// RunOut is set when no further betting is possible.
	RunOut    bool
	timestamp time.Time
}

func (e StreetDealtEvent) EventType() EventType { return EventTypeStreetDealt }
func (e StreetDealtEvent) Timestamp() time.Time { return e.timestamp }

// HandEndEvent is published when the pot has been awarded.
type HandEndEvent struct {
	HandNumber int
	Winner     Outcome
	Pot        int
	Payouts    [2]int
	// Stacks are after the payout.
	Stacks   [2]int
	Phase    Phase
	Showdown bool
	Board    []cards.Card
	// Hole is only populated for showdowns.
	Hole         [2][]cards.Card
	Descriptions [2]string
	timestamp    time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

type subscription struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for every event the engine publishes and returns a
// function that removes it. Subscribers run synchronously on the caller's
// goroutine, in registration order.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, subscription{id: id, fn: fn})
	return func() {
		e.subs = slices.DeleteFunc(e.subs, func(s subscription) bool { return s.id == id })
	}
}

func (e *Engine) publish(ev Event) {
	for _, s := range slices.Clone(e.subs) {
		s.fn(ev)
	}
}
