package cards

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-ladder/internal/randutil"
)

// Deck represents a deck of playing cards
type Deck struct {
	cards  []Card
	next   int
	dealt  [52]bool
	rng    randutil.Source
	logger *log.Logger
}

// NewDeck creates a standard 52-card deck and shuffles it from rng.
func NewDeck(rng randutil.Source, logger *log.Logger) *Deck {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	d := &Deck{
		cards:  Standard(),
		rng:    rng,
		logger: logger,
	}
	d.Shuffle()
	return d
}

// NewStackedDeck returns an unshuffled deck that deals top first, in order,
// then the rest of the standard deck in creation order. rng is only drawn
// from if the deck has to reshuffle.
func NewStackedDeck(top []Card, rng randutil.Source, logger *log.Logger) *Deck {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var listed [52]bool
	order := make([]Card, 0, 52)
	for _, c := range top {
		if c.Valid() && !listed[c.Index()] {
			listed[c.Index()] = true
			order = append(order, c)
		}
	}
	for _, c := range Standard() {
		if !listed[c.Index()] {
			order = append(order, c)
		}
	}
	return &Deck{cards: order, rng: rng, logger: logger}
}

// Standard returns the 52 cards in creation order: suit by suit, deuce to ace.
func Standard() []Card {
	out := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			out = append(out, NewCard(suit, rank))
		}
	}
	return out
}

// Shuffle randomizes the undealt cards with Fisher-Yates, consuming one
// draw per swap.
func (d *Deck) Shuffle() {
	rest := d.cards[d.next:]
	for i := len(rest) - 1; i > 0; i-- {
		j := randutil.Intn(d.rng, i+1)
		rest[i], rest[j] = rest[j], rest[i]
	}
}

// Draw pops the top card. When the deck is exhausted it reshuffles every
// card not yet dealt from it and carries on; in a heads-up hand this cannot
// happen, so it is logged loudly.
func (d *Deck) Draw() Card {
	if d.next >= len(d.cards) {
		d.reshuffleUnseen()
	}
	c := d.cards[d.next]
	d.next++
	d.dealt[c.Index()] = true
	return c
}

// DrawN deals n cards from the deck
func (d *Deck) DrawN(n int) []Card {
	out := make([]Card, n)
	for i := range out {
		out[i] = d.Draw()
	}
	return out
}

// Remaining returns the number of cards left before a reshuffle.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

func (d *Deck) reshuffleUnseen() {
	unseen := make([]Card, 0, 52)
	for _, c := range Standard() {
		if !d.dealt[c.Index()] {
			unseen = append(unseen, c)
		}
	}
	if len(unseen) == 0 {
		// every card is out; start over from a full deck
		d.dealt = [52]bool{}
		unseen = Standard()
	}
	d.logger.Warn("deck exhausted, reshuffling unseen cards", "unseen", len(unseen))
	d.cards = unseen
	d.next = 0
	d.Shuffle()
}
