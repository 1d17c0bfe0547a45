package evaluator

import (
	"fmt"

	poker "github.com/paulhankin/poker"

	"github.com/lox/holdem-ladder/internal/cards"
)

type paulhankinEvaluator struct{}

// NewPaulhankin returns an evaluator backed by github.com/paulhankin/poker.
func NewPaulhankin() Evaluator {
	return paulhankinEvaluator{}
}

func (paulhankinEvaluator) Name() string { return Paulhankin }

func (paulhankinEvaluator) Rank(seven []cards.Card) (HandRank, error) {
	if err := validate(seven); err != nil {
		return HandRank{}, err
	}
	var hand [7]poker.Card
	for i, c := range seven {
		pc, err := toPaulhankin(c)
		if err != nil {
			return HandRank{}, err
		}
		hand[i] = pc
	}
	desc, err := poker.Describe(hand[:])
	if err != nil {
		desc = ""
	}
	return HandRank{Score: int(poker.Eval7(&hand)), Description: desc}, nil
}

// toPaulhankin converts a card; the library numbers ranks 1 (ace) to 13 (king).
func toPaulhankin(c cards.Card) (poker.Card, error) {
	var (
		s    poker.Suit
		zero poker.Card
	)
	switch c.Suit {
	case cards.Clubs:
		s = poker.Club
	case cards.Diamonds:
		s = poker.Diamond
	case cards.Hearts:
		s = poker.Heart
	case cards.Spades:
		s = poker.Spade
	default:
		return zero, fmt.Errorf("%w: suit %d", ErrInvalidHand, c.Suit)
	}
	r := poker.Rank(c.Rank)
	if c.Rank == cards.Ace {
		r = poker.Rank(1)
	}
	pc, err := poker.MakeCard(s, r)
	if err != nil {
		return zero, fmt.Errorf("convert %s: %w", c, err)
	}
	return pc, nil
}
