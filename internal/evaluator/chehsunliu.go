package evaluator

import (
	"github.com/chehsunliu/poker"

	"github.com/lox/holdem-ladder/internal/cards"
)

// worstChehsunliuRank is one past the weakest distinct five-card rank;
// the library ranks 1 (royal flush) to 7462 (seven-high).
const worstChehsunliuRank = 7463

type chehsunliuEvaluator struct{}

// NewChehsunliu returns an evaluator backed by github.com/chehsunliu/poker.
func NewChehsunliu() Evaluator {
	return chehsunliuEvaluator{}
}

func (chehsunliuEvaluator) Name() string { return Chehsunliu }

func (chehsunliuEvaluator) Rank(seven []cards.Card) (HandRank, error) {
	if err := validate(seven); err != nil {
		return HandRank{}, err
	}
	converted := make([]poker.Card, len(seven))
	for i, c := range seven {
		converted[i] = poker.NewCard(c.String())
	}
	// lower is stronger in the library; flip it so higher wins here
	rank := poker.Evaluate(converted)
	return HandRank{
		Score:       worstChehsunliuRank - int(rank),
		Description: poker.RankString(rank),
	}, nil
}
