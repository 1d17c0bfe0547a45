// Package evaluator adapts third-party seven-card hand rankers to the
// engine. The engine only relies on a total order with tie detection, so
// the backing library can be swapped from configuration.
package evaluator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lox/holdem-ladder/internal/cards"
)

var (
	// ErrInvalidHand is returned for inputs that are not seven distinct cards.
	ErrInvalidHand = errors.New("evaluator: need seven distinct valid cards")
	// ErrUnknownBackend is returned by New for an unregistered backend name.
	ErrUnknownBackend = errors.New("evaluator: unknown backend")
)

// HandRank is a comparable hand strength. Higher Score is stronger; equal
// Scores are a tie regardless of Description.
type HandRank struct {
	Score       int
	Description string
}

// Compare returns 1 if h beats other, -1 if it loses, 0 on a tie.
func (h HandRank) Compare(other HandRank) int {
	switch {
	case h.Score > other.Score:
		return 1
	case h.Score < other.Score:
		return -1
	default:
		return 0
	}
}

func (h HandRank) String() string {
	return h.Description
}

// Evaluator ranks seven-card sets.
type Evaluator interface {
	Name() string
	Rank(seven []cards.Card) (HandRank, error)
}

// Backend names accepted by New.
const (
	Chehsunliu = "chehsunliu"
	Paulhankin = "paulhankin"
	Default    = Chehsunliu
)

// New returns the evaluator registered under name ("" selects Default).
func New(name string) (Evaluator, error) {
	switch name {
	case "", Chehsunliu:
		return NewChehsunliu(), nil
	case Paulhankin:
		return NewPaulhankin(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Backends lists the registered backend names.
func Backends() []string {
	return []string{Chehsunliu, Paulhankin}
}

// Winners ranks every hand and returns the indexes of the strongest ones in
// ascending order. More than one index means a tie.
func Winners(ev Evaluator, hands ...[]cards.Card) ([]int, []HandRank, error) {
	ranks := make([]HandRank, len(hands))
	for i, h := range hands {
		r, err := ev.Rank(h)
		if err != nil {
			return nil, nil, fmt.Errorf("hand %d: %w", i, err)
		}
		ranks[i] = r
	}

	var best []int
	for i, r := range ranks {
		if len(best) == 0 {
			best = []int{i}
			continue
		}
		switch r.Compare(ranks[best[0]]) {
		case 1:
			best = []int{i}
		case 0:
			best = append(best, i)
		}
	}
	sort.Ints(best)
	return best, ranks, nil
}

func validate(seven []cards.Card) error {
	if len(seven) != 7 {
		return fmt.Errorf("%w: got %d cards", ErrInvalidHand, len(seven))
	}
	var seen [52]bool
	for _, c := range seven {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card %v", ErrInvalidHand, c)
		}
		if seen[c.Index()] {
			return fmt.Errorf("%w: duplicate %s", ErrInvalidHand, c)
		}
		seen[c.Index()] = true
	}
	return nil
}
