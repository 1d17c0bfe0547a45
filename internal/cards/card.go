// Package cards provides playing cards, their text tokens, and a deck
// shuffled from a deterministic random stream.
package cards

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Letter returns the single-letter token used in card notation ("s", "h", ...).
func (s Suit) Letter() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Symbol returns the unicode suit glyph for display.
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

// String returns the single-character rank token.
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return rankChars[r-Two : r-Two+1]
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the card token, e.g. "As" or "7h".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.Letter()
}

// Pretty returns the card with a unicode suit, e.g. "A♠".
func (c Card) Pretty() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Valid reports whether the card is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit >= Spades && c.Suit <= Clubs
}

// Index returns a dense 0..51 index (suit-major), used for set membership.
func (c Card) Index() int {
	return int(c.Suit)*13 + int(c.Rank-Two)
}

// ParseCard parses a single card token. Ranks are 2-9, T/10, J, Q, K, A;
// suits are s/h/d/c or the unicode glyphs ♠♥♦♣.
func ParseCard(s string) (Card, error) {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rankPart := string(runes[:len(runes)-1])
	rank, err := parseRank(rankPart)
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	suit, err := parseSuit(runes[len(runes)-1])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards parses a run of card tokens. Tokens may be separated by spaces
// or commas, or packed together ("AsKsQs").
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	runes := []rune(s)
	out := []Card{}
	for i := 0; i < len(runes); {
		// "10" is the only two-rune rank
		width := 2
		if runes[i] == '1' && i+1 < len(runes) && runes[i+1] == '0' {
			width = 3
		}
		if i+width > len(runes) {
			return nil, fmt.Errorf("incomplete card at position %d", i)
		}
		card, err := ParseCard(string(runes[i : i+width]))
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		out = append(out, card)
		i += width
	}
	return out, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

// Strings returns the tokens of cs.
func Strings(cs []Card) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}

// Join renders cs as space-separated tokens.
func Join(cs []Card) string {
	return strings.Join(Strings(cs), " ")
}

func parseRank(s string) (Rank, error) {
	if s == "10" {
		return Ten, nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("unknown rank %q", s)
	}
	i := strings.IndexByte(rankChars, strings.ToUpper(s)[0])
	if i < 0 {
		return 0, fmt.Errorf("unknown rank %q", s)
	}
	return Two + Rank(i), nil
}

func parseSuit(r rune) (Suit, error) {
	switch r {
	case 's', 'S', '♠':
		return Spades, nil
	case 'h', 'H', '♥':
		return Hearts, nil
	case 'd', 'D', '♦':
		return Diamonds, nil
	case 'c', 'C', '♣':
		return Clubs, nil
	default:
		return 0, fmt.Errorf("unknown suit %q", r)
	}
}
