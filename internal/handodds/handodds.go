// Package handodds maps canonical two-card starting hands to the design
// win-probability and payout multiplier used for previews and CPU play.
package handodds

import (
	"math"

	"github.com/lox/holdem-ladder/internal/cards"
)

// Odds is one row of the starting-hand table.
type Odds struct {
	WinProbability float64 // 0..1 against a random hand
	Multiplier     float64 // payout multiplier for a winning preview bet
}

const (
	// DefaultWinProbability is used for hands missing from the table.
	DefaultWinProbability = 0.5
	// DefaultMultiplier is used for hands missing from the table.
	DefaultMultiplier = 1.0
)

// Notation returns the canonical shorthand for a starting hand: the higher
// rank first, pairs bare ("QQ"), others suffixed "s" or "o" ("AKs", "T9o").
// The result does not depend on argument order.
func Notation(a, b cards.Card) string {
	if b.Rank > a.Rank {
		a, b = b, a
	}
	ranks := a.Rank.String() + b.Rank.String()
	switch {
	case a.Rank == b.Rank:
		return ranks
	case a.Suit == b.Suit:
		return ranks + "s"
	default:
		return ranks + "o"
	}
}

// NotationOf is Notation for a hole-card slice. It returns "" unless the
// slice holds exactly two cards.
func NotationOf(hole []cards.Card) string {
	if len(hole) != 2 {
		return ""
	}
	return Notation(hole[0], hole[1])
}

// Lookup returns the table row for notation.
func Lookup(notation string) (Odds, bool) {
	o, ok := table[notation]
	return o, ok
}

// WinProbability returns the table probability or DefaultWinProbability.
func WinProbability(notation string) float64 {
	if o, ok := table[notation]; ok {
		return o.WinProbability
	}
	return DefaultWinProbability
}

// Multiplier returns the table multiplier or DefaultMultiplier.
func Multiplier(notation string) float64 {
	if o, ok := table[notation]; ok {
		return o.Multiplier
	}
	return DefaultMultiplier
}

// Strength returns the hole cards' win probability on a 0-100 scale.
func Strength(hole []cards.Card) int {
	if len(hole) != 2 {
		return 0
	}
	return int(math.Round(WinProbability(NotationOf(hole)) * 100))
}

// Len reports how many starting hands the table prices.
func Len() int {
	return len(table)
}

var table = map[string]Odds{
	"AA": {0.85, 1.176},
	"KK": {0.82, 1.219},
	"QQ": {0.80, 1.25},
	"JJ": {0.77, 1.299},
	"TT": {0.75, 1.333},
	"99": {0.72, 1.389},
	"88": {0.69, 1.449},
	"77": {0.66, 1.515},
	"66": {0.63, 1.587},
	"55": {0.60, 1.667},
	"44": {0.57, 1.754},
	"33": {0.55, 1.818},
	"22": {0.53, 1.887},
	"AKs": {0.67, 1.493},
	"AQs": {0.65, 1.538},
	"AJs": {0.64, 1.563},
	"ATs": {0.62, 1.613},
	"KQs": {0.60, 1.667},
	"KJs": {0.58, 1.724},
	"QJs": {0.57, 1.754},
	"JTs": {0.54, 1.852},
	"T9s": {0.53, 1.887},
	"98s": {0.52, 1.923},
	"87s": {0.51, 1.961},
	"76s": {0.50, 2.0},
	"AKo": {0.65, 1.538},
	"AQo": {0.63, 1.587},
	"AJo": {0.61, 1.639},
	"ATo": {0.59, 1.695},
	"KQo": {0.57, 1.754},
	"KJo": {0.55, 1.818},
	"QJo": {0.54, 1.852},
	"JTo": {0.50, 2.0},
	"T9o": {0.48, 2.083},
	"98o": {0.47, 2.128},
	"87o": {0.46, 2.174},
	"76o": {0.45, 2.222},
	"A9s": {0.60, 1.667},
	"A8s": {0.59, 1.695},
	"A7s": {0.58, 1.724},
	"A6s": {0.57, 1.754},
	"A5s": {0.57, 1.754},
	"A4s": {0.56, 1.786},
	"A3s": {0.56, 1.786},
	"A2s": {0.55, 1.818},
	"A9o": {0.57, 1.754},
	"A8o": {0.56, 1.786},
	"A7o": {0.55, 1.818},
	"A6o": {0.54, 1.852},
	"A5o": {0.54, 1.852},
	"A4o": {0.53, 1.887},
	"A3o": {0.53, 1.887},
	"A2o": {0.52, 1.923},
	"KTs": {0.56, 1.786},
	"K9s": {0.54, 1.852},
	"K8s": {0.52, 1.923},
	"K7s": {0.51, 1.961},
	"K6s": {0.50, 2.0},
	"K5s": {0.49, 2.041},
	"K4s": {0.48, 2.083},
	"K3s": {0.48, 2.083},
	"K2s": {0.47, 2.128},
	"KTo": {0.53, 1.887},
	"K9o": {0.51, 1.961},
	"K8o": {0.49, 2.041},
	"K7o": {0.48, 2.083},
	"K6o": {0.47, 2.128},
	"K5o": {0.46, 2.174},
	"K4o": {0.45, 2.222},
	"K3o": {0.45, 2.222},
	"K2o": {0.44, 2.273},
	"QTs": {0.55, 1.818},
	"Q9s": {0.53, 1.887},
	"Q8s": {0.51, 1.961},
	"Q7s": {0.49, 2.041},
	"Q6s": {0.48, 2.083},
	"Q5s": {0.47, 2.128},
	"Q4s": {0.46, 2.174},
	"Q3s": {0.46, 2.174},
	"Q2s": {0.45, 2.222},
	"QTo": {0.52, 1.923},
	"Q9o": {0.50, 2.0},
	"Q8o": {0.48, 2.083},
	"Q7o": {0.46, 2.174},
	"Q6o": {0.45, 2.222},
	"Q5o": {0.44, 2.273},
	"Q4o": {0.43, 2.326},
	"Q3o": {0.43, 2.326},
	"Q2o": {0.42, 2.381},
	"J9s": {0.52, 1.923},
	"J8s": {0.50, 2.0},
	"J7s": {0.48, 2.083},
	"J6s": {0.47, 2.128},
	"J5s": {0.46, 2.174},
	"J4s": {0.45, 2.222},
	"J3s": {0.44, 2.273},
	"J2s": {0.44, 2.273},
	"J9o": {0.49, 2.041},
	"J8o": {0.47, 2.128},
	"J7o": {0.45, 2.222},
	"J6o": {0.44, 2.273},
	"J5o": {0.43, 2.326},
	"J4o": {0.42, 2.381},
	"J3o": {0.42, 2.381},
	"J2o": {0.41, 2.439},
	"T8s": {0.49, 2.041},
	"T7s": {0.47, 2.128},
	"T6s": {0.46, 2.174},
	"T5s": {0.45, 2.222},
	"T4s": {0.44, 2.273},
	"T3s": {0.43, 2.326},
	"T2s": {0.42, 2.381},
	"T8o": {0.46, 2.174},
	"T7o": {0.44, 2.273},
	"T6o": {0.43, 2.326},
	"T5o": {0.42, 2.381},
	"T4o": {0.41, 2.439},
	"T3o": {0.40, 2.5},
	"T2o": {0.39, 2.564},
	"97s": {0.48, 2.083},
	"96s": {0.46, 2.174},
	"95s": {0.45, 2.222},
	"94s": {0.44, 2.273},
	"93s": {0.43, 2.326},
	"92s": {0.42, 2.381},
	"97o": {0.45, 2.222},
	"96o": {0.43, 2.326},
	"95o": {0.42, 2.381},
	"94o": {0.41, 2.439},
	"93o": {0.40, 2.5},
	"92o": {0.39, 2.564},
	"86s": {0.47, 2.128},
	"85s": {0.45, 2.222},
	"84s": {0.44, 2.273},
	"83s": {0.43, 2.326},
	"82s": {0.42, 2.381},
	"86o": {0.44, 2.273},
	"85o": {0.42, 2.381},
	"84o": {0.41, 2.439},
	"83o": {0.40, 2.5},
	"82o": {0.39, 2.564},
	"75s": {0.46, 2.174},
	"74s": {0.44, 2.273},
	"73s": {0.43, 2.326},
	"72s": {0.39, 2.564},
	"75o": {0.43, 2.326},
	"74o": {0.41, 2.439},
	"73o": {0.40, 2.5},
	"72o": {0.39, 2.564},
	"64s": {0.45, 2.222},
	"63s": {0.43, 2.326},
	"62s": {0.38, 2.632},
	"64o": {0.42, 2.381},
	"63o": {0.40, 2.5},
	"62o": {0.38, 2.632},
	"53s": {0.44, 2.273},
	"52s": {0.37, 2.703},
	"53o": {0.41, 2.439},
	"52o": {0.37, 2.703},
	"43s": {0.43, 2.326},
	"42s": {0.36, 2.778},
	"43o": {0.40, 2.5},
	"42o": {0.36, 2.778},
	"32s": {0.40, 2.5},
	"32o": {0.35, 2.857},
}
