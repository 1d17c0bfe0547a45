package cpu

import (
	"fmt"
	"strings"
)

// Profile is an immutable CPU personality. The five tendencies are on a
// 0-100 scale.
type Profile struct {
	ID    string
	Name  string
	Tier  int
	Bio   string
	Stars int

	Aggression            int
	BluffFrequency        int
	CallFrequency         int
	RaiseFrequency        int
	HandStrengthThreshold int

	Career Career
}

// Career is flavour shown on the leaderboard.
type Career struct {
	TokensWon    int
	WinRate      float64
	BiggestPot   int
	StreakRecord int
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (tier %d)", p.Name, p.Tier)
}

// Validate checks every tendency is within 0-100.
func (p Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile %q has no id", p.Name)
	}
	for name, v := range map[string]int{
		"aggression":              p.Aggression,
		"bluff_frequency":         p.BluffFrequency,
		"call_frequency":          p.CallFrequency,
		"raise_frequency":         p.RaiseFrequency,
		"hand_strength_threshold": p.HandStrengthThreshold,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("profile %s: %s %d outside 0-100", p.ID, name, v)
		}
	}
	return nil
}

// Profiles is the ladder roster, weakest first.
var Profiles = []Profile{
	{
		ID:                    "theNorm",
		Name:                  "TheNorm",
		Tier:                  1,
		Bio:                   "The friendly neighborhood player. Plays any two cards, calls too much, rarely raises.",
		Stars:                 1,
		Aggression:            10,
		BluffFrequency:        5,
		CallFrequency:         90,
		RaiseFrequency:        5,
		HandStrengthThreshold: 15,
		Career:                Career{TokensWon: 500, WinRate: 0.25, BiggestPot: 150, StreakRecord: 3},
	},
	{
		ID:                    "anyAceNick",
		Name:                  "AnyAceNick",
		Tier:                  2,
		Bio:                   "Aggressive with any ace. Overvalues Ax hands, calls too light.",
		Stars:                 2,
		Aggression:            25,
		BluffFrequency:        10,
		CallFrequency:         75,
		RaiseFrequency:        20,
		HandStrengthThreshold: 30,
		Career:                Career{TokensWon: 1200, WinRate: 0.35, BiggestPot: 280, StreakRecord: 5},
	},
	{
		ID:                    "redTheRiot",
		Name:                  "RedTheRiot",
		Tier:                  3,
		Bio:                   "Tight-aggressive. Folds weak hands, bets strong ones, punishes loose play.",
		Stars:                 3,
		Aggression:            50,
		BluffFrequency:        15,
		CallFrequency:         40,
		RaiseFrequency:        45,
		HandStrengthThreshold: 50,
		Career:                Career{TokensWon: 2800, WinRate: 0.48, BiggestPot: 520, StreakRecord: 8},
	},
	{
		ID:                    "crazyHorse",
		Name:                  "CrazyHorse",
		Tier:                  4,
		Bio:                   "Hyper-aggressive. Shoves light, bluffs often, forces tough decisions.",
		Stars:                 4,
		Aggression:            85,
		BluffFrequency:        35,
		CallFrequency:         30,
		RaiseFrequency:        80,
		HandStrengthThreshold: 40,
		Career:                Career{TokensWon: 5500, WinRate: 0.52, BiggestPot: 890, StreakRecord: 6},
	},
	{
		ID:                    "mrMark",
		Name:                  "MrMark",
		Tier:                  5,
		Bio:                   "The master strategist. Balanced, mixes bluffs, adapts to patterns.",
		Stars:                 5,
		Aggression:            70,
		BluffFrequency:        25,
		CallFrequency:         45,
		RaiseFrequency:        65,
		HandStrengthThreshold: 60,
		Career:                Career{TokensWon: 12000, WinRate: 0.62, BiggestPot: 1500, StreakRecord: 12},
	},
}

// Lookup finds a roster profile by id or name, ignoring case.
func Lookup(idOrName string) (Profile, bool) {
	for _, p := range Profiles {
		if strings.EqualFold(p.ID, idOrName) || strings.EqualFold(p.Name, idOrName) {
			return p, true
		}
	}
	return Profile{}, false
}

// ForTier returns the roster profile at tier (1-based).
func ForTier(tier int) (Profile, bool) {
	for _, p := range Profiles {
		if p.Tier == tier {
			return p, true
		}
	}
	return Profile{}, false
}

// MaxTier is the highest tier on the roster.
func MaxTier() int {
	return Profiles[len(Profiles)-1].Tier
}
