// Package progress keeps the ladder career: per-opponent win streaks, tier
// unlocks, the token economy and the leaderboard, plus the stores that
// persist it between sessions.
package progress

import (
	"errors"
	"fmt"
	"maps"

	"github.com/lox/holdem-ladder/internal/cpu"
)

const (
	// StateVersion is the current layout of the persisted record.
	StateVersion = 1
	// UnlockWins is the number of consecutive wins that unlocks the next tier.
	UnlockWins = 5
	// StartingTokens is the balance of a fresh career.
	StartingTokens = 10
)

var (
	// ErrNotFound is returned by a Store that holds no record yet.
	ErrNotFound = errors.New("no saved progress")
	// ErrCorrupt is returned for a record that cannot be decoded or fails
	// validation.
	ErrCorrupt = errors.New("corrupted progress")
)

// Stats are the player's cumulative numbers.
type Stats struct {
	TotalTokensWon    int `json:"total_tokens_won"`
	TotalTokensLost   int `json:"total_tokens_lost"`
	HighestTierBeaten int `json:"highest_tier_beaten"`
	LongestStreak     int `json:"longest_streak"`
	MatchesPlayed     int `json:"matches_played"`
	Deadlocks         int `json:"deadlocks"`
}

// State is the persisted career record.
type State struct {
	Version       int `json:"version"`
	UnlockedTiers int `json:"unlocked_tiers"`
	// Wins maps opponent id to consecutive wins against it.
	Wins            map[string]int `json:"wins"`
	CurrentOpponent string         `json:"current_opponent"`
	Seed            int64          `json:"seed"`
	Tokens          int            `json:"tokens"`
	Stats           Stats          `json:"stats"`
}

// DefaultState is a fresh career with the first tier unlocked.
func DefaultState(seed int64) State {
	first, _ := cpu.ForTier(1)
	return State{
		Version:         StateVersion,
		UnlockedTiers:   1,
		Wins:            map[string]int{},
		CurrentOpponent: first.ID,
		Seed:            seed,
		Tokens:          StartingTokens,
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	s.Wins = maps.Clone(s.Wins)
	if s.Wins == nil {
		s.Wins = map[string]int{}
	}
	return s
}

// Validate checks the record is internally consistent.
func (s State) Validate() error {
	if s.Version != StateVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrCorrupt, s.Version, StateVersion)
	}
	if s.UnlockedTiers < 1 || s.UnlockedTiers > cpu.MaxTier() {
		return fmt.Errorf("%w: unlocked tiers %d", ErrCorrupt, s.UnlockedTiers)
	}
	for id, wins := range s.Wins {
		if _, ok := cpu.Lookup(id); !ok {
			return fmt.Errorf("%w: wins recorded against unknown opponent %q", ErrCorrupt, id)
		}
		if wins < 0 {
			return fmt.Errorf("%w: negative wins against %s", ErrCorrupt, id)
		}
	}
	opp, ok := cpu.Lookup(s.CurrentOpponent)
	if !ok {
		return fmt.Errorf("%w: unknown opponent %q", ErrCorrupt, s.CurrentOpponent)
	}
	if opp.Tier > s.UnlockedTiers {
		return fmt.Errorf("%w: opponent %s is locked", ErrCorrupt, opp.ID)
	}
	if s.Tokens < 0 {
		return fmt.Errorf("%w: negative token balance", ErrCorrupt)
	}
	st := s.Stats
	if st.TotalTokensWon < 0 || st.TotalTokensLost < 0 || st.LongestStreak < 0 || st.MatchesPlayed < 0 || st.Deadlocks < 0 {
		return fmt.Errorf("%w: negative stats", ErrCorrupt)
	}
	if st.HighestTierBeaten < 0 || st.HighestTierBeaten > cpu.MaxTier() {
		return fmt.Errorf("%w: highest tier beaten %d", ErrCorrupt, st.HighestTierBeaten)
	}
	return nil
}

// EntryCost is the fee to enter a match against a tier.
func EntryCost(tier int) int {
	costs := []int{1, 2, 3, 5, 8}
	if tier < 1 || tier > len(costs) {
		return costs[0]
	}
	return costs[tier-1]
}

// BaseReward is the payout for beating a tier, before any streak bonus.
func BaseReward(tier int) int {
	rewards := []int{3, 5, 8, 12, 20}
	if tier < 1 || tier > len(rewards) {
		return rewards[0]
	}
	return rewards[tier-1]
}

// StreakBonus is added to the reward for the given consecutive win count.
func StreakBonus(wins int) int {
	switch {
	case wins >= 5:
		return 5
	case wins >= 3:
		return 2
	default:
		return 0
	}
}
