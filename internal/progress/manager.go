package progress

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-ladder/internal/cpu"
	"github.com/lox/holdem-ladder/internal/ladder"
)

var (
	// ErrLocked is returned for an opponent above the unlocked tier.
	ErrLocked = errors.New("opponent is locked")
	// ErrInsufficientTokens is returned when the entry fee cannot be paid.
	ErrInsufficientTokens = errors.New("insufficient tokens")
	// ErrUnknownOpponent is returned for an id that is not on the roster.
	ErrUnknownOpponent = errors.New("unknown opponent")
)

// WinReport describes what a recorded win paid out and unlocked.
type WinReport struct {
	Opponent string
	Streak   int
	Reward   int
	// Unlocked is the newly unlocked opponent, empty when nothing unlocked.
	Unlocked string
}

// Manager books match results against a career record. It is safe for
// concurrent use.
type Manager struct {
	mu     sync.Mutex
	state  State
	store  Store
	logger *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStore sets where Save writes to.
func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

// NewManager wraps an existing record.
func NewManager(state State, opts ...Option) (*Manager, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{state: state.Clone(), logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Load reads the record from store. A missing or corrupted record is
// replaced by DefaultState(seed); other store failures are returned.
func Load(ctx context.Context, store Store, seed int64, opts ...Option) (*Manager, error) {
	opts = append([]Option{WithStore(store)}, opts...)
	m, err := NewManager(DefaultState(seed), opts...)
	if err != nil {
		return nil, err
	}

	st, err := store.Load(ctx)
	if err == nil {
		err = st.Validate()
	}
	switch {
	case err == nil:
		m.state = st.Clone()
		m.logger.Debug("progress loaded", "opponent", st.CurrentOpponent, "tokens", st.Tokens)
	case errors.Is(err, ErrNotFound):
		m.logger.Info("no saved progress, starting a new career", "seed", seed)
	case errors.Is(err, ErrCorrupt):
		m.logger.Warn("saved progress is corrupted, starting a new career", "error", err)
	default:
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return m, nil
}

// Save writes the record to the configured store.
func (m *Manager) Save(ctx context.Context) error {
	if m.store == nil {
		return errors.New("progress manager has no store")
	}
	m.mu.Lock()
	st := m.state.Clone()
	m.mu.Unlock()
	if err := m.store.Save(ctx, st); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// State returns a copy of the record.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Reset replaces the record with a fresh career.
func (m *Manager) Reset(seed int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = DefaultState(seed)
	m.logger.Info("progress reset", "seed", seed)
}

// Opponent returns the active opponent.
func (m *Manager) Opponent() cpu.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, _ := cpu.Lookup(m.state.CurrentOpponent)
	return p
}

// Unlocked reports whether an opponent may be played.
func (m *Manager) Unlocked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.unlocked(id)
	return err == nil
}

// SetOpponent selects the active opponent.
func (m *Manager) SetOpponent(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.unlocked(id)
	if err != nil {
		return err
	}
	m.state.CurrentOpponent = p.ID
	return nil
}

// MatchSeed is the seed for the next match: the career seed offset by the
// number of matches already played, so each match is distinct and every one
// can be replayed.
func (m *Manager) MatchSeed() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Seed + int64(m.state.Stats.MatchesPlayed)
}

// Enter pays the entry fee for a match against id and makes it the active
// opponent. It returns the fee paid.
func (m *Manager) Enter(id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.unlocked(id)
	if err != nil {
		return 0, err
	}
	fee := EntryCost(p.Tier)
	if m.state.Tokens < fee {
		return 0, fmt.Errorf("%w: %s costs %d, balance %d", ErrInsufficientTokens, p.Name, fee, m.state.Tokens)
	}
	m.state.Tokens -= fee
	m.state.Stats.TotalTokensLost += fee
	m.state.CurrentOpponent = p.ID
	m.logger.Info("entered match", "opponent", p.Name, "fee", fee, "tokens", m.state.Tokens)
	return fee, nil
}

// RecordWin books a match win against id.
func (m *Manager) RecordWin(id string) (WinReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := cpu.Lookup(id)
	if !ok {
		return WinReport{}, fmt.Errorf("%w: %q", ErrUnknownOpponent, id)
	}
	st := &m.state
	st.Wins[p.ID]++
	streak := st.Wins[p.ID]
	reward := BaseReward(p.Tier) + StreakBonus(streak)

	st.Tokens += reward
	st.Stats.TotalTokensWon += reward
	st.Stats.LongestStreak = max(st.Stats.LongestStreak, streak)
	st.Stats.MatchesPlayed++

	report := WinReport{Opponent: p.ID, Streak: streak, Reward: reward}
	if streak >= UnlockWins {
		st.Stats.HighestTierBeaten = max(st.Stats.HighestTierBeaten, p.Tier)
		if next, ok := cpu.ForTier(p.Tier + 1); ok && next.Tier > st.UnlockedTiers {
			st.UnlockedTiers = next.Tier
			st.CurrentOpponent = next.ID
			report.Unlocked = next.ID
			m.logger.Info("tier unlocked", "beaten", p.Name, "next", next.Name, "tier", next.Tier)
		}
	}
	m.logger.Info("match won", "opponent", p.Name, "streak", streak, "reward", reward, "tokens", st.Tokens)
	return report, nil
}

// RecordLoss books a match loss against id, resetting its streak to zero.
func (m *Manager) RecordLoss(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := cpu.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOpponent, id)
	}
	m.state.Wins[p.ID] = 0
	m.state.Stats.MatchesPlayed++
	m.logger.Info("match lost", "opponent", p.Name)
	return nil
}

// RecordDeadlock books a match that ended undecided at the final level.
// The streak is left alone and nothing is paid.
func (m *Manager) RecordDeadlock(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := cpu.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOpponent, id)
	}
	m.state.Stats.MatchesPlayed++
	m.state.Stats.Deadlocks++
	m.logger.Info("match deadlocked", "opponent", p.Name)
	return nil
}

// Record books a finished match result.
func (m *Manager) Record(res ladder.Result) (WinReport, error) {
	switch {
	case res.Deadlock:
		return WinReport{}, m.RecordDeadlock(res.Opponent)
	case res.PlayerWon():
		return m.RecordWin(res.Opponent)
	default:
		return WinReport{}, m.RecordLoss(res.Opponent)
	}
}

// LeaderboardEntry is one line of the leaderboard.
type LeaderboardEntry struct {
	Name      string
	TokensWon int
	WinStreak int
	Tier      int
	IsPlayer  bool
}

// Leaderboard ranks the roster's career numbers alongside the player's,
// most tokens won first. The player only appears once they have won tokens.
func (m *Manager) Leaderboard() []LeaderboardEntry {
	m.mu.Lock()
	st := m.state.Stats
	m.mu.Unlock()

	entries := make([]LeaderboardEntry, 0, len(cpu.Profiles)+1)
	for _, p := range cpu.Profiles {
		entries = append(entries, LeaderboardEntry{
			Name:      p.Name,
			TokensWon: p.Career.TokensWon,
			WinStreak: p.Career.StreakRecord,
			Tier:      p.Tier,
		})
	}
	if st.TotalTokensWon > 0 {
		entries = append(entries, LeaderboardEntry{
			Name:      "Player",
			TokensWon: st.TotalTokensWon,
			WinStreak: st.LongestStreak,
			Tier:      st.HighestTierBeaten,
			IsPlayer:  true,
		})
	}
	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		if c := cmp.Compare(b.TokensWon, a.TokensWon); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}

func (m *Manager) unlocked(id string) (cpu.Profile, error) {
	p, ok := cpu.Lookup(id)
	if !ok {
		return cpu.Profile{}, fmt.Errorf("%w: %q", ErrUnknownOpponent, id)
	}
	if p.Tier > m.state.UnlockedTiers {
		return cpu.Profile{}, fmt.Errorf("%w: %s needs tier %d, %d unlocked", ErrLocked, p.Name, p.Tier, m.state.UnlockedTiers)
	}
	return p, nil
}
