package ladder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdem-ladder/internal/cpu"
	"github.com/lox/holdem-ladder/internal/evaluator"
	"github.com/lox/holdem-ladder/internal/holdem"
	"github.com/lox/holdem-ladder/internal/randutil"
)

var (
	// ErrMatchOver is returned when a finished match is asked to continue.
	ErrMatchOver = errors.New("match is over")
	// ErrHandInProgress is returned by NextHand and FinishHand when the
	// current hand has not been played out.
	ErrHandInProgress = errors.New("hand in progress")
	// ErrNoHand is returned for actions between hands.
	ErrNoHand = errors.New("no hand in progress")
	// ErrNotCPUTurn is returned by CPUTurn when the player is to act.
	ErrNotCPUTurn = errors.New("not the cpu's turn")
)

// Config sets up a match.
type Config struct {
	Seed     int64
	Opponent cpu.Profile
	// Ladder defaults to DefaultLadder.
	Ladder    Ladder
	Evaluator evaluator.Evaluator
	Logger    *log.Logger
	Clock     quartz.Clock
}

// Result is the outcome of a finished match.
type Result struct {
	MatchID  string
	Opponent string
	Seed     int64
	// Winner is Undecided for a deadlock.
	Winner      holdem.Outcome
	Deadlock    bool
	HandsPlayed int
	FinalLevel  int
	Stacks      [2]int
}

// PlayerWon reports whether the human seat won the match outright.
func (r Result) PlayerWon() bool {
	return r.Winner == holdem.PlayerWon
}

func (r Result) String() string {
	if r.Deadlock {
		return fmt.Sprintf("deadlock after %d hands (%d vs %d)", r.HandsPlayed, r.Stacks[holdem.Player], r.Stacks[holdem.CPU])
	}
	return fmt.Sprintf("%s wins after %d hands", r.Winner, r.HandsPlayed)
}

// LoggedAction is one accepted action, in the order it was applied.
type LoggedAction struct {
	Hand   int           `json:"hand"`
	Phase  holdem.Phase  `json:"phase"`
	Seat   holdem.Seat   `json:"seat"`
	Action holdem.Action `json:"action"`
	Amount int           `json:"amount"`
	To     int           `json:"to"`
}

// Match plays one opponent over the blind ladder. It owns the match RNG,
// the engine and the CPU model; the deal and every CPU draw come from the
// same stream in call order.
type Match struct {
	id       string
	seed     int64
	ladder   Ladder
	opponent cpu.Profile
	logger   *log.Logger

	rng    *randutil.LCG
	engine *holdem.Engine
	model  *cpu.Model

	level       int
	handsPlayed int
	stacks      [2]int
	inHand      bool
	over        bool
	result      Result
	actions     []LoggedAction
}

// NewMatch creates a match that has not dealt its first hand.
func NewMatch(cfg Config) (*Match, error) {
	lad := cfg.Ladder
	if len(lad) == 0 {
		lad = DefaultLadder
	}
	if err := lad.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Opponent.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	id := uuid.NewString()
	logger = logger.With("match", id[:8])
	rng := randutil.New(cfg.Seed)
	opts := []holdem.Option{holdem.WithLogger(logger.WithPrefix("engine"))}
	if cfg.Evaluator != nil {
		opts = append(opts, holdem.WithEvaluator(cfg.Evaluator))
	}
	if cfg.Clock != nil {
		opts = append(opts, holdem.WithClock(cfg.Clock))
	}

	m := &Match{
		id:       id,
		seed:     cfg.Seed,
		ladder:   slices.Clone(lad),
		opponent: cfg.Opponent,
		logger:   logger.WithPrefix("match"),
		rng:      rng,
		engine:   holdem.NewEngine(rng, opts...),
		model:    cpu.New(cfg.Opponent, rng, logger.WithPrefix("cpu")),
		level:    -1,
	}
	m.engine.Subscribe(m.onEvent)
	return m, nil
}

// ID returns the match identifier.
func (m *Match) ID() string { return m.id }

// Seed returns the seed the match stream started from.
func (m *Match) Seed() int64 { return m.seed }

// Opponent returns the CPU profile.
func (m *Match) Opponent() cpu.Profile { return m.opponent }

// Engine exposes the engine so hosts can subscribe to table events.
func (m *Match) Engine() *holdem.Engine { return m.engine }

// RNG returns the match stream, for a CPU model sitting in the player seat.
// A player agent that draws from it makes the match unreplayable from the
// action log alone.
func (m *Match) RNG() randutil.Source { return m.rng }

// Ladder returns the blind ladder in play.
func (m *Match) Ladder() Ladder { return slices.Clone(m.ladder) }

// Level returns the current level index and blinds. Before the first hand
// it reports the level the first hand will use.
func (m *Match) Level() (int, BlindLevel) {
	lvl := m.level
	if lvl < 0 {
		lvl = m.ladder.LevelFor(m.handsPlayed)
	}
	return lvl, m.ladder[lvl]
}

// HandsPlayed returns the number of completed hands.
func (m *Match) HandsPlayed() int { return m.handsPlayed }

// InHand reports whether a hand has been dealt and not yet finished.
func (m *Match) InHand() bool { return m.inHand }

// Over reports whether the match has ended.
func (m *Match) Over() bool { return m.over }

// Result returns the match result once it is over.
func (m *Match) Result() (Result, bool) {
	return m.result, m.over
}

// Snapshot returns the table from the player's seat.
func (m *Match) Snapshot() holdem.Snapshot {
	return m.engine.Snapshot(holdem.Player)
}

// Actions returns the action log so far.
func (m *Match) Actions() []LoggedAction {
	return slices.Clone(m.actions)
}

// NextHand deals the next hand at the level the hand count calls for.
// Stacks are reset to the level's starting chips whenever the level changes.
func (m *Match) NextHand() error {
	switch {
	case m.over:
		return ErrMatchOver
	case m.inHand:
		return ErrHandInProgress
	}

	level := m.ladder.LevelFor(m.handsPlayed)
	blinds := m.ladder[level]
	if level != m.level {
		m.stacks = [2]int{blinds.StackChips, blinds.StackChips}
		m.level = level
		m.logger.Info("blind level", "level", level, "blinds", blinds.String(), "stacks", blinds.StackChips)
	}

	// the CPU has the button on even hands
	button := holdem.CPU
	if m.handsPlayed%2 == 1 {
		button = holdem.Player
	}
	if err := m.engine.StartHand(holdem.HandConfig{
		HandNumber:  m.handsPlayed,
		BlindLevel:  level,
		Button:      button,
		SmallBlind:  blinds.SmallBlind,
		BigBlind:    blinds.BigBlind,
		PlayerStack: m.stacks[holdem.Player],
		CPUStack:    m.stacks[holdem.CPU],
	}); err != nil {
		return fmt.Errorf("start hand %d: %w", m.handsPlayed, err)
	}
	m.inHand = true
	return nil
}

// Act applies the player's action. amount is the raise-to total for Raise.
func (m *Match) Act(action holdem.Action, amount int) error {
	if !m.inHand {
		return ErrNoHand
	}
	return m.engine.Apply(holdem.Player, action, amount)
}

// CPUTurn computes the CPU's decision and applies it synchronously. Hosts
// that want a visible delay schedule the reveal separately.
func (m *Match) CPUTurn() (cpu.Decision, error) {
	if !m.inHand {
		return cpu.Decision{}, ErrNoHand
	}
	view := m.engine.Snapshot(holdem.CPU)
	if !view.CanAct() {
		return cpu.Decision{}, ErrNotCPUTurn
	}
	d := m.model.Decide(view)
	if err := m.engine.Apply(holdem.CPU, d.Action, d.Amount); err != nil {
		return d, fmt.Errorf("cpu %s: %w", d, err)
	}
	return d, nil
}

// FinishHand books a completed hand. It reports whether the match is now
// over, either by a bust or by deadlock at the final level.
func (m *Match) FinishHand() (Result, bool, error) {
	if !m.inHand {
		return m.result, m.over, ErrNoHand
	}
	s := m.engine.State()
	if !s.GameOver {
		return m.result, false, ErrHandInProgress
	}
	m.inHand = false
	m.stacks = s.Stacks
	m.handsPlayed++

	switch {
	case s.Stacks[holdem.Player] == 0:
		m.end(holdem.CPUWon, false)
	case s.Stacks[holdem.CPU] == 0:
		m.end(holdem.PlayerWon, false)
	case m.ladder.LevelFor(m.handsPlayed) >= m.ladder.Final():
		m.end(holdem.Undecided, true)
	default:
		m.logger.Debug("hand booked",
			"hands", m.handsPlayed,
			"player_stack", m.stacks[holdem.Player],
			"cpu_stack", m.stacks[holdem.CPU])
	}
	return m.result, m.over, nil
}

// Play drives the match to the end, asking player for the human seat.
func (m *Match) Play(ctx context.Context, player PlayerAgent) (Result, error) {
	for !m.over {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if !m.inHand {
			if err := m.NextHand(); err != nil {
				return Result{}, err
			}
		}
		if err := m.playHand(player); err != nil {
			return Result{}, err
		}
		if _, _, err := m.FinishHand(); err != nil {
			return Result{}, err
		}
	}
	return m.result, nil
}

func (m *Match) playHand(player PlayerAgent) error {
	for {
		s := m.engine.State()
		if s.GameOver {
			return nil
		}
		if s.ToAct == holdem.CPU {
			if _, err := m.CPUTurn(); err != nil {
				return err
			}
			continue
		}
		action, amount := player.Decide(m.Snapshot())
		if err := m.Act(action, amount); err != nil {
			return fmt.Errorf("player %s: %w", action, err)
		}
	}
}

func (m *Match) end(winner holdem.Outcome, deadlock bool) {
	m.over = true
	m.result = Result{
		MatchID:     m.id,
		Opponent:    m.opponent.ID,
		Seed:        m.seed,
		Winner:      winner,
		Deadlock:    deadlock,
		HandsPlayed: m.handsPlayed,
		FinalLevel:  m.level,
		Stacks:      m.stacks,
	}
	if deadlock {
		m.logger.Warn("deadlock at final blind level",
			"hands", m.handsPlayed,
			"player_stack", m.stacks[holdem.Player],
			"cpu_stack", m.stacks[holdem.CPU])
		return
	}
	m.logger.Info("match over", "winner", winner, "hands", m.handsPlayed)
}

func (m *Match) onEvent(ev holdem.Event) {
	if a, ok := ev.(holdem.ActionEvent); ok {
		m.actions = append(m.actions, LoggedAction{
			Hand:   a.HandNumber,
			Phase:  a.Phase,
			Seat:   a.Seat,
			Action: a.Action,
			Amount: a.Amount,
			To:     a.To,
		})
	}
}
