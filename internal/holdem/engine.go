package holdem

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-ladder/internal/cards"
	"github.com/lox/holdem-ladder/internal/evaluator"
	"github.com/lox/holdem-ladder/internal/randutil"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithEvaluator sets the showdown ranker. The default is the chehsunliu backend.
func WithEvaluator(ev evaluator.Evaluator) Option {
	return func(e *Engine) { e.eval = ev }
}

// WithLogger sets the engine logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithDeck replaces the shuffled deck with one built per hand by newDeck,
// for replaying fixed boards.
func WithDeck(newDeck func(rng randutil.Source, logger *log.Logger) *cards.Deck) Option {
	return func(e *Engine) { e.newDeck = newDeck }
}

// HandConfig describes the hand StartHand deals.
type HandConfig struct {
	HandNumber  int
	BlindLevel  int
	Button      Seat
	SmallBlind  int
	BigBlind    int
	PlayerStack int
	CPUStack    int
}

// Validate checks the blinds and stacks are usable.
func (c HandConfig) Validate() error {
	switch {
	case !c.Button.Valid():
		return fmt.Errorf("%w: button %d", ErrInvalidConfig, c.Button)
	case c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind:
		return fmt.Errorf("%w: blinds %d/%d", ErrInvalidConfig, c.SmallBlind, c.BigBlind)
	case c.PlayerStack <= 0 || c.CPUStack <= 0:
		return fmt.Errorf("%w: stacks %d/%d", ErrInvalidConfig, c.PlayerStack, c.CPUStack)
	}
	return nil
}

// Engine runs one heads-up hand at a time. It owns the table State; hosts
// read it through State and Snapshot and observe it through Subscribe.
type Engine struct {
	rng    randutil.Source
	eval   evaluator.Evaluator
	logger *log.Logger
	clock  quartz.Clock

	newDeck func(rng randutil.Source, logger *log.Logger) *cards.Deck
	deck    *cards.Deck
	state   State
	started bool
	chips   int

	subs    []subscription
	nextSub int
}

// NewEngine creates an engine that deals from rng. The rng is shared with
// anything else drawing for the match, so the call order fixes the outcome.
func NewEngine(rng randutil.Source, opts ...Option) *Engine {
	if rng == nil {
		panic("holdem: rng is required")
	}
	e := &Engine{
		rng:     rng,
		eval:    evaluator.NewChehsunliu(),
		logger:  log.New(io.Discard),
		clock:   quartz.NewReal(),
		newDeck: cards.NewDeck,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the table state.
func (e *Engine) State() State {
	return e.state.Clone()
}

// Started reports whether a hand has been dealt.
func (e *Engine) Started() bool {
	return e.started
}

// Evaluator returns the showdown ranker.
func (e *Engine) Evaluator() evaluator.Evaluator {
	return e.eval
}

// StartHand shuffles a fresh deck, deals two cards to the player then two
// to the CPU, and posts the blinds. A blind that puts a seat all-in returns
// the opponent's uncalled excess, and if nobody can act the board is run
// out immediately.
func (e *Engine) StartHand(cfg HandConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if e.started && !e.state.GameOver {
		e.logger.Warn("abandoning unfinished hand", "hand", e.state.HandNumber)
	}

	e.deck = e.newDeck(e.rng, e.logger)
	e.state = State{
		HandNumber: cfg.HandNumber,
		BlindLevel: cfg.BlindLevel,
		Phase:      Preflop,
		Button:     cfg.Button,
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
		Stacks:     [2]int{cfg.PlayerStack, cfg.CPUStack},
	}
	s := &e.state
	s.Hole[Player] = e.deck.DrawN(2)
	s.Hole[CPU] = e.deck.DrawN(2)
	e.started = true
	e.chips = s.Chips()

	// heads-up: the button posts the small blind and acts first preflop
	sb, bb := cfg.Button, cfg.Button.Other()
	e.commit(sb, min(cfg.SmallBlind, s.Stacks[sb]))
	e.commit(bb, min(cfg.BigBlind, s.Stacks[bb]))
	s.CurrentBet = max(s.Bets[sb], s.Bets[bb])
	s.ToAct = sb

	e.logger.Debug("hand started",
		"hand", s.HandNumber,
		"button", s.Button,
		"blinds", fmt.Sprintf("%d/%d", s.SmallBlind, s.BigBlind),
		"player_stack", s.Stacks[Player],
		"cpu_stack", s.Stacks[CPU])
	e.publish(HandStartEvent{
		HandNumber: s.HandNumber,
		Button:     s.Button,
		SmallBlind: s.SmallBlind,
		BigBlind:   s.BigBlind,
		Stacks:     s.Stacks,
		Posted:     s.Bets,
		Pot:        s.Pot,
		timestamp:  e.clock.Now(),
	})

	if s.AllIn(Player) || s.AllIn(CPU) {
		e.refundUncalled()
		if s.Bets[Player] == s.Bets[CPU] {
			return e.verify(e.closeStreet())
		}
	}
	return e.verify(nil)
}

// Apply dispatches an action by kind. amount is only read for Raise, where
// it is the raise-to total.
func (e *Engine) Apply(seat Seat, action Action, amount int) error {
	switch action {
	case Fold:
		return e.Fold(seat)
	case Check:
		return e.Check(seat)
	case Call:
		return e.Call(seat)
	case Raise:
		return e.Raise(seat, amount)
	case AllIn:
		return e.AllIn(seat)
	default:
		return reject(seat, action, ErrIllegalAction, "unknown action")
	}
}

// Fold ends the hand and awards the whole pot to the opponent.
func (e *Engine) Fold(seat Seat) error {
	if err := e.admit(seat, Fold); err != nil {
		return err
	}
	e.record(seat, Fold, 0)
	e.settle(seat.Other(), false)
	return e.verify(nil)
}

// Check passes when seat owes nothing. The street closes once the opponent
// has also acted on it.
func (e *Engine) Check(seat Seat) error {
	if err := e.admit(seat, Check); err != nil {
		return err
	}
	if owed := e.state.ToCall(seat); owed > 0 {
		return reject(seat, Check, ErrIllegalAction, "facing %d", owed)
	}
	e.record(seat, Check, 0)
	return e.verify(e.advance(seat))
}

// Call matches the current bet, or puts seat all-in for less when its stack
// is short; the opponent's uncalled excess is then returned.
func (e *Engine) Call(seat Seat) error {
	if err := e.admit(seat, Call); err != nil {
		return err
	}
	if e.state.ToCall(seat) <= 0 {
		return reject(seat, Call, ErrIllegalAction, "nothing to call")
	}
	return e.verify(e.call(seat))
}

// Raise lifts the seat's street total to `to`. Targets below the minimum
// (current bet plus one big blind) are lifted to it, and targets at or past
// the seat's stack become an all-in.
func (e *Engine) Raise(seat Seat, to int) error {
	if err := e.admit(seat, Raise); err != nil {
		return err
	}
	s := &e.state
	if s.AllIn(seat.Other()) {
		return reject(seat, Raise, ErrIllegalAction, "opponent is all-in")
	}
	if s.Stacks[seat] <= s.ToCall(seat) {
		return reject(seat, Raise, ErrIllegalAction, "stack %d cannot cover more than the call", s.Stacks[seat])
	}

	to = max(to, s.MinRaiseTo())
	label := Raise
	if ceiling := s.Bets[seat] + s.Stacks[seat]; to >= ceiling {
		to, label = ceiling, AllIn
	}
	amount := to - s.Bets[seat]
	e.commit(seat, amount)
	s.CurrentBet = to
	s.Acted = [2]bool{}
	e.record(seat, label, amount)
	return e.verify(e.advance(seat))
}

// AllIn commits the whole stack. It raises when the new total beats the
// current bet and the opponent can still respond; otherwise it is a call.
func (e *Engine) AllIn(seat Seat) error {
	if err := e.admit(seat, AllIn); err != nil {
		return err
	}
	s := &e.state
	total := s.Bets[seat] + s.Stacks[seat]
	if total <= s.CurrentBet || s.AllIn(seat.Other()) {
		if s.ToCall(seat) <= 0 {
			return reject(seat, AllIn, ErrIllegalAction, "nothing to call and opponent is all-in")
		}
		return e.verify(e.call(seat))
	}

	amount := s.Stacks[seat]
	e.commit(seat, amount)
	s.CurrentBet = total
	s.Acted = [2]bool{}
	e.record(seat, AllIn, amount)
	return e.verify(e.advance(seat))
}

// LegalActions lists the actions seat may take now; it is empty when it is
// not seat's turn.
func (e *Engine) LegalActions(seat Seat) []Action {
	if !e.started || e.state.GameOver || seat != e.state.ToAct {
		return nil
	}
	return e.state.legalActions(seat)
}

// MinRaiseTo is the smallest legal raise-to total.
func (s State) MinRaiseTo() int {
	return s.CurrentBet + s.BigBlind
}

func (s State) legalActions(seat Seat) []Action {
	owed := s.ToCall(seat)
	actions := []Action{Fold}
	if owed == 0 {
		actions = append(actions, Check)
	} else {
		actions = append(actions, Call)
	}
	if !s.AllIn(seat.Other()) && s.Stacks[seat] > owed {
		actions = append(actions, Raise)
	}
	if s.Stacks[seat] > 0 {
		actions = append(actions, AllIn)
	}
	return actions
}

func (e *Engine) admit(seat Seat, action Action) error {
	switch {
	case !e.started || e.state.GameOver:
		return reject(seat, action, ErrHandOver, "")
	case !seat.Valid():
		return reject(seat, action, ErrIllegalAction, "unknown seat")
	case seat != e.state.ToAct:
		return reject(seat, action, ErrNotYourTurn, "%s to act", e.state.ToAct)
	}
	return nil
}

func (e *Engine) call(seat Seat) error {
	s := &e.state
	amount := min(s.ToCall(seat), s.Stacks[seat])
	e.commit(seat, amount)
	label := Call
	if s.AllIn(seat) {
		label = AllIn
	}
	e.refundUncalled()
	e.record(seat, label, amount)
	return e.advance(seat)
}

func (e *Engine) commit(seat Seat, amount int) {
	s := &e.state
	s.Stacks[seat] -= amount
	s.Bets[seat] += amount
	s.Pot += amount
}

// refundUncalled returns the part of a bet that an all-in opponent cannot
// match, so the pot never needs a side pot.
func (e *Engine) refundUncalled() {
	s := &e.state
	for _, short := range []Seat{Player, CPU} {
		other := short.Other()
		if !s.AllIn(short) || s.Bets[other] <= s.Bets[short] {
			continue
		}
		excess := s.Bets[other] - s.Bets[short]
		s.Bets[other] -= excess
		s.Stacks[other] += excess
		s.Pot -= excess
		e.logger.Debug("uncalled chips returned", "seat", other, "amount", excess)
	}
	s.CurrentBet = max(s.Bets[Player], s.Bets[CPU])
}

func (e *Engine) record(seat Seat, action Action, amount int) {
	s := &e.state
	s.Acted[seat] = true
	s.LastAction[seat] = action
	e.logger.Debug("action",
		"hand", s.HandNumber,
		"phase", s.Phase,
		"seat", seat,
		"action", action,
		"amount", amount,
		"pot", s.Pot)
	e.publish(ActionEvent{
		HandNumber: s.HandNumber,
		Seat:       seat,
		Action:     action,
		Amount:     amount,
		To:         s.Bets[seat],
		Phase:      s.Phase,
		PotAfter:   s.Pot,
		timestamp:  e.clock.Now(),
	})
}

// advance passes the turn, or closes the street when the bets match and
// either the opponent has acted or nobody can act any more.
func (e *Engine) advance(actor Seat) error {
	s := &e.state
	if s.Bets[Player] == s.Bets[CPU] && (s.Acted[actor.Other()] || s.AllIn(Player) || s.AllIn(CPU)) {
		return e.closeStreet()
	}
	s.ToAct = actor.Other()
	return nil
}

func (e *Engine) closeStreet() error {
	s := &e.state
	s.Bets = [2]int{}
	s.CurrentBet = 0
	s.Acted = [2]bool{}
	runOut := s.AllIn(Player) || s.AllIn(CPU)

	for {
		switch s.Phase {
		case Preflop:
			s.Phase = Flop
			s.Board = append(s.Board, e.deck.DrawN(3)...)
		case Flop:
			s.Phase = Turn
			s.Board = append(s.Board, e.deck.Draw())
		case Turn:
			s.Phase = River
			s.Board = append(s.Board, e.deck.Draw())
		default:
			return e.showdown()
		}

		e.logger.Debug("street dealt", "hand", s.HandNumber, "phase", s.Phase, "board", cards.Join(s.Board), "run_out", runOut)
		e.publish(StreetDealtEvent{
			HandNumber: s.HandNumber,
			Phase:      s.Phase,
			Board:      append([]cards.Card(nil), s.Board...),
			RunOut:     runOut,
			timestamp:  e.clock.Now(),
		})
		if !runOut {
			// postflop the big blind acts first
			s.ToAct = s.BigBlindSeat()
			return nil
		}
	}
}

func (e *Engine) showdown() error {
	s := &e.state
	s.Phase = Showdown
	seven := func(seat Seat) []cards.Card {
		return append(append([]cards.Card(nil), s.Hole[seat]...), s.Board...)
	}
	winners, ranks, err := evaluator.Winners(e.eval, seven(Player), seven(CPU))
	if err != nil {
		return fmt.Errorf("showdown: %w", err)
	}
	s.Ranks = [2]evaluator.HandRank{ranks[Player], ranks[CPU]}
	if len(winners) == 1 {
		e.settle(Seat(winners[0]), true)
		return nil
	}
	e.split()
	return nil
}

func (e *Engine) settle(winner Seat, showdown bool) {
	var payouts [2]int
	payouts[winner] = e.state.Pot
	e.finish(payouts, outcomeFor(winner), showdown)
}

// split divides a tied pot; the odd chip goes to the button.
func (e *Engine) split() {
	s := &e.state
	half := s.Pot / 2
	payouts := [2]int{half, half}
	payouts[s.Button] += s.Pot % 2
	e.finish(payouts, Split, true)
}

func (e *Engine) finish(payouts [2]int, winner Outcome, showdown bool) {
	s := &e.state
	pot := s.Pot
	for seat, amount := range payouts {
		s.Stacks[seat] += amount
	}
	s.Pot = 0
	s.Bets = [2]int{}
	s.CurrentBet = 0
	s.Payouts = payouts
	s.Winner = winner
	s.GameOver = true

	ev := HandEndEvent{
		HandNumber: s.HandNumber,
		Winner:     winner,
		Pot:        pot,
		Payouts:    payouts,
		Stacks:     s.Stacks,
		Phase:      s.Phase,
		Showdown:   showdown,
		Board:      append([]cards.Card(nil), s.Board...),
		timestamp:  e.clock.Now(),
	}
	if showdown {
		ev.Hole = [2][]cards.Card{
			append([]cards.Card(nil), s.Hole[Player]...),
			append([]cards.Card(nil), s.Hole[CPU]...),
		}
		ev.Descriptions = [2]string{s.Ranks[Player].Description, s.Ranks[CPU].Description}
	}
	e.logger.Info("hand complete",
		"hand", s.HandNumber,
		"winner", winner,
		"pot", pot,
		"showdown", showdown,
		"player_stack", s.Stacks[Player],
		"cpu_stack", s.Stacks[CPU])
	e.publish(ev)
}

// verify checks chip conservation after an accepted action.
func (e *Engine) verify(err error) error {
	if err != nil {
		return err
	}
	if got := e.state.Chips(); got != e.chips {
		e.logger.Error("chip conservation violated", "hand", e.state.HandNumber, "expected", e.chips, "got", got)
		return fmt.Errorf("chip conservation violated: expected %d, got %d", e.chips, got)
	}
	return nil
}
