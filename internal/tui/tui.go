// Package tui is the terminal front end for playing the ladder.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/holdem-ladder/internal/cpu"
	"github.com/lox/holdem-ladder/internal/evaluator"
	"github.com/lox/holdem-ladder/internal/holdem"
	"github.com/lox/holdem-ladder/internal/ladder"
	"github.com/lox/holdem-ladder/internal/phh"
	"github.com/lox/holdem-ladder/internal/progress"
	"github.com/lox/holdem-ladder/internal/scheduler"
)

// Options wires the model to the rest of the program.
type Options struct {
	Progress  *progress.Manager
	Scheduler *scheduler.Scheduler
	Ladder    ladder.Ladder
	Evaluator evaluator.Evaluator
	Logger    *log.Logger
	// History, if set, receives every hand played.
	History *phh.Writer
	// NoColor renders without colour.
	NoColor bool
	// TestMode captures log lines instead of drawing them.
	TestMode bool
}

// cpuRevealMsg arrives when the scheduled CPU reveal fires or is cancelled.
type cpuRevealMsg struct {
	fired bool
}

// Model is the Bubble Tea model for a ladder session.
type Model struct {
	progress *progress.Manager
	sched    *scheduler.Scheduler
	ladder   ladder.Ladder
	eval     evaluator.Evaluator
	logger   *log.Logger
	history  *phh.Writer

	match       *ladder.Match
	unsubscribe func()
	names       seatNames
	cpuThinking bool
	status      string

	logViewport viewport.Model
	actionInput textinput.Model
	gameLog     []string
	focusedPane int // 0 = log, 1 = input
	quitting    bool

	width       int
	height      int
	initialized bool

	testMode    bool
	capturedLog []string
}

// New creates the model. Progress and Scheduler are required.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = PromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		progress:    opts.Progress,
		sched:       opts.Scheduler,
		ladder:      opts.Ladder,
		eval:        opts.Evaluator,
		logger:      logger.WithPrefix("tui"),
		history:     opts.History,
		logViewport: vp,
		actionInput: ti,
		focusedPane: 1,
		testMode:    opts.TestMode,
	}
	m.AddLogEntry(fmt.Sprintf("Welcome to the ladder. Next opponent: %s.", m.progress.Opponent().Name))
	m.AddLogEntry("Type 'play' to enter a match, 'help' for commands.")
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case cpuRevealMsg:
		cmds = append(cmds, m.revealCPU(msg.fired))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				cmd := m.Submit(m.actionInput.Value())
				m.actionInput.SetValue("")
				if m.quitting {
					return m, cmd
				}
				cmds = append(cmds, cmd)
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Submit handles one line of input and returns any follow-up command.
func (m *Model) Submit(input string) tea.Cmd {
	m.status = ""
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	verb, args := "", []string(nil)
	if len(parts) > 0 {
		verb, args = parts[0], parts[1:]
	}

	switch verb {
	case "quit", "exit", "q":
		return m.quit()
	case "help", "?":
		m.showHelp()
		return nil
	case "board", "leaderboard":
		m.showLeaderboard()
		return nil
	case "opponents", "ladder":
		m.showOpponents()
		return nil
	}

	if m.match == nil {
		switch verb {
		case "play", "":
			opponent := m.progress.Opponent().ID
			if len(args) > 0 {
				opponent = args[0]
			}
			return m.startMatch(opponent)
		case "select", "vs":
			if len(args) == 0 {
				m.status = "select which opponent?"
				return nil
			}
			if err := m.progress.SetOpponent(args[0]); err != nil {
				m.status = err.Error()
				return nil
			}
			m.AddLogEntry(fmt.Sprintf("Next opponent: %s.", m.progress.Opponent().Name))
			return nil
		default:
			m.status = fmt.Sprintf("unknown command %q", verb)
			return nil
		}
	}

	if m.cpuThinking {
		m.status = fmt.Sprintf("%s is thinking", m.names[holdem.CPU])
		return nil
	}
	if !m.match.InHand() {
		if verb != "" && verb != "next" && verb != "n" {
			m.status = "press enter for the next hand"
			return nil
		}
		return m.nextHand()
	}
	return m.playerAction(verb, args)
}

func (m *Model) playerAction(verb string, args []string) tea.Cmd {
	if verb == "" {
		m.status = "enter an action"
		return nil
	}
	action, err := holdem.ParseAction(verb)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	amount := 0
	if action == holdem.Raise {
		view := m.match.Snapshot()
		amount = view.MinRaiseTo
		// "raise 300" and "raise to 300" both name the new total
		if len(args) > 0 && args[0] == "to" {
			args = args[1:]
		}
		if len(args) > 0 {
			if amount, err = strconv.Atoi(args[0]); err != nil || amount <= 0 {
				m.status = fmt.Sprintf("invalid raise amount %q", args[0])
				return nil
			}
		}
	}
	if err := m.match.Act(action, amount); err != nil {
		var ae *holdem.ActionError
		if errors.As(err, &ae) {
			m.status = ae.Reason
		} else {
			m.status = err.Error()
		}
		return nil
	}
	return m.afterAction()
}

func (m *Model) startMatch(opponent string) tea.Cmd {
	p, ok := cpu.Lookup(opponent)
	if !ok {
		m.status = fmt.Sprintf("unknown opponent %q", opponent)
		return nil
	}
	fee, err := m.progress.Enter(p.ID)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	match, err := ladder.NewMatch(ladder.Config{
		Seed:      m.progress.MatchSeed(),
		Opponent:  p,
		Ladder:    m.ladder,
		Evaluator: m.eval,
		Logger:    m.logger,
	})
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.match = match
	m.names = seatNames{"You", p.Name}
	m.unsubscribe = match.Engine().Subscribe(func(ev holdem.Event) {
		for _, line := range describeEvent(ev, m.names) {
			m.AddLogEntry(line)
		}
	})
	if m.history != nil {
		rec := phh.NewRecorder(match.Engine(), match.ID(), [2]string{"Player", p.Name}, func(h *phh.HandHistory) {
			if err := m.history.Write(h); err != nil {
				m.logger.Warn("failed to write hand history", "hand", h.HandID, "error", err)
			}
		})
		stopLog, stopRec := m.unsubscribe, rec.Attach()
		m.unsubscribe = func() {
			stopLog()
			stopRec()
		}
	}
	m.AddBoldLogEntry(fmt.Sprintf("Match vs %s (tier %d), entry fee %d, seed %d", p.Name, p.Tier, fee, match.Seed()))
	m.AddLogEntry(InfoStyle.Render(p.Bio))
	return m.nextHand()
}

func (m *Model) nextHand() tea.Cmd {
	if err := m.match.NextHand(); err != nil {
		m.status = err.Error()
		return nil
	}
	return m.afterAction()
}

// afterAction books a finished hand or hands the turn to the CPU.
func (m *Model) afterAction() tea.Cmd {
	s := m.match.Engine().State()
	if s.GameOver {
		res, over, err := m.match.FinishHand()
		if err != nil {
			m.status = err.Error()
			return nil
		}
		if over {
			m.finishMatch(res)
			return nil
		}
		m.AddLogEntry(InfoStyle.Render("Press enter for the next hand."))
		return nil
	}
	if s.ToAct != holdem.CPU {
		return nil
	}

	m.cpuThinking = true
	reveal := m.sched.Schedule()
	if m.sched.Delay() <= 0 {
		return m.revealCPU(<-reveal)
	}
	return func() tea.Msg {
		return cpuRevealMsg{fired: <-reveal}
	}
}

func (m *Model) revealCPU(fired bool) tea.Cmd {
	m.cpuThinking = false
	if !fired || m.match == nil || !m.match.InHand() {
		return nil
	}
	d, err := m.match.CPUTurn()
	if err != nil {
		m.status = err.Error()
		m.logger.Error("cpu turn failed", "error", err)
		return nil
	}
	m.logger.Debug("cpu decision", "action", d.Action, "amount", d.Amount, "strength", d.Strength, "reason", d.Reason)
	return m.afterAction()
}

func (m *Model) finishMatch(res ladder.Result) {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.match = nil

	switch {
	case res.Deadlock:
		m.AddBoldLogEntry(fmt.Sprintf("Deadlock after %d hands: no winner.", res.HandsPlayed))
	case res.PlayerWon():
		m.AddBoldLogEntry(fmt.Sprintf("You beat %s in %d hands!", m.names[holdem.CPU], res.HandsPlayed))
	default:
		m.AddBoldLogEntry(fmt.Sprintf("%s wins the match in %d hands.", m.names[holdem.CPU], res.HandsPlayed))
	}

	report, err := m.progress.Record(res)
	if err != nil {
		m.status = err.Error()
		return
	}
	if report.Reward > 0 {
		m.AddLogEntry(SuccessStyle.Render(fmt.Sprintf("+%d tokens (streak %d)", report.Reward, report.Streak)))
	}
	if report.Unlocked != "" {
		next, _ := cpu.Lookup(report.Unlocked)
		m.AddLogEntry(WarningStyle.Render(fmt.Sprintf("Unlocked tier %d: %s", next.Tier, next.Name)))
	}
	if err := m.progress.Save(context.Background()); err != nil {
		m.logger.Warn("failed to save progress", "error", err)
		m.status = err.Error()
	}
	m.AddLogEntry(InfoStyle.Render("Type 'play' for another match."))
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.sched.Cancel()
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

func (m *Model) showHelp() {
	for _, line := range []string{
		"Lobby: play [opponent], select <opponent>, opponents, board, quit",
		"Table: fold, check, call, raise <total>, allin; enter deals the next hand",
	} {
		m.AddLogEntry(InfoStyle.Render(line))
	}
}

func (m *Model) showLeaderboard() {
	m.AddLogEntry(HeaderStyle.Render("Leaderboard"))
	for i, e := range m.progress.Leaderboard() {
		line := fmt.Sprintf("%d. %-12s %6d tokens  best streak %d", i+1, e.Name, e.TokensWon, e.WinStreak)
		if e.IsPlayer {
			line = SuccessStyle.Render(line)
		}
		m.AddLogEntry(line)
	}
}

func (m *Model) showOpponents() {
	st := m.progress.State()
	m.AddLogEntry(HeaderStyle.Render("Opponents"))
	for _, p := range cpu.Profiles {
		line := fmt.Sprintf("T%d %-11s %s  entry %d  wins %d/%d",
			p.Tier, p.Name, strings.Repeat("*", p.Stars), progress.EntryCost(p.Tier), st.Wins[p.ID], progress.UnlockWins)
		if p.Tier > st.UnlockedTiers {
			line = LockedStyle.Render(line)
		}
		m.AddLogEntry(line)
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(focusedBorder).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight-2, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1)
	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(unfocusedBorder).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	border := unfocusedBorder
	if m.focusedPane == 0 {
		border = focusedBorder
	}
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(m.logViewport.Width).
		Height(m.logViewport.Height).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *Model) renderSidebarPane() string {
	var b strings.Builder
	st := m.progress.State()
	opp := m.progress.Opponent()

	b.WriteString(HeaderStyle.Render("Heads-Up Ladder"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Tokens: %s\n", WarningStyle.Render(strconv.Itoa(st.Tokens)))
	fmt.Fprintf(&b, "Opponent: %s\n", opp.Name)
	fmt.Fprintf(&b, "Streak: %d/%d\n", st.Wins[opp.ID], progress.UnlockWins)
	fmt.Fprintf(&b, "Unlocked tiers: %d\n", st.UnlockedTiers)

	if m.match == nil {
		return b.String()
	}
	view := m.match.Snapshot()
	lvl, blinds := m.match.Level()
	b.WriteString("\n")
	fmt.Fprintf(&b, "Level %d: %s\n", lvl+1, blinds)
	fmt.Fprintf(&b, "Hands played: %d\n", m.match.HandsPlayed())
	fmt.Fprintf(&b, "Pot: %s\n", WarningStyle.Render(strconv.Itoa(view.Pot)))
	for _, seat := range []holdem.Seat{holdem.Player, holdem.CPU} {
		marker := "  "
		if seat == view.Button {
			marker = "D "
		}
		fmt.Fprintf(&b, "%s%-10s %5d", marker, m.names[seat], view.Stacks[seat])
		if view.Bets[seat] > 0 {
			fmt.Fprintf(&b, " (%d)", view.Bets[seat])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder

	switch {
	case m.match == nil:
		b.WriteString(HandInfoStyle.Render("Lobby"))
		m.actionInput.Placeholder = "play, select <opponent>, opponents, board, quit"
	case m.cpuThinking:
		b.WriteString(HandInfoStyle.Render(m.names[holdem.CPU] + " is thinking..."))
		m.actionInput.Placeholder = ""
	case !m.match.InHand():
		b.WriteString(HandInfoStyle.Render("Hand over"))
		m.actionInput.Placeholder = "Enter for the next hand"
	default:
		view := m.match.Snapshot()
		opponent := view.OpponentHole
		fmt.Fprintf(&b, "%s  Board: %s  Them: %s\n",
			HandInfoStyle.Render("You: ")+formatCards(view.Hole, 2),
			formatCards(view.Board, 0),
			formatCards(opponent, 2))
		b.WriteString(renderActions(view))
		m.actionInput.Placeholder = "fold, check, call, raise <total>, allin"
	}
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(ErrorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.actionInput.View())
	b.WriteString("\n")
	if m.focusedPane == 0 {
		b.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		b.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}
	return b.String()
}

// AddLogEntry appends a line to the game log.
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// AddBoldLogEntry appends a bold line to the game log.
func (m *Model) AddBoldLogEntry(entry string) {
	if m.testMode {
		m.gameLog = append(m.gameLog, entry)
		m.capturedLog = append(m.capturedLog, entry)
		return
	}
	m.AddLogEntry(lipgloss.NewStyle().Bold(true).Render(entry))
}

// Status returns the last error or hint shown to the player.
func (m *Model) Status() string { return m.status }

// Match returns the match in progress, or nil in the lobby.
func (m *Model) Match() *ladder.Match { return m.match }

// Quitting reports whether the model has asked to exit.
func (m *Model) Quitting() bool { return m.quitting }

// GetCapturedLog returns the captured log entries (test mode only)
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	return append([]string(nil), m.capturedLog...)
}

// Run starts the program on the terminal and blocks until the player quits.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts), tea.WithAltScreen()).Run()
	return err
}
