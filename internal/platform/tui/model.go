package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-micro/internal/core"
	"github.com/vovakirdan/flappy-micro/internal/games/flappy"
	"github.com/vovakirdan/flappy-micro/internal/games/flappy/engine"
	"github.com/vovakirdan/flappy-micro/internal/leaderboard"
)

type phase int

const (
	phaseName phase = iota
	phasePlay
	phaseScores
)

// Options configures a Model.
type Options struct {
	World  engine.World  // zero means engine.DefaultWorld
	Tuning engine.Tuning // zero means engine.DefaultTuning

	// Gateway receives finished runs and feeds the leaderboard panel.
	// Nil disables both.
	Gateway leaderboard.Gateway
	Logger  *log.Logger

	TickRate   int
	Seed       int64
	PlayerName string // pre-filled into the name form

	PanelLimit    int
	RefreshEvery  time.Duration
	ScreenshotDir string
}

// runEvents collects engine hook calls. Model is copied on every Update, so
// the hooks write through this shared pointer.
type runEvents struct {
	over  bool
	final int
}

// Model is the Bubble Tea model for a single player: name form, game,
// leaderboard panel and scoreboard.
type Model struct {
	opts   Options
	logger *log.Logger
	keys   PlayKeyMap
	help   help.Model

	phase     phase
	prevPhase phase
	nameInput textinput.Model
	nameErr   string
	player    string

	game    *flappy.Game
	events  *runEvents
	screen  *core.Screen
	input   core.InputFrame
	gen     int
	ticking bool

	panel      panel
	scoreboard ScoreboardModel
	status     string

	width    int
	height   int
	quitting bool
}

// NewModel builds a model in the name-entry phase.
func NewModel(opts Options) (Model, error) {
	if opts.World == (engine.World{}) {
		opts.World = engine.DefaultWorld()
	}
	if opts.Tuning == (engine.Tuning{}) {
		opts.Tuning = engine.DefaultTuning()
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.PanelLimit <= 0 {
		opts.PanelLimit = DefaultPanelLimit
	}
	if opts.RefreshEvery <= 0 {
		opts.RefreshEvery = DefaultRefreshEvery
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	events := &runEvents{}
	cfg := core.DefaultConfig()
	cfg.TickRate = opts.TickRate
	cfg.Seed = opts.Seed
	game, err := flappy.New(opts.World, opts.Tuning, cfg, engine.Hooks{
		OnScoreChange: func(score int) { logger.Debug("scored", "score", score) },
		OnGameOver: func(final int) {
			events.over = true
			events.final = final
		},
	})
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.CharLimit = leaderboard.MaxNameLength
	ti.Width = 24
	ti.SetValue(opts.PlayerName)
	ti.Focus()

	m := Model{
		opts:      opts,
		logger:    logger,
		keys:      DefaultPlayKeyMap(),
		help:      help.New(),
		nameInput: ti,
		game:      game,
		events:    events,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		input:     core.NewInputFrame(),
	}
	m.resize(cfg.ScreenW, cfg.ScreenH+2)
	return m, nil
}

// Init starts the cursor blink and the leaderboard poll.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.opts.Gateway != nil {
		cmds = append(cmds, fetchTopCmd(m.opts.Gateway, m.opts.PanelLimit, true))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.phase == phaseScores {
			return m.updateScoreboard(msg)
		}
		return m, nil

	case TickMsg:
		return m.handleTick(msg)

	case pollMsg:
		if m.opts.Gateway == nil {
			return m, nil
		}
		return m, fetchTopCmd(m.opts.Gateway, m.opts.PanelLimit, true)

	case refreshMsg:
		if m.opts.Gateway == nil {
			return m, nil
		}
		return m, fetchTopCmd(m.opts.Gateway, m.opts.PanelLimit, false)

	case scoresMsg:
		m.panel.apply(msg)
		if msg.err != nil {
			m.logger.Debug("leaderboard fetch failed", "error", msg.err)
		}
		if msg.polled {
			return m, pollAfter(m.opts.RefreshEvery)
		}
		return m, nil

	case submittedMsg:
		if msg.err != nil {
			m.logger.Warn("score submission failed", "player", msg.entry.PlayerName, "score", msg.entry.Score, "error", msg.err)
			m.status = "Score not saved: leaderboard unavailable"
		} else {
			m.logger.Info("score submitted", "player", msg.entry.PlayerName, "score", msg.entry.Score)
			m.status = fmt.Sprintf("Score %d saved", msg.entry.Score)
		}
		return m, refreshAfter(refreshAfterSubmit)

	case boardMsg:
		return m.updateScoreboard(msg)

	case tea.MouseMsg:
		if m.phase == phasePlay && MapMouse(msg) == core.ActionFlap {
			return m.flap()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	switch m.phase {
	case phaseName:
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	case phaseScores:
		return m.updateScoreboard(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.phase {
	case phaseName:
		return m.handleNameKey(msg)
	case phaseScores:
		return m.updateScoreboard(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Screenshot):
		path, err := saveScreenshot(m.opts.ScreenshotDir, m.screen, time.Now())
		if err != nil {
			m.logger.Warn("screenshot failed", "error", err)
			m.status = "Screenshot failed"
		} else {
			m.logger.Info("screenshot saved", "path", path)
			m.status = "Saved " + path
		}
		return m, nil
	case key.Matches(msg, m.keys.Scoreboard):
		return m.openScoreboard()
	case key.Matches(msg, m.keys.Refresh):
		if m.opts.Gateway == nil {
			return m, nil
		}
		return m, fetchTopCmd(m.opts.Gateway, m.opts.PanelLimit, false)
	}

	action := m.keys.MapKey(msg)
	if action != core.ActionNone {
		m.logger.Debug("input", "key", msg.String(), "action", action.String())
	}
	switch action {
	case core.ActionQuit:
		return m.quit()
	case core.ActionFlap:
		return m.flap()
	case core.ActionPause:
		m.input.Set(core.ActionPause)
	case core.ActionRestart:
		if m.game.State().GameOver {
			return m.startRun()
		}
	case core.ActionConfirm:
		if m.game.State().GameOver {
			return m.newPlayer()
		}
	case core.ActionBack:
		if m.game.Running() {
			m.game.Abandon()
			m.stopLoop()
			m.status = "Run stopped"
			m.phase = phaseName
			m.nameInput.Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.nameErr = "Please enter your name!"
			return m, nil
		}
		m.nameErr = ""
		m.player = name
		m.panel.player = name
		m.nameInput.Blur()
		m.phase = phasePlay
		return m, nil
	case "tab":
		return m.openScoreboard()
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	if m.nameErr != "" && strings.TrimSpace(m.nameInput.Value()) != "" {
		m.nameErr = ""
	}
	return m, cmd
}

// flap starts a run from standby, otherwise queues a flap for the next tick.
func (m Model) flap() (tea.Model, tea.Cmd) {
	if m.game.Standby() {
		return m.startRun()
	}
	m.input.Set(core.ActionFlap)
	return m, nil
}

func (m Model) startRun() (tea.Model, tea.Cmd) {
	cfg := core.DefaultConfig()
	cfg.ScreenW, cfg.ScreenH = m.screen.Width(), m.screen.Height()
	cfg.TickRate = m.opts.TickRate
	m.game.Reset(cfg)
	*m.events = runEvents{}
	m.input.Clear()
	m.status = ""

	m.gen++
	m.ticking = true
	return m, tickCmd(m.opts.TickRate, m.gen)
}

func (m *Model) stopLoop() {
	m.gen++
	m.ticking = false
	m.input.Clear()
}

func (m Model) newPlayer() (tea.Model, tea.Cmd) {
	m.game.Abandon()
	m.stopLoop()
	m.player = ""
	m.panel.player = ""
	m.status = ""
	m.nameInput.SetValue("")
	m.nameInput.Focus()
	m.phase = phaseName
	return m, textinput.Blink
}

func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || !m.ticking {
		return m, nil
	}

	m.game.Step(m.input)
	m.input.Clear()

	if m.events.over {
		m.events.over = false
		m.stopLoop()
		m.logger.Info("run finished", "game", m.game.ID(), "player", m.player, "score", m.events.final, "cause", m.game.Cause())
		return m, m.reportRun(m.events.final)
	}
	return m, tickCmd(m.opts.TickRate, m.gen)
}

// reportRun hands a finished run to the gateway without waiting for it.
func (m *Model) reportRun(final int) tea.Cmd {
	if m.opts.Gateway == nil || m.player == "" {
		m.status = fmt.Sprintf("Final score %d (leaderboard offline)", final)
		return nil
	}
	m.status = "Submitting score..."
	return submitCmd(m.opts.Gateway, leaderboard.Entry{PlayerName: m.player, Score: final})
}

func (m Model) openScoreboard() (tea.Model, tea.Cmd) {
	if m.game.Running() && !m.game.State().Paused {
		m.game.Step(core.NewInputFrame(core.ActionPause))
	}
	m.prevPhase = m.phase
	m.phase = phaseScores
	m.scoreboard = NewScoreboardModel(m.opts.Gateway, m.width, m.height)
	return m, m.scoreboard.Init()
}

func (m Model) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		m.scoreboard = sb
	}
	switch {
	case m.scoreboard.Quitting():
		return m.quit()
	case m.scoreboard.GoingBack():
		m.phase = m.prevPhase
		if m.phase == phaseName {
			m.nameInput.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.stopLoop()
	return m, tea.Quit
}

func (m *Model) showPanel() bool {
	return m.opts.Gateway != nil && m.width >= 40+panelWidth
}

// resize fits the playfield to the terminal, leaving room for the panel
// and two status rows.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	playW := width
	if m.showPanel() {
		playW -= panelWidth + 1
	}
	m.screen.Resize(max(playW, 1), max(height-2, 1))
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the current phase.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phaseScores:
		return m.scoreboard.View()
	case phaseName:
		return m.nameView()
	}

	m.game.Render(m.screen)
	body := RenderScreen(m.screen)
	if m.showPanel() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.panel.View())
	}

	status := m.status
	if m.player != "" {
		status = strings.TrimSpace("Player: " + m.player + "   " + status)
	}
	return body + "\n" + statusStyle.Render(status) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

func (m Model) nameView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(m.game.Title())))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("Enter your name to play"))
	b.WriteString("\n\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n\n")
	if m.nameErr != "" {
		b.WriteString(errorStyle.Render(m.nameErr))
		b.WriteString("\n\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n\n")
	}
	b.WriteString(helpStyle.Render("enter start • tab scores • ctrl+c quit"))

	form := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	if m.opts.Gateway != nil {
		form = lipgloss.JoinHorizontal(lipgloss.Top, form, "  ", m.panel.View())
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}

// Player returns the confirmed player name, or "".
func (m Model) Player() string {
	return m.player
}

// Run starts the program on the local terminal.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}
